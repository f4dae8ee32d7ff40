package models

// PhotoRecord is the persisted envelope for one month's photos in the object
// store. Photos is the current multi-photo shape; Blob is the superseded
// single-photo shape kept readable for already-stored data. A stored record
// carries exactly one of the two; readers go through Sequence so the rest of
// the system only ever sees the multi-photo shape.
type PhotoRecord struct {
	Month     int      `json:"month"`
	Photos    [][]byte `json:"photos,omitempty"`
	Blob      []byte   `json:"blob,omitempty"`
	Timestamp int64    `json:"timestamp"`
}

// Sequence normalizes the record to the multi-photo shape. A legacy
// single-blob record becomes a one-element sequence. When both fields are
// present (possible after a partial migration) the sequence shape wins.
func (p *PhotoRecord) Sequence() [][]byte {
	if p == nil {
		return [][]byte{}
	}
	if p.Photos != nil {
		return p.Photos
	}
	if len(p.Blob) > 0 {
		return [][]byte{p.Blob}
	}
	return [][]byte{}
}
