package models

import "time"

// Milestone is one checklist row on a month page. The label comes from the
// static month configuration; Value and Completed are user-editable.
type Milestone struct {
	Label     string `json:"label"`
	Value     string `json:"value"`
	Completed bool   `json:"completed"`
}

// MonthRecord is the editable story and milestone checklist for one of the
// 13 month slots (0-12, where 12 is the one-year summary).
//
// A record with Customized=false is a synthesized default view and is never
// persisted; only user-saved records reach the record store. Photos is a
// read-through cache over the blob store, which is the durable source of
// truth for photo payloads.
type MonthRecord struct {
	Month       int         `json:"month"`
	Title       string      `json:"title,omitempty"`
	Story       string      `json:"story"`
	Milestones  []Milestone `json:"milestones"`
	Customized  bool        `json:"customized"`
	Photos      [][]byte    `json:"photos,omitempty"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

// Clone returns a deep copy so cached records can be handed out without
// aliasing the service's internal state.
func (r *MonthRecord) Clone() *MonthRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Milestones != nil {
		out.Milestones = make([]Milestone, len(r.Milestones))
		copy(out.Milestones, r.Milestones)
	}
	if r.Photos != nil {
		out.Photos = make([][]byte, len(r.Photos))
		for i, p := range r.Photos {
			cp := make([]byte, len(p))
			copy(cp, p)
			out.Photos[i] = cp
		}
	}
	return &out
}
