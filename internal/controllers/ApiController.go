package controllers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"

	"bjd/internal/models"
	"bjd/internal/providers"
	"bjd/internal/services"
	"bjd/internal/storage"
)

const maxRequestBodySize = 32 << 20 // photos travel base64-encoded in JSON

type ApiController struct {
	logger  providers.Logger
	manager *storage.StorageManager
	state   services.StateServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, manager *storage.StorageManager, state services.StateServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		manager: manager,
		state:   state,
		cache:   cache,
	}
}

// getMonth parses the month query parameter; out-of-range and unparsable
// values both come back as -1, which every storage call rejects.
func getMonth(r *http.Request) int {
	month, err := strconv.Atoi(r.URL.Query().Get("m"))
	if err != nil {
		return -1
	}
	return month
}

func writeJSON(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (ac *ApiController) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrInvalidMonth),
		errors.Is(err, storage.ErrInvalidPhotos),
		errors.Is(err, storage.ErrInvalidRecord):
		http.Error(w, "Bad Request", http.StatusBadRequest)
	case errors.Is(err, storage.ErrQuotaExceeded):
		http.Error(w, "Insufficient Storage", http.StatusInsufficientStorage)
	default:
		ac.logger.Errorf(providers.TypeApp, "Storage error: %s", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (ac *ApiController) serveFromCacheOrCompute(w http.ResponseWriter, cacheKey string, compute func() (any, bool)) {
	if data, ok := ac.cache.Get(cacheKey); ok {
		writeJSON(w, data)
		return
	}

	result, found := compute()
	if !found {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ac.cache.Set(cacheKey, gson)
	writeJSON(w, gson)
}

// ==================== progress ====================

func (ac *ApiController) GetProgress(w http.ResponseWriter, r *http.Request) {
	gson, _ := json.Marshal(map[string]int{"progress": ac.manager.GetProgress()})
	writeJSON(w, gson)
}

func (ac *ApiController) SaveProgress(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Month int `json:"month"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := ac.manager.SaveProgress(payload.Month); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.state.SetCurrentMonth(payload.Month)
	w.WriteHeader(http.StatusNoContent)
}

// ==================== month config and data ====================

func (ac *ApiController) GetMonthConfig(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	ac.serveFromCacheOrCompute(w, "config:"+strconv.Itoa(month), func() (any, bool) {
		cfg := ac.state.GetMonthConfig(month)
		return cfg, cfg != nil
	})
}

func (ac *ApiController) GetMonthData(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	ac.serveFromCacheOrCompute(w, "month:"+strconv.Itoa(month), func() (any, bool) {
		rec := ac.state.GetMonthData(month)
		return rec, rec != nil
	})
}

func (ac *ApiController) SaveMonthData(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	month := getMonth(r)

	var payload struct {
		Story      *string            `json:"story"`
		Milestones []models.Milestone `json:"milestones"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	update := services.MonthUpdate{Story: payload.Story, Milestones: payload.Milestones}
	if err := ac.state.SaveMonth(month, update); err != nil {
		ac.writeError(w, err)
		return
	}

	ac.cache.Del("month:" + strconv.Itoa(month))
	ac.logger.Infof(providers.TypePost, "Saved record for month %d", month)
	w.WriteHeader(http.StatusNoContent)
}

// ==================== photo sequences ====================

func (ac *ApiController) GetMonthPhotos(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	photos, err := ac.manager.GetMonthPhotos(r.Context(), month)
	if err != nil {
		ac.writeError(w, err)
		return
	}
	gson, err := json.Marshal(map[string][][]byte{"photos": photos})
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, gson)
}

func (ac *ApiController) SaveMonthPhotos(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	month := getMonth(r)

	var payload struct {
		Photos [][]byte `json:"photos"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.state.SavePhotos(r.Context(), month, payload.Photos); err != nil {
		ac.writeError(w, err)
		return
	}

	ac.cache.Del("month:" + strconv.Itoa(month))
	ac.logger.Infof(providers.TypePost, "Saved %d photos for month %d", len(payload.Photos), month)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DeleteMonthPhotos(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	if err := ac.state.DeletePhotos(r.Context(), month); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.cache.Del("month:" + strconv.Itoa(month))
	w.WriteHeader(http.StatusNoContent)
}

// ==================== single photo (superseded shape) ====================

func (ac *ApiController) GetPhoto(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	encoded, err := ac.manager.GetPhoto(r.Context(), month)
	if err != nil {
		ac.writeError(w, err)
		return
	}

	var photo *string
	if encoded != "" {
		photo = &encoded
	}
	gson, _ := json.Marshal(map[string]*string{"photo": photo})
	writeJSON(w, gson)
}

func (ac *ApiController) SavePhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	month := getMonth(r)

	var payload struct {
		Photo string `json:"photo"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(payload.Photo)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := ac.manager.SavePhoto(r.Context(), month, decoded); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	month := getMonth(r)
	if err := ac.manager.DeletePhoto(r.Context(), month); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ==================== visit flags, state, clear ====================

func (ac *ApiController) IsFirstVisit(w http.ResponseWriter, r *http.Request) {
	gson, _ := json.Marshal(map[string]bool{"firstVisit": ac.manager.IsFirstVisit()})
	writeJSON(w, gson)
}

func (ac *ApiController) MarkVisited(w http.ResponseWriter, r *http.Request) {
	if err := ac.manager.MarkVisited(); err != nil {
		ac.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetState(w http.ResponseWriter, r *http.Request) {
	gson, err := json.Marshal(ac.state.GetState())
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, gson)
}

func (ac *ApiController) SetEditing(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Editing bool `json:"editing"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if payload.Editing {
		ac.state.StartEditing()
	} else {
		ac.state.StopEditing()
	}
	gson, _ := json.Marshal(map[string]bool{"isEditing": ac.state.GetState().IsEditing})
	writeJSON(w, gson)
}

func (ac *ApiController) SetShareModal(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload struct {
		Open bool `json:"open"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ac.state.SetShareModal(payload.Open)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) ClearAll(w http.ResponseWriter, r *http.Request) {
	if err := ac.manager.ClearAll(r.Context()); err != nil {
		ac.writeError(w, err)
		return
	}
	ac.state.Reset()
	ac.cache.Clear()
	ac.logger.Infof(providers.TypePost, "Cleared all stored data")
	w.WriteHeader(http.StatusNoContent)
}
