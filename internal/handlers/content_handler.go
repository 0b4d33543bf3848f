package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/digicollect/server/internal/collector"
	"github.com/digicollect/server/internal/cutter"
	"github.com/digicollect/server/internal/middleware"
	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/services"
)

// ContentHandler handles URL normalization and the clip pipeline
type ContentHandler struct {
	contentService *services.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
	}
}

// Normalize resolves a URL into a canonical item preview
func (h *ContentHandler) Normalize(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.NormalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.URL == "" {
		http.Error(w, "URL required", http.StatusBadRequest)
		return
	}

	item, err := h.contentService.Normalize(r.Context(), req.URL)
	if err != nil {
		writeFetchError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(item)
}

// SaveClip fetches a URL, applies the cut and adds the item to a collection
func (h *ContentHandler) SaveClip(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.SaveClipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.CollectionID == "" || req.URL == "" {
		http.Error(w, "Collection ID and URL required", http.StatusBadRequest)
		return
	}

	item, err := h.contentService.SaveClip(r.Context(), user.ID, &req)
	if err != nil {
		var verr cutter.ValidationError
		if errors.As(err, &verr) {
			writeJSONError(w, http.StatusUnprocessableEntity, verr.Code, verr.Message)
			return
		}
		var ferr *collector.FetchError
		if errors.As(err, &ferr) {
			writeFetchError(w, err)
			return
		}
		var rerr *cutter.RenderError
		if errors.As(err, &rerr) {
			writeJSONError(w, http.StatusBadGateway, "render_failed", rerr.Error())
			return
		}
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotOwner {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		if err == models.ErrQuotaExceeded {
			http.Error(w, "Item limit reached for your plan", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to save clip", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(item)
}

func writeFetchError(w http.ResponseWriter, err error) {
	var ferr *collector.FetchError
	if errors.As(err, &ferr) {
		status := http.StatusBadGateway
		code := "fetch_failed"
		if ferr.Timeout {
			status = http.StatusGatewayTimeout
			code = "fetch_timeout"
		}
		writeJSONError(w, status, code, ferr.Error())
		return
	}
	http.Error(w, "Failed to fetch content", http.StatusBadGateway)
}

func writeJSONError(w http.ResponseWriter, status int, code, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": code, "message": msg})
}
