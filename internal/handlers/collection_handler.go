package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/digicollect/server/internal/middleware"
	"github.com/digicollect/server/internal/models"
	"github.com/digicollect/server/internal/services"
	"github.com/go-chi/chi/v5"
)

// CollectionHandler handles collection API endpoints
type CollectionHandler struct {
	collectionService *services.CollectionService
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(collectionService *services.CollectionService) *CollectionHandler {
	return &CollectionHandler{
		collectionService: collectionService,
	}
}

// ListCollections returns collections owned by and followed by the user
func (h *CollectionHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collections, err := h.collectionService.ListCollections(r.Context(), user.ID)
	if err != nil {
		http.Error(w, "Failed to list collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collections)
}

// CreateCollection creates a new collection
func (h *CollectionHandler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req models.CreateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.CreateCollection(r.Context(), user.ID, &req)
	if err != nil {
		if err == models.ErrQuotaExceeded {
			http.Error(w, "Collection limit reached for your plan", http.StatusForbidden)
			return
		}
		if err == models.ErrCollectionNameRequired || err == models.ErrCollectionInvalidCategory || err == models.ErrCollectionInvalidVisibility {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(collection)
}

// GetCollection returns a collection by ID with its items
func (h *CollectionHandler) GetCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.GetCollection(r.Context(), collectionID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get collection", http.StatusInternalServerError)
		return
	}

	items, err := h.collectionService.GetItems(r.Context(), collectionID, user.ID)
	if err != nil {
		http.Error(w, "Failed to get items", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"collection": collection,
		"items":      items,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetSharedCollection resolves an unlisted share token without auth
func (h *CollectionHandler) GetSharedCollection(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		http.Error(w, "Share token required", http.StatusBadRequest)
		return
	}

	collection, items, err := h.collectionService.GetItemsByShareToken(r.Context(), token)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get collection", http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{
		"collection": collection,
		"items":      items,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// UpdateCollection updates a collection's metadata
func (h *CollectionHandler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	var req models.UpdateCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.UpdateCollection(r.Context(), collectionID, user.ID, &req)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotOwner {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		if err == models.ErrCollectionNameRequired || err == models.ErrCollectionInvalidCategory {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update collection", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

// UpdateVisibility changes collection visibility
func (h *CollectionHandler) UpdateVisibility(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	var req models.UpdateVisibilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	collection, err := h.collectionService.UpdateVisibility(r.Context(), collectionID, user.ID, req.Visibility)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotOwner {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		if err == models.ErrCollectionInvalidVisibility {
			http.Error(w, "Invalid visibility", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to update visibility", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(collection)
}

// DeleteCollection deletes a collection
func (h *CollectionHandler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	err := h.collectionService.DeleteCollection(r.Context(), collectionID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotOwner {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to delete collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem removes an item from a collection
func (h *CollectionHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")
	if collectionID == "" || itemID == "" {
		http.Error(w, "Collection ID and item ID required", http.StatusBadRequest)
		return
	}

	err := h.collectionService.RemoveItem(r.Context(), collectionID, itemID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound || err == models.ErrItemNotFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		if err == models.ErrNotOwner {
			http.Error(w, "Access denied", http.StatusForbidden)
			return
		}
		http.Error(w, "Failed to remove item", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Follow subscribes the user to a collection
func (h *CollectionHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	err := h.collectionService.Follow(r.Context(), collectionID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotFollowable {
			http.Error(w, "This collection cannot be followed", http.StatusForbidden)
			return
		}
		if err == models.ErrAlreadyFollowing {
			http.Error(w, "Already following", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to follow collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow removes the user's follow from a collection
func (h *CollectionHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collectionID := chi.URLParam(r, "id")
	if collectionID == "" {
		http.Error(w, "Collection ID required", http.StatusBadRequest)
		return
	}

	err := h.collectionService.Unfollow(r.Context(), collectionID, user.ID)
	if err != nil {
		if err == models.ErrCollectionNotFound {
			http.Error(w, "Collection not found", http.StatusNotFound)
			return
		}
		if err == models.ErrNotFollowing {
			http.Error(w, "Not following", http.StatusConflict)
			return
		}
		http.Error(w, "Failed to unfollow collection", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetTrending returns public collections ranked by follower count
func (h *CollectionHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	collections, err := h.collectionService.GetTrending(r.Context(), limit)
	if err != nil {
		http.Error(w, "Failed to get trending collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"collections": collections})
}

// Search finds public collections by name and optional category
func (h *CollectionHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	collections, err := h.collectionService.Search(r.Context(), query, category, limit)
	if err != nil {
		if err == models.ErrCollectionInvalidCategory {
			http.Error(w, "Invalid category", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to search collections", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"collections": collections})
}

// GetCategories returns the fixed category taxonomy
func (h *CollectionHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"categories": models.AllCategories()})
}
