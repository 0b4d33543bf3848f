package models

// CreateCollectionRequest is the request body for creating a collection
type CreateCollectionRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Category    string  `json:"category"`
	Subcategory *string `json:"subcategory,omitempty"`
	Visibility  string  `json:"visibility,omitempty"`
}

// UpdateCollectionRequest is the request body for updating a collection
type UpdateCollectionRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Subcategory *string `json:"subcategory,omitempty"`
}

// UpdateVisibilityRequest is the request body for visibility changes
type UpdateVisibilityRequest struct {
	Visibility string `json:"visibility"`
}

// NormalizeRequest asks for a URL to be resolved into a canonical item
type NormalizeRequest struct {
	URL string `json:"url"`
}

// SaveClipRequest is the request body for clipping content into a collection
type SaveClipRequest struct {
	CollectionID string `json:"collectionId"`
	URL          string `json:"url"`
	Note         string `json:"note,omitempty"`

	// Exactly one of the cut variants must be present, matching the kind of
	// the fetched item.
	TimeRange *TimeRange `json:"timeRange,omitempty"`
	CropRect  *CropRect  `json:"cropRect,omitempty"`
	TextSpan  *TextSpan  `json:"textSpan,omitempty"`
}

// Spec returns the single cut variant carried by the request, or nil when
// zero or multiple variants are set
func (r *SaveClipRequest) Spec() CutSpec {
	var specs []CutSpec
	if r.TimeRange != nil {
		specs = append(specs, *r.TimeRange)
	}
	if r.CropRect != nil {
		specs = append(specs, *r.CropRect)
	}
	if r.TextSpan != nil {
		specs = append(specs, *r.TextSpan)
	}
	if len(specs) != 1 {
		return nil
	}
	return specs[0]
}

// CollectionSummary is the compact listing form of a collection
type CollectionSummary struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Category       string               `json:"category"`
	Visibility     CollectionVisibility `json:"visibility"`
	ItemCount      int                  `json:"itemCount"`
	FollowersCount int                  `json:"followersCount"`
	IsOwner        bool                 `json:"isOwner"`
	CreatedAt      string               `json:"createdAt"`
}

// CollectionListResponse groups a user's owned and followed collections
type CollectionListResponse struct {
	Owned    []*CollectionSummary `json:"owned"`
	Followed []*CollectionSummary `json:"followed"`
}

// HealthResponse is the health check payload
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// RegisterRequest is the request body for creating an account
type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

// RegisterResponse returns the new account with its API key. The key is
// shown exactly once; only its hash is stored.
type RegisterResponse struct {
	User   *User  `json:"user"`
	APIKey string `json:"apiKey"`
}

