package models

// Category is a fixed browsing category a collection is filed under
type Category struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Icon          string   `json:"icon"`
	Subcategories []string `json:"subcategories"`
}

var categories = []Category{
	{ID: "music", Name: "Music", Icon: "music"},
	{ID: "movies", Name: "Movies & Series", Icon: "movie"},
	{ID: "comedy", Name: "Comedy & Fun", Icon: "emoticon-happy",
		Subcategories: []string{"Stand-up", "Sketches", "Funny Moments", "Writing"}},
	{ID: "sports", Name: "Sports", Icon: "basketball",
		Subcategories: []string{"Football", "Basketball", "Fitness", "E-Sports", "Extreme Sports", "Training Tips"}},
	{ID: "education", Name: "Education", Icon: "school",
		Subcategories: []string{"Academic", "Language Learning", "Software", "Mathematics", "Science", "History", "Personal Growth", "Other"}},
	{ID: "gaming", Name: "Gaming", Icon: "gamepad-variant"},
	{ID: "food", Name: "Food", Icon: "food"},
	{ID: "fashion", Name: "Fashion & Beauty", Icon: "hanger",
		Subcategories: []string{"Style Tips", "Makeup", "Hairstyles", "Trends", "Care Tips", "Shopping"}},
	{ID: "technology", Name: "Technology", Icon: "laptop",
		Subcategories: []string{"Software", "Hardware", "Mobile", "AI", "New Products", "Reviews", "Tips"}},
	{ID: "travel", Name: "Travel", Icon: "airplane"},
	{ID: "art", Name: "Art", Icon: "palette",
		Subcategories: []string{"Painting", "Sculpture", "Digital Art", "Photography", "Crafts", "Street Art"}},
	{ID: "animals", Name: "Animals", Icon: "paw"},
	{ID: "celebrity", Name: "Celebrities", Icon: "star"},
}

// AllCategories returns the browsing categories in display order
func AllCategories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// IsValidCategory checks if a category ID is one of the fixed set
func IsValidCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// SubcategoriesOf returns the subcategories for a category ID, nil if the
// category has none or does not exist
func SubcategoriesOf(id string) []string {
	for _, c := range categories {
		if c.ID == id {
			return c.Subcategories
		}
	}
	return nil
}
