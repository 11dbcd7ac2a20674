package catalog

// Item is one catalog entry returned from a similarity search.
// Reconstructed fresh per query, never cached or mutated.
type Item struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       string  `json:"price"` // display string
	Currency    string  `json:"currency"`
	ImageURL    string  `json:"image_url"`
	ProductURL  string  `json:"product_url"`
	Score       float64 `json:"score"` // similarity score, backend ordering
	Brand       string  `json:"brand"`

	// Extended attributes; absent on most catalog entries.
	Category        *string        `json:"category,omitempty"`
	Tags            []string       `json:"tags,omitempty"`
	Ingredients     []string       `json:"ingredients,omitempty"`
	NutritionalInfo map[string]any `json:"nutritional_info,omitempty"`
	Allergens       []string       `json:"allergens,omitempty"`
	DietaryInfo     []string       `json:"dietary_info,omitempty"`
	Rating          *float64       `json:"rating,omitempty"`
	ReviewCount     *int           `json:"review_count,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}
