package domain

// Product is an immutable snapshot of a catalog entry. The basket keeps
// the snapshot taken at add-time; it is not refreshed afterwards.
type Product struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Price             float64  `json:"price"`
	QuantityAvailable int      `json:"quantity_available"`
	ImageURLs         []string `json:"image_urls"`
	Category          string   `json:"category"`
}
