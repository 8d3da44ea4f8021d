package catalog

// Product is a storefront catalog entry. The catalog is reference data for the
// session: products are seeded at startup and never mutated by request traffic.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Image       string  `json:"image"`
	Featured    bool    `json:"featured"`
	Rating      float64 `json:"rating"`
}

// Filter narrows a catalog listing. Zero values mean "no constraint".
type Filter struct {
	Category string
	Search   string
	Featured *bool
}
