package domain

// Product as reported by the backend catalog API.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Stock        int     `json:"stock"`
	ImageURL     string  `json:"imageUrl,omitempty"`
	Manufacturer string  `json:"manufacturer,omitempty"`
}

// LineItem converts the product into an add-to-cart candidate.
func (p Product) LineItem(quantity int) CartLineItem {
	return CartLineItem{
		ID:           p.ID,
		Name:         p.Name,
		Price:        p.Price,
		Quantity:     quantity,
		ImageURL:     p.ImageURL,
		Stock:        p.Stock,
		Manufacturer: p.Manufacturer,
	}
}
