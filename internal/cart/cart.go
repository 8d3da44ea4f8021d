package cart

// Item is one line in a shopping cart.
type Item struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Image     string  `json:"image"`
}

// Cart is the session's shopping cart. Quantities never drop below 1; removing
// a line is an explicit action, not a quantity-zero side effect.
type Cart struct {
	Items []Item `json:"items"`
}

// AddItem appends a line, or bumps the quantity when the product is already
// in the cart.
func (c *Cart) AddItem(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets a line's quantity, clamped at a minimum of 1.
// Unknown products are ignored.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			return
		}
	}
}

// RemoveItem deletes a line outright.
func (c *Cart) RemoveItem(productID string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// clone returns a deep copy so snapshots handed out by the store cannot race
// with later updates.
func (c *Cart) clone() *Cart {
	out := &Cart{Items: make([]Item, len(c.Items))}
	copy(out.Items, c.Items)
	return out
}

// TotalItems returns the summed quantity across lines.
func (c *Cart) TotalItems() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns Σ price × quantity with no tax or shipping baked in.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
