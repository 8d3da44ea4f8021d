package cart

import "math"

// PricingRules drive the checkout presentation totals. Tax here is a display
// estimate only; the authoritative amount comes from the payment provider.
type PricingRules struct {
	FreeShippingThreshold float64
	FlatShippingRate      float64
	DisplayTaxRate        float64
}

// Totals is the price breakdown shown alongside the cart.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Totals computes the breakdown for a cart under the given rules. Shipping is
// free at or above the threshold and flat below it; an empty cart ships free.
func (r PricingRules) Totals(c *Cart) Totals {
	subtotal := c.TotalPrice()

	shipping := 0.0
	if subtotal > 0 && subtotal < r.FreeShippingThreshold {
		shipping = r.FlatShippingRate
	}

	tax := round2(subtotal * r.DisplayTaxRate)

	return Totals{
		Subtotal: round2(subtotal),
		Shipping: round2(shipping),
		Tax:      tax,
		Total:    round2(subtotal + shipping + tax),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
