package domain

// CartLine is one product's entry in the basket.
// Quantity is always >= 1; a line whose quantity would drop to 0 is
// removed from the basket instead.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Basket is an ordered sequence of cart lines, unique by product id.
// Insertion order is preserved for display only.
type Basket struct {
	Lines []CartLine `json:"lines"`
}

// Clone returns a deep copy so callers can hand out snapshots without
// exposing the underlying slice.
func (b Basket) Clone() Basket {
	if len(b.Lines) == 0 {
		return Basket{}
	}
	lines := make([]CartLine, len(b.Lines))
	copy(lines, b.Lines)
	for i := range lines {
		if urls := lines[i].Product.ImageURLs; urls != nil {
			lines[i].Product.ImageURLs = append([]string(nil), urls...)
		}
	}
	return Basket{Lines: lines}
}

// Total is the sum over lines of price times quantity. It is derived on
// demand and never stored.
func (b Basket) Total() float64 {
	var total float64
	for _, l := range b.Lines {
		total += l.Product.Price * float64(l.Quantity)
	}
	return total
}

// ItemCount is the sum of quantities across all lines.
func (b Basket) ItemCount() int {
	var count int
	for _, l := range b.Lines {
		count += l.Quantity
	}
	return count
}

func (b Basket) IsEmpty() bool {
	return len(b.Lines) == 0
}
