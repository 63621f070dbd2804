package domain

// Type classifies beers by colour.
type Type string

const (
	TypeDark  Type = "dark"
	TypeBrown Type = "brown"
	TypeLight Type = "light"
)

// Valid reports whether t is one of the known beer types.
func (t Type) Valid() bool {
	switch t {
	case TypeDark, TypeBrown, TypeLight:
		return true
	default:
		return false
	}
}

// Beer is a catalog entry. A zero ID means the beer has not been stored yet.
// A nil Price means no price was supplied; zero is a legal price.
type Beer struct {
	ID         int64
	Name       string
	Brand      string
	Percentage float64
	Price      *float64
	Type       Type
}

// NewPrice returns a pointer to v for use as a Beer price.
func NewPrice(v float64) *float64 {
	return &v
}

// Clone returns a copy that does not share the price pointer.
func (b *Beer) Clone() *Beer {
	if b == nil {
		return nil
	}
	clone := *b
	if b.Price != nil {
		clone.Price = NewPrice(*b.Price)
	}
	return &clone
}
