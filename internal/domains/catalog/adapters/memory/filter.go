package memory

import (
	"cmp"
	"math"
	"strconv"
	"strings"

	"github.com/ipcsmmd/webshop/internal/domains/catalog/domain"
)

// matchesSearch reports whether the rendered field value contains text, ignoring case.
func matchesSearch(beer *domain.Beer, field domain.Field, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(fieldText(beer, field)), strings.ToLower(text))
}

func fieldText(beer *domain.Beer, field domain.Field) string {
	switch field {
	case domain.FieldName:
		return beer.Name
	case domain.FieldBrand:
		return beer.Brand
	case domain.FieldType:
		return string(beer.Type)
	case domain.FieldPrice:
		if beer.Price == nil {
			return ""
		}
		return strconv.FormatFloat(*beer.Price, 'f', -1, 64)
	case domain.FieldPercentage:
		return strconv.FormatFloat(beer.Percentage, 'f', -1, 64)
	default:
		return strconv.FormatInt(beer.ID, 10)
	}
}

// compareField orders two beers on field, falling back to the identifier.
func compareField(a, b *domain.Beer, field domain.Field) int {
	var c int
	switch field {
	case domain.FieldName:
		c = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case domain.FieldBrand:
		c = strings.Compare(strings.ToLower(a.Brand), strings.ToLower(b.Brand))
	case domain.FieldType:
		c = strings.Compare(string(a.Type), string(b.Type))
	case domain.FieldPrice:
		c = cmp.Compare(priceOrLowest(a), priceOrLowest(b))
	case domain.FieldPercentage:
		c = cmp.Compare(a.Percentage, b.Percentage)
	}
	if c != 0 {
		return c
	}
	return compareInt(a.ID, b.ID)
}

func priceOrLowest(beer *domain.Beer) float64 {
	if beer.Price == nil {
		return math.Inf(-1)
	}
	return *beer.Price
}

func compareInt(a, b int64) int {
	return cmp.Compare(a, b)
}
