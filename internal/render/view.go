package render

import (
	"strings"

	"github.com/Lllllllleong/commercialoffer/internal/models"
	"github.com/Lllllllleong/commercialoffer/internal/offer"
)

// FormattedTotals are the tier totals as printed.
type FormattedTotals struct {
	Standard string `json:"standard"`
	Optimal  string `json:"optimal"`
	Premium  string `json:"premium"`
}

// View is everything a renderer needs: the document, its totals and the discount rows to show.
type View struct {
	Document        *models.OfferDocument `json:"document"`
	Totals          models.Totals         `json:"totals"`
	FormattedTotals FormattedTotals       `json:"formattedTotals"`
	DiscountRows    []offer.DiscountRow   `json:"discountRows"`
	ShowDiscounts   bool                  `json:"showDiscounts"`
	RecipientLines  []string              `json:"recipientLines"`
	HeaderTitle     string                `json:"headerTitle,omitempty"`
	PhotoSlots      int                   `json:"photoSlots"`
}

func NewView(doc *models.OfferDocument, totals models.Totals) View {
	v := View{
		Document: doc,
		Totals:   totals,
		FormattedTotals: FormattedTotals{
			Standard: offer.FormatCurrency(totals.Standard),
			Optimal:  offer.FormatCurrency(totals.Optimal),
			Premium:  offer.FormatCurrency(totals.Premium),
		},
		DiscountRows:   offer.VisibleRows(doc.Discounts),
		ShowDiscounts:  offer.AnyVisible(doc.Discounts),
		RecipientLines: addressLines(doc.To.Address),
		PhotoSlots:     offer.MaxPhotos - len(doc.Photos),
	}
	if v.DiscountRows == nil {
		v.DiscountRows = []offer.DiscountRow{}
	}
	// Without a logo the header falls back to the sender name.
	if doc.Logo == "" {
		v.HeaderTitle = doc.From.Name
	}
	return v
}

// addressLines splits a comma separated address into trimmed lines.
func addressLines(address string) []string {
	parts := strings.Split(address, ",")
	lines := make([]string, 0, len(parts))
	for _, p := range parts {
		lines = append(lines, strings.TrimSpace(p))
	}
	return lines
}
