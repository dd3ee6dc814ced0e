package offer

import (
	"strconv"
	"strings"

	"github.com/Lllllllleong/commercialoffer/internal/models"
)

var discountLabels = map[models.Category]string{
	models.CategoryCash:          "Скидка за наличный расчет",
	models.CategoryVolume:        "Скидка за объем",
	models.CategoryContract:      "Скидка за заключение договора до",
	models.CategoryLoyalCustomer: "Скидка постоянному заказчику",
	models.CategoryDesigner:      "Скидка консультанта-дизайнера",
}

// DiscountRow is one visible line of the discount table.
type DiscountRow struct {
	Number   int             `json:"number"`
	Category models.Category `json:"category"`
	Label    string          `json:"label"`
	Standard string          `json:"standard"`
	Optimal  string          `json:"optimal"`
	Premium  string          `json:"premium"`
}

// IsDiscountSet reports whether a single tier value counts as a discount.
// Empty input and anything numerically equal to zero ("0", "0.0", "00", "0%") is not set.
func IsDiscountSet(value string) bool {
	s := strings.TrimSpace(value)
	if s == "" {
		return false
	}
	n := strings.ReplaceAll(strings.TrimSuffix(s, "%"), ",", ".")
	if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
		return f != 0
	}
	return s != "0"
}

// IsVisible reports whether a discount category contributes a row to the document.
func IsVisible(v models.DiscountValues) bool {
	return IsDiscountSet(v.Standard) || IsDiscountSet(v.Optimal) || IsDiscountSet(v.Premium)
}

// AnyVisible reports whether the discount table is shown at all.
// The contract date never makes a row visible on its own.
func AnyVisible(d *models.Discounts) bool {
	if d == nil {
		return false
	}
	for _, c := range models.Categories {
		if v, _ := d.Get(c); IsVisible(v) {
			return true
		}
	}
	return false
}

// DiscountCell renders a tier value for the discount table.
func DiscountCell(value string) string {
	if !IsDiscountSet(value) {
		return ""
	}
	s := strings.TrimSpace(value)
	if strings.HasSuffix(s, "%") {
		return s
	}
	return s + "%"
}

// DiscountLabel returns the printed label of category c.
func DiscountLabel(c models.Category, contractDate string) string {
	label := discountLabels[c]
	if c != models.CategoryContract {
		return label
	}
	if strings.TrimSpace(contractDate) == "" {
		return label + " ___"
	}
	return label + " " + FormatDate(contractDate)
}

// VisibleRows returns the visible discount rows in category order, numbered from 1.
// Hidden categories take no number.
func VisibleRows(d *models.Discounts) []DiscountRow {
	if d == nil {
		return nil
	}
	var rows []DiscountRow
	for _, c := range models.Categories {
		v, _ := d.Get(c)
		if !IsVisible(v) {
			continue
		}
		rows = append(rows, DiscountRow{
			Number:   len(rows) + 1,
			Category: c,
			Label:    DiscountLabel(c, d.ContractDate),
			Standard: DiscountCell(v.Standard),
			Optimal:  DiscountCell(v.Optimal),
			Premium:  DiscountCell(v.Premium),
		})
	}
	return rows
}
