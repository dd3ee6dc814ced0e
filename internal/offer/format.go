package offer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	isoDate     = "2006-01-02"
	russianDate = "02.01.2006"

	rubleSign = "\u00a0₽"
)

// FormatCurrency renders amount the way the printed offer shows money:
// Russian digit grouping, no fraction digits, ruble sign after the number.
func FormatCurrency(amount float64) string {
	p := message.NewPrinter(language.Russian)
	return p.Sprint(number.Decimal(math.Round(amount), number.MaxFractionDigits(0))) + rubleSign
}

// FormatDate converts an ISO date (yyyy-mm-dd) to dd.mm.yyyy.
// Values that are not ISO dates are returned unchanged.
func FormatDate(iso string) string {
	t, err := time.Parse(isoDate, strings.TrimSpace(iso))
	if err != nil {
		return iso
	}
	return t.Format(russianDate)
}

// ParseAmount coerces raw form input into a price. Anything that is not a finite number becomes 0.
func ParseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
