package models

// OfferDocument is the root value of a commercial offer.
// A document is never mutated after it has been published by the store;
// every edit produces a new OfferDocument that reuses the untouched sections by pointer.
type OfferDocument struct {
	Logo         string     `json:"logo"`
	OfferNumber  string     `json:"offerNumber"`
	Date         string     `json:"date"`
	ValidUntil   string     `json:"validUntil"`
	From         *Sender    `json:"from"`
	To           *Recipient `json:"to"`
	Introduction string     `json:"introduction"`
	Photos       []string   `json:"photos"`
	Items        []LineItem `json:"items"`
	Discounts    *Discounts `json:"discounts"`
	Notes        string     `json:"notes"`
	Footer       *Footer    `json:"footer"`
}

// Sender is the company issuing the offer.
type Sender struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Email   string `json:"email"`
}

// Recipient is the client the offer is addressed to.
type Recipient struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Address string `json:"address"`
}

type Footer struct {
	Mission  string   `json:"mission"`
	Contact  *Contact `json:"contact"`
	Telegram string   `json:"telegram"`
	WhatsApp string   `json:"whatsapp"`
}

type Contact struct {
	Phone1  string `json:"phone1"`
	Phone2  string `json:"phone2"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Address string `json:"address"`
}

// LineItem is a single billable entry. ID is unique for the lifetime of the session.
type LineItem struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Prices      Prices `json:"prices"`
}

// Prices holds one price per tier.
type Prices struct {
	Standard float64 `json:"standard"`
	Optimal  float64 `json:"optimal"`
	Premium  float64 `json:"premium"`
}

// Get returns the price for tier t, or 0 for an unknown tier.
func (p Prices) Get(t Tier) float64 {
	switch t {
	case TierStandard:
		return p.Standard
	case TierOptimal:
		return p.Optimal
	case TierPremium:
		return p.Premium
	}
	return 0
}

// With returns a copy of p with the tier t price replaced.
func (p Prices) With(t Tier, v float64) Prices {
	switch t {
	case TierStandard:
		p.Standard = v
	case TierOptimal:
		p.Optimal = v
	case TierPremium:
		p.Premium = v
	}
	return p
}

// DiscountValues holds the free-form percentage strings of one discount category.
// "0" or "" means the tier is not set.
type DiscountValues struct {
	Standard string `json:"standard"`
	Optimal  string `json:"optimal"`
	Premium  string `json:"premium"`
}

func (d DiscountValues) Get(t Tier) string {
	switch t {
	case TierStandard:
		return d.Standard
	case TierOptimal:
		return d.Optimal
	case TierPremium:
		return d.Premium
	}
	return ""
}

func (d DiscountValues) With(t Tier, v string) DiscountValues {
	switch t {
	case TierStandard:
		d.Standard = v
	case TierOptimal:
		d.Optimal = v
	case TierPremium:
		d.Premium = v
	}
	return d
}

// Discounts is the fixed set of named discount categories.
// ContractDate only feeds the label of the contract category.
type Discounts struct {
	Cash          DiscountValues `json:"cash"`
	Volume        DiscountValues `json:"volume"`
	Contract      DiscountValues `json:"contract"`
	ContractDate  string         `json:"contractDate"`
	LoyalCustomer DiscountValues `json:"loyalCustomer"`
	Designer      DiscountValues `json:"designer"`
}

// Get returns the values of category c and whether c is a known category.
func (d *Discounts) Get(c Category) (DiscountValues, bool) {
	switch c {
	case CategoryCash:
		return d.Cash, true
	case CategoryVolume:
		return d.Volume, true
	case CategoryContract:
		return d.Contract, true
	case CategoryLoyalCustomer:
		return d.LoyalCustomer, true
	case CategoryDesigner:
		return d.Designer, true
	}
	return DiscountValues{}, false
}

// With returns a new Discounts with category c replaced. The receiver is left untouched.
func (d *Discounts) With(c Category, v DiscountValues) *Discounts {
	next := *d
	switch c {
	case CategoryCash:
		next.Cash = v
	case CategoryVolume:
		next.Volume = v
	case CategoryContract:
		next.Contract = v
	case CategoryLoyalCustomer:
		next.LoyalCustomer = v
	case CategoryDesigner:
		next.Designer = v
	}
	return &next
}

// Totals is the per-tier sum of item prices. It is derived, never stored on the document.
type Totals struct {
	Standard float64 `json:"standard"`
	Optimal  float64 `json:"optimal"`
	Premium  float64 `json:"premium"`
}

func (t Totals) Get(tier Tier) float64 {
	return Prices(t).Get(tier)
}
