package models

// Tier is one of the three fixed pricing levels.
type Tier string

const (
	TierStandard Tier = "standard"
	TierOptimal  Tier = "optimal"
	TierPremium  Tier = "premium"
)

// Tiers lists the pricing levels in display order.
var Tiers = []Tier{TierStandard, TierOptimal, TierPremium}

// ParseTier reports whether s names a known tier.
func ParseTier(s string) (Tier, bool) {
	for _, t := range Tiers {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Category is one of the five fixed discount categories.
type Category string

const (
	CategoryCash          Category = "cash"
	CategoryVolume        Category = "volume"
	CategoryContract      Category = "contract"
	CategoryLoyalCustomer Category = "loyalCustomer"
	CategoryDesigner      Category = "designer"
)

// Categories lists the discount categories in rendering order.
var Categories = []Category{
	CategoryCash,
	CategoryVolume,
	CategoryContract,
	CategoryLoyalCustomer,
	CategoryDesigner,
}

func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}
