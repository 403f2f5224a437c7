package domain

// Tier is a loyalty-program rank derived from accumulated mileage.
type Tier string

const (
	TierStandard Tier = "standard"
	TierSilver   Tier = "silver"
	TierGold     Tier = "gold"
	TierDiamond  Tier = "diamond"
)

// Mileage thresholds, inclusive at the lower bound.
const (
	SilverThreshold  = 25000
	GoldThreshold    = 50000
	DiamondThreshold = 100000
)

// TierForMiles maps an accumulated mileage total to its tier. Evaluated
// top-down from the highest tier so the result is monotone in totalMiles.
func TierForMiles(totalMiles int) Tier {
	switch {
	case totalMiles >= DiamondThreshold:
		return TierDiamond
	case totalMiles >= GoldThreshold:
		return TierGold
	case totalMiles >= SilverThreshold:
		return TierSilver
	default:
		return TierStandard
	}
}

// TierFromLegacyLevel converts the numeric 1-4 membership levels found in
// older account records onto the canonical tier enum. Unknown values fall
// back to the lowest tier.
func TierFromLegacyLevel(level int) Tier {
	switch level {
	case 2:
		return TierSilver
	case 3:
		return TierGold
	case 4:
		return TierDiamond
	default:
		return TierStandard
	}
}

// DisplayName returns the tier's card name. Unknown tiers fall back to the
// standard tier's name.
func DisplayName(t Tier) string {
	switch t {
	case TierSilver:
		return "Silver Card Member"
	case TierGold:
		return "Gold Card Member"
	case TierDiamond:
		return "Diamond Card Member"
	default:
		return "Standard Member"
	}
}

// MarketingName returns the cosmetic alias used on marketing surfaces.
// Same boundaries, different labels.
func MarketingName(t Tier) string {
	switch t {
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierDiamond:
		return "Platinum"
	default:
		return "Blue"
	}
}

// Benefits returns the ordered benefit list for a tier. Unknown tiers fall
// back to the standard tier's benefits.
func Benefits(t Tier) []string {
	switch t {
	case TierSilver:
		return []string{
			"Free checked baggage 30kg",
			"Priority boarding",
			"Airport lounge access (2 visits per year)",
		}
	case TierGold:
		return []string{
			"Free checked baggage 40kg",
			"Priority boarding",
			"Unlimited airport lounge access",
			"Free seat selection",
		}
	case TierDiamond:
		return []string{
			"Free checked baggage 50kg",
			"Priority boarding",
			"Unlimited airport lounge access",
			"Free seat selection",
			"Free cabin upgrade (2 per year)",
		}
	default:
		return []string{
			"Free checked baggage 20kg",
			"Online priority check-in",
		}
	}
}
