package pricing

// Default pass factors: the sold drink gets pricier, every other drink drifts down.
const (
	DefaultSoldFactor   = 1.04
	DefaultOthersFactor = 0.98
)

// Price pairs a drink with its live price for one pricing pass.
type Price struct {
	DrinkID int64
	Value   float64
}

// Adjust computes one full pricing pass over the catalog: the sold drink is
// scaled by soldFactor, every other drink by othersFactor. Prices are not
// clamped. The input slice is not mutated.
func Adjust(prices []Price, soldID int64, soldFactor, othersFactor float64) []Price {
	if soldFactor <= 0 {
		soldFactor = DefaultSoldFactor
	}
	if othersFactor <= 0 {
		othersFactor = DefaultOthersFactor
	}
	out := make([]Price, 0, len(prices))
	for _, p := range prices {
		factor := othersFactor
		if p.DrinkID == soldID {
			factor = soldFactor
		}
		out = append(out, Price{DrinkID: p.DrinkID, Value: p.Value * factor})
	}
	return out
}
