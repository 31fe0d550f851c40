package domain

// GasType is the canonical cylinder vocabulary. The branch-scoped API of the
// first deployment used product names (elpiji_3kg, bluegas_5kg, elpiji_12kg);
// those are accepted at the boundary and normalized here.
type GasType string

const (
	Gas3kg  GasType = "3kg"
	Gas5kg  GasType = "5kg"
	Gas12kg GasType = "12kg"
)

var legacyGasNames = map[string]GasType{
	"elpiji_3kg":  Gas3kg,
	"bluegas_5kg": Gas5kg,
	"elpiji_12kg": Gas12kg,
}

// ParseGasType accepts both canonical and legacy spellings.
func ParseGasType(s string) (GasType, bool) {
	switch GasType(s) {
	case Gas3kg, Gas5kg, Gas12kg:
		return GasType(s), true
	}
	if g, ok := legacyGasNames[s]; ok {
		return g, true
	}
	return "", false
}

func (g GasType) Valid() bool {
	switch g {
	case Gas3kg, Gas5kg, Gas12kg:
		return true
	}
	return false
}

func (g GasType) String() string { return string(g) }

// GasTypes lists the canonical values, in cylinder-size order.
func GasTypes() []GasType {
	return []GasType{Gas3kg, Gas5kg, Gas12kg}
}
