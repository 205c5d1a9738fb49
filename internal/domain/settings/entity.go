package settings

import "github.com/shopspring/decimal"

// Config keys as persisted in the key-value store.
const (
	KeyBusinessName        = "businessName"
	KeyLogoURL             = "logoUrl"
	KeyBonusThresholdHours = "bonusThresholdHours"
	KeyBonusAmount         = "bonusAmount"
)

// Defaults applied when a key has never been written.
const DefaultBonusThresholdHours = 10.0

var DefaultBonusAmount = decimal.NewFromInt(5000)

// Settings is the typed view over the stored key-value pairs. Values are
// parsed and validated on write, never on read.
type Settings struct {
	BusinessName        *string
	LogoURL             *string
	BonusThresholdHours float64
	BonusAmount         decimal.Decimal
}

// BonusPolicy is the subset consumed by the aggregation engine.
type BonusPolicy struct {
	ThresholdHours float64
	Amount         decimal.Decimal
}

// Qualifies applies the flat-bonus rule: weekly total converted to hours
// meets or exceeds the threshold.
func (p BonusPolicy) Qualifies(weeklyTotalMs int64) bool {
	return float64(weeklyTotalMs)/3_600_000.0 >= p.ThresholdHours
}
