package settings

import (
	"io"

	"github.com/shopspring/decimal"
)

// SettingsResponse mirrors the stored values; unset strings come back null.
type SettingsResponse struct {
	BusinessName        *string `json:"businessName"`
	LogoURL             *string `json:"logoUrl"`
	BonusThresholdHours float64 `json:"bonusThresholdHours"`
	BonusAmount         string  `json:"bonusAmount"`
}

// UpdateSettingsRequest carries partial updates; at least one field must be
// present. Numeric fields arrive as JSON numbers or numeric strings and are
// validated before any write.
type UpdateSettingsRequest struct {
	BusinessName        *string `json:"businessName"`
	LogoURL             *string `json:"logoUrl"`
	BonusThresholdHours *string `json:"bonusThresholdHours"`
	BonusAmount         *string `json:"bonusAmount"`
}

// LogoUpload is a pending branding-image upload.
type LogoUpload struct {
	File        io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// LogoResponse reports the stored logo path after upload or removal.
type LogoResponse struct {
	LogoURL *string `json:"logoUrl"`
}

func NewSettingsResponse(s Settings) SettingsResponse {
	return SettingsResponse{
		BusinessName:        s.BusinessName,
		LogoURL:             s.LogoURL,
		BonusThresholdHours: s.BonusThresholdHours,
		BonusAmount:         s.BonusAmount.String(),
	}
}

// ParseAmount parses a bonus amount string into a non-negative decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidBonusAmount
	}
	return d, nil
}
