package settings

import "context"

// SettingsService exposes the typed configuration record. Reads apply
// defaults for keys never written; writes parse and validate first.
type SettingsService interface {
	Get(ctx context.Context) (Settings, error)

	// BonusPolicy returns the threshold/amount pair for the aggregation
	// engine, with defaults when unset.
	BonusPolicy(ctx context.Context) (BonusPolicy, error)

	Update(ctx context.Context, req UpdateSettingsRequest) (Settings, error)

	// UploadLogo stores the image, replaces any previous local logo file and
	// updates the logoUrl key.
	UploadLogo(ctx context.Context, upload LogoUpload) (LogoResponse, error)

	// DeleteLogo removes the stored file (when local) and the logoUrl key.
	DeleteLogo(ctx context.Context) error
}
