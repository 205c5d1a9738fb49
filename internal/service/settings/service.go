package settings

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/fichajeapp/fichaje-backend-go/internal/domain/settings"
	"github.com/fichajeapp/fichaje-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
)

const maxLogoSize = 5 << 20 // 5 MiB

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/webp":    ".webp",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// LogoStore is the storage surface the settings service needs: uploads plus
// the ability to map a stored public URL back to a deletable path.
type LogoStore interface {
	storage.FileStorage
	PathFromURL(url string) (string, bool)
}

// TxRunner executes fn atomically against the store. Repository calls made
// with the context passed to fn join the same transaction.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type SettingsServiceImpl struct {
	tx     TxRunner
	config settings.ConfigRepository
	store  LogoStore
}

func NewSettingsService(tx TxRunner, config settings.ConfigRepository, store LogoStore) *SettingsServiceImpl {
	return &SettingsServiceImpl{tx: tx, config: config, store: store}
}

// Get implements settings.SettingsService.
func (s *SettingsServiceImpl) Get(ctx context.Context) (settings.Settings, error) {
	values, err := s.config.GetAll(ctx)
	if err != nil {
		return settings.Settings{}, err
	}

	out := settings.Settings{
		BonusThresholdHours: settings.DefaultBonusThresholdHours,
		BonusAmount:         settings.DefaultBonusAmount,
	}

	if v, ok := values[settings.KeyBusinessName]; ok {
		out.BusinessName = &v
	}
	if v, ok := values[settings.KeyLogoURL]; ok {
		out.LogoURL = &v
	}
	// Values were validated on write; a corrupt row falls back to the default.
	if v, ok := values[settings.KeyBonusThresholdHours]; ok {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
			out.BonusThresholdHours = parsed
		}
	}
	if v, ok := values[settings.KeyBonusAmount]; ok {
		if parsed, err := settings.ParseAmount(v); err == nil {
			out.BonusAmount = parsed
		}
	}

	return out, nil
}

// BonusPolicy implements settings.SettingsService.
func (s *SettingsServiceImpl) BonusPolicy(ctx context.Context) (settings.BonusPolicy, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return settings.BonusPolicy{}, err
	}
	return settings.BonusPolicy{
		ThresholdHours: current.BonusThresholdHours,
		Amount:         current.BonusAmount,
	}, nil
}

// Update implements settings.SettingsService. Every field is validated before
// the first write so a bad request leaves the stored record untouched.
func (s *SettingsServiceImpl) Update(ctx context.Context, req settings.UpdateSettingsRequest) (settings.Settings, error) {
	if req.BusinessName == nil && req.LogoURL == nil &&
		req.BonusThresholdHours == nil && req.BonusAmount == nil {
		return settings.Settings{}, settings.ErrNoFieldsToUpdate
	}

	writes := make(map[string]string)

	if req.BusinessName != nil {
		writes[settings.KeyBusinessName] = *req.BusinessName
	}
	if req.LogoURL != nil {
		writes[settings.KeyLogoURL] = *req.LogoURL
	}
	if req.BonusThresholdHours != nil {
		parsed, err := strconv.ParseFloat(*req.BonusThresholdHours, 64)
		if err != nil || parsed < 0 {
			return settings.Settings{}, settings.ErrInvalidThreshold
		}
		writes[settings.KeyBonusThresholdHours] = strconv.FormatFloat(parsed, 'f', -1, 64)
	}
	if req.BonusAmount != nil {
		parsed, err := settings.ParseAmount(*req.BonusAmount)
		if err != nil {
			return settings.Settings{}, err
		}
		writes[settings.KeyBonusAmount] = parsed.String()
	}

	// All keys land in one transaction: a failed write leaves every setting
	// as it was.
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for key, value := range writes {
			if err := s.config.Upsert(ctx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return settings.Settings{}, err
	}

	return s.Get(ctx)
}

// UploadLogo implements settings.SettingsService.
func (s *SettingsServiceImpl) UploadLogo(ctx context.Context, upload settings.LogoUpload) (settings.LogoResponse, error) {
	ext, ok := logoExtensions[upload.ContentType]
	if !ok {
		return settings.LogoResponse{}, settings.ErrUnsupportedFileType
	}
	if upload.Size > maxLogoSize {
		return settings.LogoResponse{}, settings.ErrFileTooLarge
	}

	name := path.Join("branding", fmt.Sprintf("logo-%s%s", uuid.NewString(), ext))
	url, err := s.store.Upload(ctx, upload.File, name)
	if err != nil {
		return settings.LogoResponse{}, err
	}

	// Drop the previous file after the new one is stored and referenced.
	previous, hadPrevious, err := s.config.Get(ctx, settings.KeyLogoURL)
	if err != nil {
		return settings.LogoResponse{}, err
	}

	if err := s.config.Upsert(ctx, settings.KeyLogoURL, url); err != nil {
		return settings.LogoResponse{}, err
	}

	if hadPrevious {
		if oldPath, local := s.store.PathFromURL(previous); local {
			_ = s.store.Delete(ctx, oldPath)
		}
	}

	return settings.LogoResponse{LogoURL: &url}, nil
}

// DeleteLogo implements settings.SettingsService.
func (s *SettingsServiceImpl) DeleteLogo(ctx context.Context) error {
	current, ok, err := s.config.Get(ctx, settings.KeyLogoURL)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	if p, local := s.store.PathFromURL(current); local {
		if err := s.store.Delete(ctx, p); err != nil {
			return err
		}
	}

	return s.config.Delete(ctx, settings.KeyLogoURL)
}
