package postgres

import (
	"errors"

	"github.com/frahmantamala/payment-integration/internal/core/datamodel/gatewayconfig"
	gatewayconfigpkg "github.com/frahmantamala/payment-integration/internal/gatewayconfig"
	"gorm.io/gorm"
)

type GatewayConfigRepository struct {
	db *gorm.DB
}

func NewGatewayConfigRepository(db *gorm.DB) gatewayconfigpkg.RepositoryAPI {
	return &GatewayConfigRepository{
		db: db,
	}
}

// Upsert keys on (provider, gateway_name). Updates replace the stored
// config wholesale, omitted overrides clear back to NULL.
func (r *GatewayConfigRepository) Upsert(cfg *gatewayconfig.GatewayConfig) error {
	var existing gatewayconfig.GatewayConfig
	err := r.db.Where("provider = ? AND gateway_name = ?", cfg.Provider, cfg.GatewayName).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return r.db.Create(cfg).Error
		}
		return err
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt

	updates := map[string]interface{}{
		"publishable_key":       cfg.PublishableKey,
		"secret_key_ref":        cfg.SecretKeyRef,
		"redirect_override_url": cfg.RedirectOverrideURL,
		"supported_currencies":  cfg.SupportedCurrencies,
		"minimum_amounts":       cfg.MinimumAmounts,
		"enabled":               cfg.Enabled,
		"updated_by":            cfg.UpdatedBy,
	}
	return r.db.Model(&gatewayconfig.GatewayConfig{}).Where("id = ?", existing.ID).Updates(updates).Error
}

func (r *GatewayConfigRepository) GetByName(provider, gatewayName string) (*gatewayconfig.GatewayConfig, error) {
	var cfg gatewayconfig.GatewayConfig
	err := r.db.Where("provider = ? AND gateway_name = ?", provider, gatewayName).First(&cfg).Error
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *GatewayConfigRepository) List() ([]*gatewayconfig.GatewayConfig, error) {
	var configs []*gatewayconfig.GatewayConfig
	err := r.db.Order("provider, gateway_name").Find(&configs).Error
	return configs, err
}

func (r *GatewayConfigRepository) ListEnabled() ([]*gatewayconfig.GatewayConfig, error) {
	var configs []*gatewayconfig.GatewayConfig
	err := r.db.Where("enabled = ?", true).Order("provider, gateway_name").Find(&configs).Error
	return configs, err
}
