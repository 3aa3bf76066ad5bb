package gatewayconfig

import (
	"encoding/json"
	"time"
)

// GatewayConfig is one configured gateway account. The secret key itself
// never lands in this table, SecretKeyRef points into the secret store.
// SupportedCurrencies and MinimumAmounts override the provider defaults
// when set.
type GatewayConfig struct {
	ID                  int64           `gorm:"primaryKey"`
	Provider            string          `gorm:"column:provider;not null;uniqueIndex:idx_provider_gateway"`
	GatewayName         string          `gorm:"column:gateway_name;not null;uniqueIndex:idx_provider_gateway"`
	PublishableKey      string          `gorm:"column:publishable_key;not null"`
	SecretKeyRef        string          `gorm:"column:secret_key_ref;not null"`
	RedirectOverrideURL string          `gorm:"column:redirect_override_url"`
	SupportedCurrencies json.RawMessage `gorm:"column:supported_currencies;type:jsonb"`
	MinimumAmounts      json.RawMessage `gorm:"column:minimum_amounts;type:jsonb"`
	Enabled             bool            `gorm:"column:enabled;default:false"`
	UpdatedBy           string          `gorm:"column:updated_by"`
	CreatedAt           time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (GatewayConfig) TableName() string {
	return "gateway_configs"
}
