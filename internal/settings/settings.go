package settings

import (
	"encoding/json"

	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

// RepositoryAPI is the persistence contract for gateway settings rows.
type RepositoryAPI interface {
	GetByGateway(gateway string) (*settingsmodel.PaymentSettings, error)
	Upsert(s *settingsmodel.PaymentSettings) error
}

// ServiceAPI is consumed by the payment orchestrator (read side) and the
// admin settings handler (write side).
type ServiceAPI interface {
	Bkash() (*settingsmodel.BkashSettings, error)
	SSLCommerz() (*settingsmodel.SSLCommerzSettings, error)
	Get(gateway string) (*settingsmodel.PaymentSettings, error)
	Update(gateway string, dto UpdateSettingsDTO) (*settingsmodel.PaymentSettings, error)
}

// UpdateSettingsDTO is the admin payload for a gateway's settings document.
type UpdateSettingsDTO struct {
	Credentials json.RawMessage `json:"credentials"`
	IsSandbox   bool            `json:"is_sandbox"`
	IsEnabled   bool            `json:"is_enabled"`
}

// SettingsView is the admin read shape. Secrets are masked.
type SettingsView struct {
	Gateway    string `json:"gateway"`
	IsSandbox  bool   `json:"is_sandbox"`
	IsEnabled  bool   `json:"is_enabled"`
	Configured bool   `json:"configured"`
}

func ToView(s *settingsmodel.PaymentSettings, configured bool) SettingsView {
	return SettingsView{
		Gateway:    s.Gateway,
		IsSandbox:  s.IsSandbox,
		IsEnabled:  s.IsEnabled,
		Configured: configured,
	}
}
