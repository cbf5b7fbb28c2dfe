package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

type Service struct {
	repository RepositoryAPI
	logger     *slog.Logger
}

func NewService(repository RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// Bkash returns decoded bKash settings, or NotConfigured / GatewayDisabled.
// Called by the orchestrator before every bKash vendor call.
func (s *Service) Bkash() (*settingsmodel.BkashSettings, error) {
	row, err := s.enabled(settingsmodel.GatewayBkash)
	if err != nil {
		return nil, err
	}

	var creds settingsmodel.BkashCredentials
	if err := json.Unmarshal(row.Credentials, &creds); err != nil {
		s.logger.Error("failed to decode bkash credentials", "error", err)
		return nil, apperrors.NewInternalError("failed to decode gateway credentials", err)
	}

	if !creds.Complete() {
		return nil, apperrors.ErrGatewayNotConfigured
	}

	return &settingsmodel.BkashSettings{
		Credentials: creds,
		IsSandbox:   row.IsSandbox,
	}, nil
}

// SSLCommerz returns decoded SSLCommerz settings, or NotConfigured / GatewayDisabled.
func (s *Service) SSLCommerz() (*settingsmodel.SSLCommerzSettings, error) {
	row, err := s.enabled(settingsmodel.GatewaySSLCommerz)
	if err != nil {
		return nil, err
	}

	var creds settingsmodel.SSLCommerzCredentials
	if err := json.Unmarshal(row.Credentials, &creds); err != nil {
		s.logger.Error("failed to decode sslcommerz credentials", "error", err)
		return nil, apperrors.NewInternalError("failed to decode gateway credentials", err)
	}

	if !creds.Complete() {
		return nil, apperrors.ErrGatewayNotConfigured
	}

	return &settingsmodel.SSLCommerzSettings{
		Credentials: creds,
		IsSandbox:   row.IsSandbox,
	}, nil
}

// enabled loads a gateway row and distinguishes "no document" from
// "document exists but disabled", which consumers must treat differently.
func (s *Service) enabled(gateway string) (*settingsmodel.PaymentSettings, error) {
	row, err := s.repository.GetByGateway(gateway)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGatewayNotConfigured
		}
		s.logger.Error("failed to load gateway settings", "gateway", gateway, "error", err)
		return nil, apperrors.NewInternalError("failed to load gateway settings", err)
	}
	if !row.IsEnabled {
		return nil, apperrors.ErrGatewayDisabled
	}
	return row, nil
}

func (s *Service) Get(gateway string) (*settingsmodel.PaymentSettings, error) {
	if gateway != settingsmodel.GatewayBkash && gateway != settingsmodel.GatewaySSLCommerz {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown gateway: %s", gateway), apperrors.ErrCodeValidationFailed)
	}

	row, err := s.repository.GetByGateway(gateway)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGatewayNotConfigured
		}
		return nil, apperrors.NewInternalError("failed to load gateway settings", err)
	}
	return row, nil
}

func (s *Service) Update(gateway string, dto UpdateSettingsDTO) (*settingsmodel.PaymentSettings, error) {
	if err := s.validateUpdate(gateway, dto); err != nil {
		return nil, err
	}

	row := &settingsmodel.PaymentSettings{
		Gateway:     gateway,
		Credentials: dto.Credentials,
		IsSandbox:   dto.IsSandbox,
		IsEnabled:   dto.IsEnabled,
		UpdatedAt:   time.Now().UTC(),
	}

	if err := s.repository.Upsert(row); err != nil {
		s.logger.Error("failed to save gateway settings", "gateway", gateway, "error", err)
		return nil, apperrors.NewInternalError("failed to save gateway settings", err)
	}

	s.logger.Info("gateway settings updated",
		"gateway", gateway,
		"is_sandbox", row.IsSandbox,
		"is_enabled", row.IsEnabled)

	return row, nil
}

// validateUpdate enforces the invariant that an enabled gateway has a
// complete credential set.
func (s *Service) validateUpdate(gateway string, dto UpdateSettingsDTO) error {
	switch gateway {
	case settingsmodel.GatewayBkash:
		var creds settingsmodel.BkashCredentials
		if err := json.Unmarshal(dto.Credentials, &creds); err != nil {
			return apperrors.NewValidationError("invalid bkash credentials payload", apperrors.ErrCodeValidationFailed)
		}
		if dto.IsEnabled && !creds.Complete() {
			return apperrors.NewValidationError("cannot enable bkash without complete credentials", apperrors.ErrCodeValidationFailed)
		}
	case settingsmodel.GatewaySSLCommerz:
		var creds settingsmodel.SSLCommerzCredentials
		if err := json.Unmarshal(dto.Credentials, &creds); err != nil {
			return apperrors.NewValidationError("invalid sslcommerz credentials payload", apperrors.ErrCodeValidationFailed)
		}
		if dto.IsEnabled && !creds.Complete() {
			return apperrors.NewValidationError("cannot enable sslcommerz without complete credentials", apperrors.ErrCodeValidationFailed)
		}
	default:
		return apperrors.NewValidationError(fmt.Sprintf("unknown gateway: %s", gateway), apperrors.ErrCodeValidationFailed)
	}
	return nil
}
