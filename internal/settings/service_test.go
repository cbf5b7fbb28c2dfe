package settings

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/gorm"

	apperrors "github.com/dhakamart/commerce/internal"
	settingsmodel "github.com/dhakamart/commerce/internal/core/datamodel/settings"
)

func TestSettingsService(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Settings Service Suite")
}

type mockRepository struct {
	rows map[string]*settingsmodel.PaymentSettings
}

func newMockRepository() *mockRepository {
	return &mockRepository{rows: map[string]*settingsmodel.PaymentSettings{}}
}

func (m *mockRepository) GetByGateway(gateway string) (*settingsmodel.PaymentSettings, error) {
	row, ok := m.rows[gateway]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (m *mockRepository) Upsert(s *settingsmodel.PaymentSettings) error {
	m.rows[s.Gateway] = s
	return nil
}

func completeBkashCreds() json.RawMessage {
	creds, _ := json.Marshal(settingsmodel.BkashCredentials{
		AppKey: "k", AppSecret: "s", Username: "u", Password: "p",
	})
	return creds
}

func completeSSLCreds() json.RawMessage {
	creds, _ := json.Marshal(settingsmodel.SSLCommerzCredentials{
		StoreID: "store", StorePassword: "pass",
	})
	return creds
}

var _ = ginkgo.Describe("Settings Service", func() {
	var (
		service    *Service
		repository *mockRepository
	)

	ginkgo.BeforeEach(func() {
		repository = newMockRepository()
		service = NewService(repository, slog.Default())
	})

	ginkgo.Describe("Bkash", func() {
		ginkgo.It("should fail when no settings document exists", func() {
			_, err := service.Bkash()

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayNotConfigured))
		})

		ginkgo.It("should distinguish disabled from unconfigured", func() {
			repository.rows[settingsmodel.GatewayBkash] = &settingsmodel.PaymentSettings{
				Gateway:     settingsmodel.GatewayBkash,
				Credentials: completeBkashCreds(),
				IsEnabled:   false,
			}

			_, err := service.Bkash()

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayDisabled))
		})

		ginkgo.It("should treat incomplete credentials as unconfigured", func() {
			creds, _ := json.Marshal(settingsmodel.BkashCredentials{AppKey: "k"})
			repository.rows[settingsmodel.GatewayBkash] = &settingsmodel.PaymentSettings{
				Gateway:     settingsmodel.GatewayBkash,
				Credentials: creds,
				IsEnabled:   true,
			}

			_, err := service.Bkash()

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayNotConfigured))
		})

		ginkgo.It("should return decoded settings for an enabled gateway", func() {
			repository.rows[settingsmodel.GatewayBkash] = &settingsmodel.PaymentSettings{
				Gateway:     settingsmodel.GatewayBkash,
				Credentials: completeBkashCreds(),
				IsSandbox:   true,
				IsEnabled:   true,
			}

			cfg, err := service.Bkash()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cfg.Credentials.AppKey).To(gomega.Equal("k"))
			gomega.Expect(cfg.IsSandbox).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("SSLCommerz", func() {
		ginkgo.It("should return decoded settings for an enabled gateway", func() {
			repository.rows[settingsmodel.GatewaySSLCommerz] = &settingsmodel.PaymentSettings{
				Gateway:     settingsmodel.GatewaySSLCommerz,
				Credentials: completeSSLCreds(),
				IsEnabled:   true,
			}

			cfg, err := service.SSLCommerz()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cfg.Credentials.StoreID).To(gomega.Equal("store"))
		})

		ginkgo.It("should treat incomplete credentials as unconfigured", func() {
			creds, _ := json.Marshal(settingsmodel.SSLCommerzCredentials{StoreID: "store"})
			repository.rows[settingsmodel.GatewaySSLCommerz] = &settingsmodel.PaymentSettings{
				Gateway:     settingsmodel.GatewaySSLCommerz,
				Credentials: creds,
				IsEnabled:   true,
			}

			_, err := service.SSLCommerz()

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayNotConfigured))
		})
	})

	ginkgo.Describe("Update", func() {
		ginkgo.It("should refuse to enable a gateway with incomplete credentials", func() {
			creds, _ := json.Marshal(settingsmodel.BkashCredentials{AppKey: "k"})

			_, err := service.Update(settingsmodel.GatewayBkash, UpdateSettingsDTO{
				Credentials: creds,
				IsEnabled:   true,
			})

			appErr, ok := apperrors.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
		})

		ginkgo.It("should allow saving incomplete credentials while disabled", func() {
			creds, _ := json.Marshal(settingsmodel.BkashCredentials{AppKey: "k"})

			row, err := service.Update(settingsmodel.GatewayBkash, UpdateSettingsDTO{
				Credentials: creds,
				IsEnabled:   false,
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(row.IsEnabled).To(gomega.BeFalse())
		})

		ginkgo.It("should reject an unknown gateway", func() {
			_, err := service.Update("stripe", UpdateSettingsDTO{Credentials: completeBkashCreds()})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should persist and take effect on the next read", func() {
			_, err := service.Update(settingsmodel.GatewayBkash, UpdateSettingsDTO{
				Credentials: completeBkashCreds(),
				IsSandbox:   false,
				IsEnabled:   true,
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			cfg, err := service.Bkash()

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(cfg.IsSandbox).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("Get", func() {
		ginkgo.It("should reject an unknown gateway", func() {
			_, err := service.Get("stripe")

			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should map a missing row to the unconfigured error", func() {
			_, err := service.Get(settingsmodel.GatewayBkash)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrGatewayNotConfigured))
		})
	})
})
