package auth

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/dhakamart/commerce/internal"
)

func TestAuthService(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Service Suite")
}

type mockRepository struct {
	passwordHash string
	userID       int64
	lookupErr    error
	user         *User
	userErr      error
}

func (m *mockRepository) GetPasswordForEmail(email string) (string, int64, error) {
	if m.lookupErr != nil {
		return "", 0, m.lookupErr
	}
	return m.passwordHash, m.userID, nil
}

func (m *mockRepository) GetUserWithPermissions(userID int64) (*User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.user, nil
}

var _ = ginkgo.Describe("Auth Service", func() {
	var (
		service    *Service
		repository *mockRepository
		tokens     *JWTTokenGenerator
	)

	const password = "correct horse battery staple"

	ginkgo.BeforeEach(func() {
		hash, err := HashPassword(password, bcrypt.MinCost)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repository = &mockRepository{
			passwordHash: hash,
			userID:       42,
			user: &User{
				ID:          42,
				Email:       "ops@dhakamart.com",
				Name:        "Ops",
				Permissions: []string{PermissionManageOrders},
			},
		}
		tokens = NewJWTTokenGenerator("access-secret", "refresh-secret")
		service = NewService(repository, tokens, bcrypt.MinCost, slog.Default())
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("with valid credentials", func() {
			ginkgo.It("should issue an access and refresh token pair", func() {
				// When a staff user logs in
				pair, err := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com", Password: password})

				// Then both tokens verify against their own secrets
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(pair.AccessToken).ToNot(gomega.BeEmpty())
				gomega.Expect(pair.RefreshToken).ToNot(gomega.BeEmpty())

				claims, err := tokens.ValidateAccessToken(pair.AccessToken)
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(claims.UserID).To(gomega.Equal(int64(42)))
				gomega.Expect(claims.Email).To(gomega.Equal("ops@dhakamart.com"))
			})
		})

		ginkgo.Context("with a wrong password", func() {
			ginkgo.It("should fail with the same error as an unknown user", func() {
				_, wrongPassErr := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com", Password: "nope"})

				repository.lookupErr = errors.New("no rows")
				_, unknownUserErr := service.Authenticate(LoginDTO{Email: "ghost@dhakamart.com", Password: password})

				gomega.Expect(wrongPassErr).To(gomega.Equal(apperrors.ErrInvalidCredentials))
				gomega.Expect(unknownUserErr).To(gomega.Equal(apperrors.ErrInvalidCredentials))
			})
		})

		ginkgo.Context("with missing fields", func() {
			ginkgo.It("should fail validation before touching the repository", func() {
				_, err := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com"})

				appErr, ok := apperrors.IsAppError(err)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(apperrors.ErrorTypeValidation))
			})
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("should issue a fresh pair for a valid refresh token", func() {
			pair, err := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com", Password: password})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(pair.RefreshToken)

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(refreshed.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("should reject an access token used as a refresh token", func() {
			pair, err := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com", Password: password})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.RefreshTokens(pair.AccessToken)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidToken))
		})

		ginkgo.It("should reject a refresh for a deactivated account", func() {
			pair, err := service.Authenticate(LoginDTO{Email: "ops@dhakamart.com", Password: password})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			repository.userErr = errors.New("no rows")
			_, err = service.RefreshTokens(pair.RefreshToken)

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrUserInactive))
		})

		ginkgo.It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not.a.jwt")

			gomega.Expect(err).To(gomega.Equal(apperrors.ErrInvalidToken))
		})
	})

	ginkgo.Describe("User permissions", func() {
		ginkgo.It("should grant admins every permission", func() {
			admin := &User{ID: 1, Permissions: []string{PermissionAdmin}}

			gomega.Expect(admin.HasPermission(PermissionManageOrders)).To(gomega.BeTrue())
			gomega.Expect(admin.HasPermission(PermissionManageSettings)).To(gomega.BeTrue())
			gomega.Expect(admin.IsAdmin()).To(gomega.BeTrue())
		})

		ginkgo.It("should scope non-admin users to their granted permissions", func() {
			user := repository.user

			gomega.Expect(user.HasPermission(PermissionManageOrders)).To(gomega.BeTrue())
			gomega.Expect(user.HasPermission(PermissionManageSettings)).To(gomega.BeFalse())
			gomega.Expect(user.IsAdmin()).To(gomega.BeFalse())
		})
	})
})
