package auth

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/dhakamart/commerce/internal"
)

type Service struct {
	repository RepositoryAPI
	tokens     TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repository RepositoryAPI, tokens TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repository: repository,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate verifies staff credentials and issues an access/refresh pair.
// Lookup failures and bad passwords are indistinguishable to the caller.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	storedHash, userID, err := s.repository.GetPasswordForEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email)
		return AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	if err := VerifyPassword(storedHash, dto.Password); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", userID)
		return AuthTokens{}, apperrors.ErrInvalidCredentials
	}

	return s.issueTokens(userID, dto.Email)
}

func (s *Service) RefreshTokens(refreshToken string) (AuthTokens, error) {
	claims, err := s.tokens.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	// The account may have been deactivated since the refresh token was issued.
	user, err := s.repository.GetUserWithPermissions(claims.UserID)
	if err != nil {
		return AuthTokens{}, apperrors.ErrUserInactive
	}

	return s.issueTokens(user.ID, user.Email)
}

func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokens.ValidateAccessToken(tokenString)
}

func (s *Service) GetUserWithPermissions(userID int64) (*User, error) {
	return s.repository.GetUserWithPermissions(userID)
}

func (s *Service) HashPassword(password string) (string, error) {
	return HashPassword(password, s.bcryptCost)
}

func (s *Service) issueTokens(userID int64, email string) (AuthTokens, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID, email)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to generate access token", err)
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(userID, email)
	if err != nil {
		return AuthTokens{}, apperrors.NewInternalError("failed to generate refresh token", err)
	}

	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
