package auth

import (
	"github.com/dhakamart/commerce/internal/core/common/validation"
)

type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d *LoginDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("email", d.Email).Required()
	validator.Field("password", d.Password).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token"`
}

func (d *RefreshTokenDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("refresh_token", d.RefreshToken).Required()

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
