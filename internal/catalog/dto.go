package catalog

import (
	errors "github.com/dhakamart/commerce/internal"
	"github.com/dhakamart/commerce/internal/core/common/validation"
)

type AddReviewDTO struct {
	UserEmail string `json:"user_email"`
	UserName  string `json:"user_name"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

func (d *AddReviewDTO) Validate() error {
	validator := validation.NewValidator()

	validator.Field("user_email", d.UserEmail).Required()
	validator.Field("rating", d.Rating).Required().
		MinInt(1, errors.ErrCodeInvalidRating).
		MaxInt(5, errors.ErrCodeInvalidRating)
	validator.Field("comment", d.Comment).MaxLength(2000, errors.ErrCodeValidationFailed)

	if appErr := validator.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
