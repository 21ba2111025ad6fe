package echoapi

import (
	"github.com/go-playground/validator/v10"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(lr)
}

type LoginResponse struct {
	Token string `json:"token"`
}

type CheckInRequest struct {
	Image string `json:"image" validate:"required"`
}

func (cr *CheckInRequest) Validate(validate *validator.Validate) error {
	return validate.Struct(cr)
}

type SuccessResponse struct {
	Success string `json:"success"`
}
