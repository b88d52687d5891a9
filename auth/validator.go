package auth

import (
	"fmt"
	"meeting-lab/errors"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type LoginRequest struct {
	Login    string `json:"login" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=128"`
}

type RedeemRequest struct {
	Code string `json:"code" validate:"required,len=26,alphanum"`
}

type PostRequest struct {
	Room string `json:"room" validate:"required,max=64"`
	Body string `json:"body" validate:"max=4000"`
}

type ProxyRequest struct {
	Members []string `json:"members" validate:"required,min=1,max=100,dive,required,max=64"`
}

type InviteRequest struct {
	Name string `json:"name" validate:"required,max=64"`
}

// HashRequest is the input of the password hashing tool used to fill the meeting file.
type HashRequest struct {
	Password string `validate:"required,min=12,max=72"`
}

// Validate checks the struct tags of a request and wraps failures as validation errors.
func Validate(request any) error {
	if err := validate.Struct(request); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrValidation, err)
	}
	return nil
}

// ValidateHashRequest adds the complexity rule on top of the tags.
func ValidateHashRequest(req HashRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if !isPasswordComplex(req.Password) {
		return fmt.Errorf("%w: password needs upper, lower, digit and symbol", errors.ErrValidation)
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
