package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"pwpolicy/internal/policy/models"
	dErrors "pwpolicy/pkg/domain-errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest is the HTTP request body for POST /password-policy/validate.
// A missing or null password is a valid request; it is rejected by the policy.
// Username is for hosts that know nothing about the user but the name and is
// ignored when User is set.
type ValidateRequest struct {
	User     *UserRequest `json:"user" validate:"omitempty"`
	Username string       `json:"username" validate:"max=256"`
	Password *string      `json:"password" validate:"omitempty,max=1024"`
}

// UserRequest carries the identity fields of the user changing password.
type UserRequest struct {
	Username    string `json:"username" validate:"max=256"`
	FirstName   string `json:"first_name" validate:"max=256"`
	LastName    string `json:"last_name" validate:"max=256"`
	CN          string `json:"cn" validate:"max=512"`
	DisplayName string `json:"display_name" validate:"max=512"`
	Locale      string `json:"locale" validate:"omitempty,max=35"`
}

// Validate trims identity fields and enforces size limits.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *ValidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Username = strings.TrimSpace(r.Username)
	if r.User != nil {
		r.User.Username = strings.TrimSpace(r.User.Username)
		r.User.Locale = strings.TrimSpace(r.User.Locale)
	}

	if err := validate.Struct(r); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("%s must be at most %s characters", jsonField(fe.Namespace()), fe.Param()))
		}
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request")
	}
	return nil
}

// UsernameOnly reports whether the caller sent a bare username without identity.
func (r *ValidateRequest) UsernameOnly() bool {
	return r.User == nil && r.Username != ""
}

// ToModel builds the domain request.
func (r *ValidateRequest) ToModel(acceptLanguage, clientIP string) models.ValidationRequest {
	req := models.ValidationRequest{
		Password:       r.Password,
		AcceptLanguage: acceptLanguage,
		ClientIP:       clientIP,
	}
	if r.User != nil {
		req.Identity = &models.Identity{
			Username:    r.User.Username,
			FirstName:   r.User.FirstName,
			LastName:    r.User.LastName,
			CN:          r.User.CN,
			DisplayName: r.User.DisplayName,
			Locale:      r.User.Locale,
		}
	}
	return req
}

var fieldNames = map[string]string{
	"Password":    "password",
	"User":        "user",
	"Username":    "username",
	"FirstName":   "first_name",
	"LastName":    "last_name",
	"CN":          "cn",
	"DisplayName": "display_name",
	"Locale":      "locale",
}

// jsonField turns a validator namespace like "ValidateRequest.User.CN" into "user.cn".
func jsonField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if name, ok := fieldNames[p]; ok {
			parts[i] = name
		}
	}
	return strings.Join(parts, ".")
}
