package handler

import "pwpolicy/internal/policy/models"

// ValidateResponse is the HTTP response for POST /password-policy/validate.
type ValidateResponse struct {
	Accepted   bool                `json:"accepted"`
	Message    string              `json:"message,omitempty"`
	Locale     string              `json:"locale"`
	Violations []ViolationResponse `json:"violations"`
}

type ViolationResponse struct {
	Kind   string `json:"kind"`
	Params []any  `json:"params,omitempty"`
}

// ConfigResponse describes the policy for host configuration screens.
type ConfigResponse struct {
	ID           string `json:"id"`
	DisplayName  string `json:"display_name"`
	ConfigType   string `json:"config_type"`
	DefaultValue string `json:"default_value"`
	MinLength    int    `json:"min_length"`
}

// FromVerdict converts a verdict to an HTTP response.
func FromVerdict(v *models.Verdict) *ValidateResponse {
	resp := &ValidateResponse{
		Accepted:   v.Accepted,
		Message:    v.Message(),
		Locale:     v.Locale,
		Violations: make([]ViolationResponse, 0, len(v.Violations)),
	}
	for _, violation := range v.Violations {
		resp.Violations = append(resp.Violations, ViolationResponse{
			Kind:   string(violation.Kind),
			Params: violation.Params,
		})
	}
	return resp
}
