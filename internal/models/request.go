// internal/models/request.go
package models

import (
	"fmt"
	"strings"
)

// GenerationRequest is the business-description form submitted by the user.
// Immutable once submitted; consumed once by the orchestrator.
type GenerationRequest struct {
	Industry    string `json:"industry"`
	CompanyName string `json:"companyName"`
	ServiceArea string `json:"serviceArea"`
	Phone       string `json:"phone"`
	BrandColor  string `json:"brandColor"`
}

// Validate checks that every required field is present.
func (r *GenerationRequest) Validate() error {
	var missing []string

	if strings.TrimSpace(r.Industry) == "" {
		missing = append(missing, "industry")
	}
	if strings.TrimSpace(r.CompanyName) == "" {
		missing = append(missing, "companyName")
	}
	if strings.TrimSpace(r.ServiceArea) == "" {
		missing = append(missing, "serviceArea")
	}
	if strings.TrimSpace(r.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(r.BrandColor) == "" {
		missing = append(missing, "brandColor")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
