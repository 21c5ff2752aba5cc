package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// ProfileSection is a PUT/POST target that updates part of a role profile.
type ProfileSection struct {
	Role   domain.UserType
	Name   string
	Method string
	Path   string
}

// Client profile sections.
var (
	SectionPersonalDetails    = ProfileSection{domain.UserTypeClient, "personal details", http.MethodPut, "/client/personal-details"}
	SectionCompanyInfo        = ProfileSection{domain.UserTypeClient, "company info", http.MethodPut, "/client/company-info"}
	SectionContactPreferences = ProfileSection{domain.UserTypeClient, "contact preferences", http.MethodPut, "/client/contact-preferences"}
	SectionBillingInfo        = ProfileSection{domain.UserTypeClient, "billing info", http.MethodPut, "/client/billing-info"}
)

// Service provider profile sections.
var (
	SectionProfessionalInfo = ProfileSection{domain.UserTypeServiceProvider, "professional info", http.MethodPut, "/service-provider/professional-info"}
	SectionPortfolio        = ProfileSection{domain.UserTypeServiceProvider, "portfolio project", http.MethodPost, "/service-provider/portfolio"}
	SectionExperience       = ProfileSection{domain.UserTypeServiceProvider, "work experience", http.MethodPost, "/service-provider/experience"}
	SectionEducation        = ProfileSection{domain.UserTypeServiceProvider, "education", http.MethodPost, "/service-provider/education"}
	SectionCertification    = ProfileSection{domain.UserTypeServiceProvider, "certification", http.MethodPost, "/service-provider/certification"}
	SectionKYC              = ProfileSection{domain.UserTypeServiceProvider, "KYC document", http.MethodPost, "/service-provider/kyc"}
)

// profilePath maps a role to its profile root.
func profilePath(role domain.UserType) string {
	if role == domain.UserTypeServiceProvider {
		return "/service-provider/profile"
	}
	return "/client/profile"
}

// ProfileRequest reads the caller's profile.
func ProfileRequest(role domain.UserType) Request {
	return Request{Method: http.MethodGet, Path: profilePath(role), Auth: true}
}

// SectionRequest submits one profile section.
func SectionRequest(s ProfileSection, fields map[string]string) Request {
	return Request{Method: s.Method, Path: s.Path, Body: fields, Auth: true}
}

// GetProfile returns the caller's profile for the given role.
func (c *Client) GetProfile(ctx context.Context, role domain.UserType) (domain.Profile, error) {
	var p domain.Profile
	if err := c.Dispatch(ctx, ProfileRequest(role)).Decode(&p); err != nil {
		return nil, fmt.Errorf("client.GetProfile: %w", err)
	}
	return p, nil
}

// UpdateSection submits a profile section and returns the backend's echo.
func (c *Client) UpdateSection(ctx context.Context, s ProfileSection, fields map[string]string) (domain.Profile, error) {
	var p domain.Profile
	if err := c.Dispatch(ctx, SectionRequest(s, fields)).Decode(&p); err != nil {
		return nil, fmt.Errorf("client.UpdateSection(%s): %w", s.Name, err)
	}
	return p, nil
}
