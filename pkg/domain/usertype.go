package domain

import "fmt"

// UserType tags which role a session belongs to.
type UserType string

const (
	UserTypeClient          UserType = "client"
	UserTypeServiceProvider UserType = "service_provider"
)

// ParseUserType accepts the stored tag plus the short aliases the CLI takes.
func ParseUserType(s string) (UserType, error) {
	switch s {
	case "client":
		return UserTypeClient, nil
	case "service_provider", "service-provider", "provider", "sp":
		return UserTypeServiceProvider, nil
	default:
		return "", fmt.Errorf("unknown user type %q", s)
	}
}

// Valid reports whether t is one of the two known roles.
func (t UserType) Valid() bool {
	return t == UserTypeClient || t == UserTypeServiceProvider
}

// PathSegment is the hyphenated form used by the local signup/login routes.
func (t UserType) PathSegment() string {
	if t == UserTypeServiceProvider {
		return "service-provider"
	}
	return string(t)
}

// Label is the human-facing name.
func (t UserType) Label() string {
	switch t {
	case UserTypeClient:
		return "client"
	case UserTypeServiceProvider:
		return "service provider"
	}
	return ""
}
