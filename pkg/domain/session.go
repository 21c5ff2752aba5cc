package domain

// Session is the client-held pair identifying the logged-in actor.
// UserType is meaningful only when Token is set.
type Session struct {
	Token    string   `json:"token,omitempty"`
	UserType UserType `json:"userType,omitempty"`
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Role returns the user type when authenticated, else "".
func (s Session) Role() UserType {
	if !s.Authenticated() {
		return ""
	}
	return s.UserType
}
