package tui

import "github.com/naveenspark/bidboard/pkg/domain"

type tab int

const (
	tabAuth tab = iota
	tabClient
	tabProvider
	tabProjects
	tabBids
	tabContracts
	numTabs
)

var tabNames = [numTabs]string{"Auth", "Client", "Provider", "Projects", "Bids", "Contracts"}

func (t tab) String() string {
	if t < 0 || t >= numTabs {
		return ""
	}
	return tabNames[t]
}

// authState is the visibility state derived from the session.
type authState int

const (
	stateUnauthenticated authState = iota
	stateClient
	stateServiceProvider
)

// authStateOf keys the state off (token present?, user type). A token with
// no recognised user type counts as unauthenticated.
func authStateOf(s domain.Session) authState {
	switch s.Role() {
	case domain.UserTypeClient:
		return stateClient
	case domain.UserTypeServiceProvider:
		return stateServiceProvider
	}
	return stateUnauthenticated
}

// visibility is which tabs are shown and which one is auto-selected.
type visibility struct {
	shown    [numTabs]bool
	selected tab
}

// computeVisibility is a pure function of the state, so recomputing is
// idempotent.
func computeVisibility(st authState) visibility {
	v := visibility{}
	for t := tab(0); t < numTabs; t++ {
		v.shown[t] = true
	}
	v.shown[tabClient] = st == stateClient
	v.shown[tabProvider] = st == stateServiceProvider
	switch st {
	case stateClient:
		v.selected = tabClient
	case stateServiceProvider:
		v.selected = tabProvider
	default:
		v.selected = tabAuth
	}
	return v
}
