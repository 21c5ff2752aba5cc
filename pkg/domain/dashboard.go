package domain

// Dashboard is the role-specific landing data loaded after login.
type Dashboard struct {
	Role      UserType
	Profile   Profile
	Projects  []Project
	Bids      []Bid
	Contracts []Contract
}
