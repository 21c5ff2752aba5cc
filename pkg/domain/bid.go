package domain

import "time"

// Bid statuses.
const (
	BidPending  = "pending"
	BidAccepted = "accepted"
	BidRejected = "rejected"
)

// Bid is a provider's offer on a project.
type Bid struct {
	ID                int64     `json:"id"`
	ProjectID         int64     `json:"project_id"`
	ServiceProviderID int64     `json:"service_provider_id"`
	BidAmount         int64     `json:"bid_amount"`
	Currency          string    `json:"currency"`
	CoverLetter       string    `json:"cover_letter"`
	Status            string    `json:"status"`
	CreatedAt         time.Time `json:"created_at"`
}
