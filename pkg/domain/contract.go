package domain

import "time"

// Contract statuses.
const (
	ContractClientSigned = "client_signed"
	ContractFullySigned  = "fully_signed"
	ContractActive       = "active"
	ContractCompleted    = "completed"
)

// Contract binds an accepted bid to its project once signed.
type Contract struct {
	ID                           int64      `json:"id"`
	ProjectID                    int64      `json:"project_id"`
	BidID                        int64      `json:"bid_id"`
	ClientID                     int64      `json:"client_id"`
	ServiceProviderID            int64      `json:"service_provider_id"`
	TermsAndConditions           string     `json:"terms_and_conditions"`
	ClientSignaturePath          string     `json:"client_signature_path,omitempty"`
	ServiceProviderSignaturePath string     `json:"service_provider_signature_path,omitempty"`
	Status                       string     `json:"status"`
	CreatedAt                    time.Time  `json:"created_at"`
	UpdatedAt                    *time.Time `json:"updated_at,omitempty"`
}

// AwaitingProvider reports whether the provider still has to sign.
func (c Contract) AwaitingProvider() bool {
	return c.ServiceProviderSignaturePath == "" && c.Status == ContractClientSigned
}
