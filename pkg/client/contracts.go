package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// SignatureField is the multipart field carrying the signature image.
const SignatureField = "signature_photo"

// CreateContractRequest creates a contract signed by the client. body must
// carry project_id, bid_id, terms_and_conditions and the signature file.
func CreateContractRequest(body *Multipart) Request {
	return Request{Method: http.MethodPost, Path: "/client/contracts/", Multipart: body, Auth: true}
}

// SignContractRequest adds the provider signature to a contract.
func SignContractRequest(contractID int64, body *Multipart) Request {
	return Request{
		Method:    http.MethodPost,
		Path:      "/client/contracts/" + strconv.FormatInt(contractID, 10) + "/sign/service-provider",
		Multipart: body,
		Auth:      true,
	}
}

// ContractsRequest lists contracts visible to the given role.
func ContractsRequest(role domain.UserType) Request {
	path := "/client/contracts/"
	if role == domain.UserTypeServiceProvider {
		path = "/client/contracts/service-provider"
	}
	return Request{Method: http.MethodGet, Path: path, Auth: true}
}

// CreateContract creates a contract from a multipart body.
func (c *Client) CreateContract(ctx context.Context, body *Multipart) (*domain.Contract, error) {
	var ct domain.Contract
	if err := c.Dispatch(ctx, CreateContractRequest(body)).Decode(&ct); err != nil {
		return nil, fmt.Errorf("client.CreateContract: %w", err)
	}
	return &ct, nil
}

// SignContract signs a contract as the provider.
func (c *Client) SignContract(ctx context.Context, contractID int64, body *Multipart) (*domain.Contract, error) {
	var ct domain.Contract
	if err := c.Dispatch(ctx, SignContractRequest(contractID, body)).Decode(&ct); err != nil {
		return nil, fmt.Errorf("client.SignContract: %w", err)
	}
	return &ct, nil
}

// ListContracts returns contracts for the given role.
func (c *Client) ListContracts(ctx context.Context, role domain.UserType) ([]domain.Contract, error) {
	var contracts []domain.Contract
	if err := c.Dispatch(ctx, ContractsRequest(role)).Decode(&contracts); err != nil {
		return nil, fmt.Errorf("client.ListContracts: %w", err)
	}
	return contracts, nil
}
