package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// BidInput is the bid body. BidAmount is numeric on the wire.
type BidInput struct {
	BidAmount   int64  `json:"bid_amount"`
	Currency    string `json:"currency"`
	CoverLetter string `json:"cover_letter"`
}

// BidUpdate carries only the fields being changed.
type BidUpdate struct {
	BidAmount   *int64 `json:"bid_amount,omitempty"`
	Currency    string `json:"currency,omitempty"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// ParseBidInput converts harvested form values into a BidInput. Currency
// defaults to USD.
func ParseBidInput(fields map[string]string) (BidInput, error) {
	amount, err := strconv.ParseInt(fields["bid_amount"], 10, 64)
	if err != nil {
		return BidInput{}, fmt.Errorf("bid amount must be a whole number")
	}
	in := BidInput{
		BidAmount:   amount,
		Currency:    fields["currency"],
		CoverLetter: fields["cover_letter"],
	}
	if in.Currency == "" {
		in.Currency = "USD"
	}
	return in, nil
}

// MyBidsRequest lists the calling provider's bids.
func MyBidsRequest() Request {
	return Request{Method: http.MethodGet, Path: "/service-provider/my-bids", Auth: true}
}

// SubmitBidRequest places a bid on a project.
func SubmitBidRequest(projectID int64, in BidInput) Request {
	return Request{
		Method: http.MethodPost,
		Path:   "/service-provider/projects/" + strconv.FormatInt(projectID, 10) + "/bid",
		Body:   in,
		Auth:   true,
	}
}

// UpdateBidRequest edits one of the caller's bids.
func UpdateBidRequest(bidID int64, u BidUpdate) Request {
	return Request{
		Method: http.MethodPut,
		Path:   "/service-provider/bids/" + strconv.FormatInt(bidID, 10),
		Body:   u,
		Auth:   true,
	}
}

// ListMyBids returns the caller's bids.
func (c *Client) ListMyBids(ctx context.Context) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := c.Dispatch(ctx, MyBidsRequest()).Decode(&bids); err != nil {
		return nil, fmt.Errorf("client.ListMyBids: %w", err)
	}
	return bids, nil
}

// SubmitBid places a bid.
func (c *Client) SubmitBid(ctx context.Context, projectID int64, in BidInput) (*domain.Bid, error) {
	var b domain.Bid
	if err := c.Dispatch(ctx, SubmitBidRequest(projectID, in)).Decode(&b); err != nil {
		return nil, fmt.Errorf("client.SubmitBid: %w", err)
	}
	return &b, nil
}

// UpdateBid edits a bid.
func (c *Client) UpdateBid(ctx context.Context, bidID int64, u BidUpdate) (*domain.Bid, error) {
	var b domain.Bid
	if err := c.Dispatch(ctx, UpdateBidRequest(bidID, u)).Decode(&b); err != nil {
		return nil, fmt.Errorf("client.UpdateBid: %w", err)
	}
	return &b, nil
}
