package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// BrowseProjectsPath is the listing providers bid from.
const BrowseProjectsPath = "/projects/"

func projectPath(id int64) string {
	return "/client/projects/" + strconv.FormatInt(id, 10)
}

// CreateProjectRequest posts a new project for the calling client.
func CreateProjectRequest(fields map[string]string) Request {
	return Request{Method: http.MethodPost, Path: "/client/projects/", Body: fields, Auth: true}
}

// MyProjectsRequest lists the calling client's projects.
func MyProjectsRequest() Request {
	return Request{Method: http.MethodGet, Path: "/client/projects/", Auth: true}
}

// BrowseProjectsRequest lists projects open to bidding.
func BrowseProjectsRequest() Request {
	return Request{Method: http.MethodGet, Path: BrowseProjectsPath, Auth: true}
}

// ProjectRequest fetches one of the caller's projects.
func ProjectRequest(id int64) Request {
	return Request{Method: http.MethodGet, Path: projectPath(id), Auth: true}
}

// DeleteProjectRequest removes one of the caller's projects.
func DeleteProjectRequest(id int64) Request {
	return Request{Method: http.MethodDelete, Path: projectPath(id), Auth: true}
}

// ProjectBidsRequest lists bids on one of the caller's projects.
func ProjectBidsRequest(projectID int64) Request {
	return Request{Method: http.MethodGet, Path: projectPath(projectID) + "/bids", Auth: true}
}

// AcceptBidRequest accepts a bid; the backend rejects the others.
func AcceptBidRequest(projectID, bidID int64) Request {
	return Request{
		Method: http.MethodPut,
		Path:   projectPath(projectID) + "/bids/" + strconv.FormatInt(bidID, 10) + "/accept",
		Auth:   true,
	}
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, fields map[string]string) (*domain.Project, error) {
	var p domain.Project
	if err := c.Dispatch(ctx, CreateProjectRequest(fields)).Decode(&p); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &p, nil
}

// ListMyProjects returns the caller's projects.
func (c *Client) ListMyProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.Dispatch(ctx, MyProjectsRequest()).Decode(&projects); err != nil {
		return nil, fmt.Errorf("client.ListMyProjects: %w", err)
	}
	return projects, nil
}

// BrowseProjects returns projects a provider can bid on.
func (c *Client) BrowseProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.Dispatch(ctx, BrowseProjectsRequest()).Decode(&projects); err != nil {
		return nil, fmt.Errorf("client.BrowseProjects: %w", err)
	}
	return projects, nil
}

// GetProject fetches one of the caller's projects.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.Project, error) {
	var p domain.Project
	if err := c.Dispatch(ctx, ProjectRequest(id)).Decode(&p); err != nil {
		return nil, fmt.Errorf("client.GetProject: %w", err)
	}
	return &p, nil
}

// DeleteProject deletes one of the caller's projects.
func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	if err := c.Dispatch(ctx, DeleteProjectRequest(id)).Decode(nil); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// ListProjectBids returns bids on a project.
func (c *Client) ListProjectBids(ctx context.Context, projectID int64) ([]domain.Bid, error) {
	var bids []domain.Bid
	if err := c.Dispatch(ctx, ProjectBidsRequest(projectID)).Decode(&bids); err != nil {
		return nil, fmt.Errorf("client.ListProjectBids: %w", err)
	}
	return bids, nil
}

// AcceptBid accepts a bid on a project.
func (c *Client) AcceptBid(ctx context.Context, projectID, bidID int64) (*domain.Bid, error) {
	var b domain.Bid
	if err := c.Dispatch(ctx, AcceptBidRequest(projectID, bidID)).Decode(&b); err != nil {
		return nil, fmt.Errorf("client.AcceptBid: %w", err)
	}
	return &b, nil
}
