package client

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/naveenspark/bidboard/pkg/domain"
)

// Dashboard loads the profile and the role's lists concurrently. Any failure
// fails the whole load.
func (c *Client) Dashboard(ctx context.Context, role domain.UserType) (*domain.Dashboard, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("client.Dashboard: unknown role %q", role)
	}
	d := &domain.Dashboard{Role: role}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := c.GetProfile(gctx, role)
		d.Profile = p
		return err
	})
	g.Go(func() error {
		contracts, err := c.ListContracts(gctx, role)
		d.Contracts = contracts
		return err
	})
	switch role {
	case domain.UserTypeClient:
		g.Go(func() error {
			projects, err := c.ListMyProjects(gctx)
			d.Projects = projects
			return err
		})
	case domain.UserTypeServiceProvider:
		g.Go(func() error {
			bids, err := c.ListMyBids(gctx)
			d.Bids = bids
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("client.Dashboard: %w", err)
	}
	return d, nil
}
