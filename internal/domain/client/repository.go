package client

import "context"

// Repository defines the persistence contract for clients.
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Client, error)
	// Save inserts a new client and assigns its id.
	Save(ctx context.Context, c *Client) error
	Update(ctx context.Context, c *Client) error
}
