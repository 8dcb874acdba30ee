package bigquery

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/googleapi"
)

// Client wraps bigquery.Client for dependency injection.
type Client struct {
	*bigquery.Client
}

// NewClient creates a new BigQuery client for the given project.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	c, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	return &Client{Client: c}, nil
}

// Close closes the client.
func (c *Client) Close() error {
	return c.Client.Close()
}

// isNotFoundError checks if error indicates a missing dataset or table.
func isNotFoundError(err error) bool {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusNotFound
	}
	return false
}
