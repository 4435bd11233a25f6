package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hutamy/go-invoice-frontend/internal/domain"
)

// ClientPage is one page of the client list.
type ClientPage struct {
	Data       []domain.Client   `json:"data"`
	Pagination domain.Pagination `json:"pagination"`
}

func listQueryString(q domain.ListQuery) string {
	values := url.Values{}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

// ListClients returns one page of clients, optionally filtered by search.
func (c *Client) ListClients(ctx context.Context, q domain.ListQuery) (*ClientPage, error) {
	var page ClientPage
	if err := c.getJSON(ctx, "/clients"+listQueryString(q), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetClient fetches a single client by ID.
func (c *Client) GetClient(ctx context.Context, id string) (*domain.Client, error) {
	var out domain.Client
	if err := c.getJSON(ctx, "/clients/"+url.PathEscape(id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateClient creates a client record.
func (c *Client) CreateClient(ctx context.Context, input domain.ClientInput) (*domain.Client, error) {
	var out domain.Client
	if err := c.sendJSON(ctx, http.MethodPost, "/clients", input, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateClient replaces a client record.
func (c *Client) UpdateClient(ctx context.Context, id string, input domain.ClientInput) error {
	return c.sendJSON(ctx, http.MethodPut, "/clients/"+url.PathEscape(id), input, nil)
}

// DeleteClient removes a client record.
func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/clients/"+url.PathEscape(id), nil, nil)
}
