package zammad

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/zammad-reconcile/internal/config"
	"github.com/spec-kit/zammad-reconcile/internal/observability"
	"github.com/spec-kit/zammad-reconcile/pkg/util"
)

// Client issues authenticated requests against one Zammad instance. It is
// constructed once per invocation and passed down explicitly; it holds no
// state beyond the connection details it was built with.
type Client struct {
	baseURL    string
	apiUser    string
	apiSecret  string
	apiToken   string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// NewClient constructs a Client from connection config. The HTTP timeout
// comes from config, never from a hard-coded constant.
func NewClient(cfg config.ZammadConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiUser:    cfg.APIUser,
		apiSecret:  cfg.APISecret,
		apiToken:   cfg.APIToken,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// WithMetrics attaches an outbound-call counter to the client.
func (c *Client) WithMetrics(m *observability.Metrics) *Client {
	c.metrics = m
	return c
}

// Do performs exactly one round trip: method + /api/v1/<path>, with body
// serialized as JSON when non-nil and omitted entirely when nil. The
// response body is decoded into out when out is non-nil. A status >= 400
// yields an APIError carrying the remote message; an undecodable body
// yields a MalformedResponseError. Nothing is retried.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) (int, error) {
	url := fmt.Sprintf("%s/api/v1/%s", c.baseURL, strings.TrimLeft(path, "/"))

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiToken != "" {
		req.Header.Set("Authorization", "Token token="+c.apiToken)
	} else {
		req.SetBasicAuth(c.apiUser, c.apiSecret)
	}

	c.logger.Debug("zammad request", zap.String("method", method), zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", method, url, err)
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(method, path, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return resp.StatusCode, util.NewAPIError(resp.StatusCode, remoteMessage(raw, resp.StatusCode))
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, util.NewMalformedResponseError(err)
		}
	}

	return resp.StatusCode, nil
}

// remoteMessage extracts the error message Zammad embeds in failure
// bodies, falling back to the standard status text.
func remoteMessage(raw []byte, statusCode int) string {
	var body struct {
		Error      string `json:"error"`
		ErrorHuman string `json:"error_human"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.ErrorHuman != "" {
			return body.ErrorHuman
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return http.StatusText(statusCode)
}

// GetTicket fetches one ticket by id.
func (c *Client) GetTicket(ctx context.Context, ticketID int) (*Ticket, int, error) {
	var ticket Ticket
	status, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("tickets/%d", ticketID), nil, &ticket)
	if err != nil {
		return nil, status, err
	}
	return &ticket, status, nil
}

// CreateTicket posts a new ticket payload and returns the created record.
func (c *Client) CreateTicket(ctx context.Context, payload map[string]any) (*Ticket, int, error) {
	var ticket Ticket
	status, err := c.Do(ctx, http.MethodPost, "tickets", payload, &ticket)
	if err != nil {
		return nil, status, err
	}
	return &ticket, status, nil
}

// UpdateTicket puts a partial payload onto an existing ticket.
func (c *Client) UpdateTicket(ctx context.Context, ticketID int, payload map[string]any) (*Ticket, int, error) {
	var ticket Ticket
	status, err := c.Do(ctx, http.MethodPut, fmt.Sprintf("tickets/%d", ticketID), payload, &ticket)
	if err != nil {
		return nil, status, err
	}
	return &ticket, status, nil
}

// ArticlesByTicket fetches the full article list of a ticket in the order
// the service returns it.
func (c *Client) ArticlesByTicket(ctx context.Context, ticketID int) ([]Article, error) {
	var articles []Article
	if _, err := c.Do(ctx, http.MethodGet, fmt.Sprintf("ticket_articles/by_ticket/%d", ticketID), nil, &articles); err != nil {
		return nil, err
	}
	return articles, nil
}

// Users fetches the full user collection.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var users []User
	if _, err := c.Do(ctx, http.MethodGet, "users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Groups fetches the full group collection.
func (c *Client) Groups(ctx context.Context) ([]Group, error) {
	var groups []Group
	if _, err := c.Do(ctx, http.MethodGet, "groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// States fetches the full ticket state collection.
func (c *Client) States(ctx context.Context) ([]State, error) {
	var states []State
	if _, err := c.Do(ctx, http.MethodGet, "ticket_states", nil, &states); err != nil {
		return nil, err
	}
	return states, nil
}

// Priorities fetches the full ticket priority collection.
func (c *Client) Priorities(ctx context.Context) ([]Priority, error) {
	var priorities []Priority
	if _, err := c.Do(ctx, http.MethodGet, "ticket_priorities", nil, &priorities); err != nil {
		return nil, err
	}
	return priorities, nil
}
