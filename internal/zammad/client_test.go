package zammad

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/zammad-reconcile/internal/config"
	"github.com/spec-kit/zammad-reconcile/pkg/util"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.ZammadConfig{
		URL:            srv.URL,
		APIUser:        "api_user",
		APISecret:      "api_secret",
		TimeoutSeconds: 5,
	}, zap.NewNop())
}

func TestDoSendsBasicAuth(t *testing.T) {
	var gotAuth string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := client.Do(context.Background(), http.MethodGet, "tickets/1", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("api_user:api_secret"))
	if gotAuth != want {
		t.Errorf("Authorization = %q, want %q", gotAuth, want)
	}
}

func TestDoPrefersTokenAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.ZammadConfig{
		URL:            srv.URL,
		APIUser:        "api_user",
		APISecret:      "api_secret",
		APIToken:       "sekrit",
		TimeoutSeconds: 5,
	}, zap.NewNop())

	if _, err := client.Do(context.Background(), http.MethodGet, "tickets/1", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Token token=sekrit" {
		t.Errorf("Authorization = %q, want token scheme", gotAuth)
	}
}

func TestDoOmitsBodyWhenNil(t *testing.T) {
	var gotBody []byte
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := client.Do(context.Background(), http.MethodGet, "users", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotBody) != 0 {
		t.Errorf("body = %q, want the body omitted entirely", gotBody)
	}
}

func TestDoTargetsVersionedAPIRoot(t *testing.T) {
	var gotPath string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	})

	if _, err := client.Do(context.Background(), http.MethodGet, "ticket_states", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/api/v1/ticket_states" {
		t.Errorf("path = %q, want /api/v1/ticket_states", gotPath)
	}
}

func TestDoStatusAtLeast400IsAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error":"Group invalid","error_human":"The group is invalid."}`))
	})

	status, err := client.Do(context.Background(), http.MethodPost, "tickets", map[string]any{}, nil)

	var apiErr *util.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if status != http.StatusUnprocessableEntity || apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d/%d, want 422", status, apiErr.StatusCode)
	}
	if apiErr.Message != "The group is invalid." {
		t.Errorf("message = %q, want the remote-supplied human message", apiErr.Message)
	}
}

func TestDoAPIErrorFallsBackToStatusText(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream exploded`))
	})

	_, err := client.Do(context.Background(), http.MethodGet, "tickets/1", nil, nil)

	var apiErr *util.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != http.StatusText(http.StatusBadGateway) {
		t.Errorf("message = %q, want status text fallback", apiErr.Message)
	}
}

func TestDoInvalidJSONIsMalformedResponse(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	var out Ticket
	_, err := client.Do(context.Background(), http.MethodGet, "tickets/1", nil, &out)

	var malformed *util.MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestGetTicketDecodesRecord(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"title":"Internet Outage","group_id":1,"state_id":3,"priority_id":3,"customer_id":1,"owner_id":2}`))
	})

	ticket, status, err := client.GetTicket(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	if ticket.ID != 7 || ticket.Title != "Internet Outage" || ticket.StateID != 3 {
		t.Errorf("ticket = %+v", ticket)
	}
}
