// Package resourceapi is an HTTP client for a json-server style document
// store exposing GET/POST/PUT/DELETE per collection, with PUT as a
// full-document replace. It implements the repository interfaces so the
// core can run against a remote store instead of its own database.
package resourceapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/taskboardhq/taskboard-api/internal/repository"
)

// Client talks to the remote document store. All calls go through a
// circuit breaker so a dead store fails fast instead of piling up
// requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	log        *logrus.Logger
}

// NewClient creates a document-store client for baseURL.
func NewClient(baseURL string, log *logrus.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "resource-store",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("circuit breaker %q changed from %s to %s", name, from, to)
		},
	})

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		breaker:    breaker,
		log:        log,
	}
}

// Projects returns the projects collection.
func (c *Client) Projects() repository.ProjectRepository {
	return &projectClient{c}
}

// Notifications returns the notifications collection.
func (c *Client) Notifications() repository.NotificationRepository {
	return &notificationClient{c}
}

// Users returns the users collection.
func (c *Client) Users() repository.UserRepository {
	return &userClient{c}
}

// Store bundles the remote collections as a repository.Store.
func (c *Client) Store() repository.Store {
	return repository.Store{
		Projects:      c.Projects(),
		Notifications: c.Notifications(),
		Users:         c.Users(),
	}
}

// do performs one request through the breaker and decodes the JSON
// response into out when out is non-nil. A 404 maps to
// repository.ErrNotFound.
func (c *Client) do(method, path string, body, out any) error {
	_, err := c.breaker.Execute(func() (any, error) {
		var reader io.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return nil, fmt.Errorf("failed to encode request body: %w", err)
			}
			reader = bytes.NewReader(encoded)
		}

		req, err := http.NewRequest(method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request to resource store failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, repository.ErrNotFound
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			raw, _ := io.ReadAll(resp.Body)
			return nil, fmt.Errorf("resource store error (%d): %s", resp.StatusCode, string(raw))
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return nil, fmt.Errorf("failed to decode resource store response: %w", err)
			}
		}
		return nil, nil
	})
	return err
}

func queryEscape(v string) string {
	return url.QueryEscape(v)
}
