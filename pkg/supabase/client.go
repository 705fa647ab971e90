package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client represents a Supabase client
type Client struct {
	URL        string
	ServiceKey string
	HTTPClient *http.Client
}

// NewClient creates a new Supabase client
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		URL:        strings.TrimRight(baseURL, "/"),
		ServiceKey: serviceKey,
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Error is returned for PostgREST or auth responses with status >= 400
type Error struct {
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("supabase error (status %d): %s", e.StatusCode, e.Body)
}

// Filter is one PostgREST query parameter. Keys may repeat (e.g. two
// conditions on "timestamp"), so filters are an ordered list rather than a map.
type Filter struct {
	Key   string
	Value string
}

// Eq, Gte, Lte and friends build PostgREST filter values.
func Eq(column, value string) Filter  { return Filter{Key: column, Value: "eq." + value} }
func Gte(column, value string) Filter { return Filter{Key: column, Value: "gte." + value} }
func Lte(column, value string) Filter { return Filter{Key: column, Value: "lte." + value} }
func Select(columns string) Filter    { return Filter{Key: "select", Value: columns} }
func Order(expr string) Filter        { return Filter{Key: "order", Value: expr} }

// Query executes a GET on a Supabase table
func (c *Client) Query(ctx context.Context, table string, filters ...Filter) ([]byte, error) {
	q := url.Values{}
	for _, f := range filters {
		q.Add(f.Key, f.Value)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
	if encoded := q.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, "")

	return c.do(req)
}

// Insert inserts a record into a Supabase table and returns the created rows
func (c *Client) Insert(ctx context.Context, table string, data interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.URL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	c.authorize(req, "")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	return c.do(req)
}

// VerifyToken verifies a JWT token with Supabase
func (c *Client) VerifyToken(ctx context.Context, token string) (*User, error) {
	endpoint := fmt.Sprintf("%s/auth/v1/user", c.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req, token)

	body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	return &user, nil
}

// User represents a Supabase user
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// authorize sets the apikey header and a bearer token, falling back to the
// service key when no user token is given.
func (c *Client) authorize(req *http.Request, userToken string) {
	req.Header.Set("apikey", c.ServiceKey)
	if userToken == "" {
		userToken = c.ServiceKey
	}
	req.Header.Set("Authorization", "Bearer "+userToken)
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &Error{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}
