package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/605.1.15 (KHTML, like Gecko) Version/18.2 Safari/605.1.15"

// Tokens holds the three session tokens returned by the sign-in endpoint
type Tokens struct {
	AccessToken string `json:"access_token"`
	Client      string `json:"client"`
	UID         string `json:"uid"`
}

// Client is an authenticated HostNFly API client. It logs in lazily,
// holds the session tokens and re-authenticates once on a 401/403.
type Client struct {
	http          *http.Client
	host          string
	email         string
	password      string
	transfersPath string
	tokens        *Tokens
}

// NewClient creates a new HostNFly client. tokens may be nil, in which
// case the first request triggers a login (password required).
func NewClient(host, email, password, transfersPath string, tokens *Tokens) *Client {
	return &Client{
		http:          &http.Client{Timeout: 30 * time.Second},
		host:          normalizeHost(host),
		email:         email,
		password:      password,
		transfersPath: transfersPath,
		tokens:        tokens,
	}
}

// normalizeHost ensures a scheme and strips trailing slashes
func normalizeHost(host string) string {
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return strings.TrimRight(host, "/")
}

// Host returns the normalized API host
func (c *Client) Host() string {
	return c.host
}

// Tokens returns the currently held session tokens, nil before login
func (c *Client) Tokens() *Tokens {
	return c.tokens
}

func (c *Client) baseHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Referer", "https://www.hostnfly.com/")
	req.Header.Set("Origin", "https://www.hostnfly.com")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", "fr-FR,fr;q=0.9")
	req.Header.Set("Sec-Fetch-Dest", "empty")
	req.Header.Set("Sec-Fetch-Mode", "cors")
	req.Header.Set("Sec-Fetch-Site", "same-site")
}

// Login exchanges the email and password for session tokens. The tokens
// come back as response headers, not in the body.
func (c *Client) Login(ctx context.Context) error {
	if c.password == "" {
		return &AuthError{Message: "missing credentials"}
	}

	payload, err := json.Marshal(map[string]interface{}{
		"email":          c.email,
		"password":       c.password,
		"terms_accepted": false,
		"from":           "",
	})
	if err != nil {
		return fmt.Errorf("failed to encode login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/v1/auth/sign_in", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build login request: %w", err)
	}
	c.baseHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &AuthError{Message: fmt.Sprintf("status %d", resp.StatusCode)}
	}

	accessToken := resp.Header.Get("access-token")
	client := resp.Header.Get("client")
	uid := resp.Header.Get("uid")
	if accessToken == "" || client == "" || uid == "" {
		return &AuthError{Message: "missing auth headers"}
	}

	c.tokens = &Tokens{AccessToken: accessToken, Client: client, UID: uid}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, params url.Values) (*http.Response, error) {
	endpoint := c.host + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	c.baseHeaders(req)
	if c.tokens != nil {
		req.Header.Set("access-token", c.tokens.AccessToken)
		req.Header.Set("client", c.tokens.Client)
		req.Header.Set("uid", c.tokens.UID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

// request performs an authenticated call with exactly one re-login on an
// authorization failure. The two-attempt loop keeps the retry bound
// structurally obvious.
func (c *Client) request(ctx context.Context, method, path string, params url.Values) (map[string]interface{}, error) {
	if c.tokens == nil {
		if c.password == "" {
			return nil, &AuthError{Message: "missing tokens"}
		}
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	for attempt := 0; attempt < 2; attempt++ {
		resp, err := c.do(ctx, method, path, params)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			status := resp.StatusCode
			resp.Body.Close()
			if attempt > 0 || c.password == "" {
				return nil, &AuthError{Message: fmt.Sprintf("status %d", status)}
			}
			if err := c.Login(ctx); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode != http.StatusOK {
			status := resp.StatusCode
			resp.Body.Close()
			return nil, &APIError{StatusCode: status}
		}

		var data map[string]interface{}
		err = json.NewDecoder(resp.Body).Decode(&data)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return data, nil
	}

	return nil, &AuthError{Message: "retry exhausted"}
}

// GetListings fetches all listings
func (c *Client) GetListings(ctx context.Context) ([]map[string]interface{}, error) {
	data, err := c.request(ctx, http.MethodGet, "/api/v1/listings", nil)
	if err != nil {
		return nil, err
	}
	return recordList(data, "listings"), nil
}

// GetReservations fetches reservations overlapping the given date window
func (c *Client) GetReservations(ctx context.Context, minDate, maxDate string) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("min_date", minDate)
	params.Set("max_date", maxDate)
	params.Set("per_page", "-1")

	data, err := c.request(ctx, http.MethodGet, "/api/v2/reservations", params)
	if err != nil {
		return nil, err
	}
	return recordList(data, "reservations"), nil
}

// GetTransfers fetches payment settlement records for the given window
func (c *Client) GetTransfers(ctx context.Context, minDate, maxDate string) ([]map[string]interface{}, error) {
	params := url.Values{}
	params.Set("min_date", minDate)
	params.Set("max_date", maxDate)

	data, err := c.request(ctx, http.MethodGet, c.transfersPath, params)
	if err != nil {
		return nil, err
	}
	return recordList(data, "transfers"), nil
}

// recordList extracts a list of JSON objects from a decoded body,
// tolerating a missing or differently shaped field
func recordList(data map[string]interface{}, key string) []map[string]interface{} {
	items, ok := data[key].([]interface{})
	if !ok {
		return []map[string]interface{}{}
	}
	records := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		if record, ok := item.(map[string]interface{}); ok {
			records = append(records, record)
		}
	}
	return records
}
