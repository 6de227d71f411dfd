package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/milliihq/access/pkg/permissions"
)

// Fetcher retrieves a user's effective permission set from the permission
// service. Implementations must return an error rather than a partial set.
type Fetcher interface {
	FetchEffective(ctx context.Context, userID string) (permissions.Set, error)
}

// PermissionsResponse is the wire shape of GET /users/{id}/permissions. The
// store only consumes EffectivePermissions; the other fields exist for the
// admin override-editing surface.
type PermissionsResponse struct {
	EffectivePermissions map[permissions.Key]bool `json:"effective_permissions"`
	RolePermissions      map[permissions.Key]bool `json:"role_permissions,omitempty"`
	PermissionOverrides  map[permissions.Key]bool `json:"permission_overrides,omitempty"`
}

// HTTPClient fetches effective permissions over HTTP.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

// NewHTTPClient creates a fetcher against the permission service at baseURL.
// The timeout bounds each fetch so a hung request cannot pin the store in
// its loading state; a zero timeout defaults to 10 seconds.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchEffective retrieves the effective permission set for userID. The
// request carries a cache-busting timestamp parameter to defeat intermediate
// caching of permission payloads.
func (c *HTTPClient) FetchEffective(ctx context.Context, userID string) (permissions.Set, error) {
	endpoint := fmt.Sprintf("%s/users/%s/permissions?_ts=%s",
		c.baseURL,
		url.PathEscape(userID),
		strconv.FormatInt(time.Now().UnixMilli(), 10),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build permissions request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("permissions request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("permissions request returned status %d", resp.StatusCode)
	}

	var body PermissionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode permissions response: %w", err)
	}
	if body.EffectivePermissions == nil {
		return nil, fmt.Errorf("permissions response missing effective_permissions")
	}

	return permissions.Set(body.EffectivePermissions), nil
}
