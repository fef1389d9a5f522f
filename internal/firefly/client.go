package firefly

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// API is the subset of the FireFly REST surface ffscope reads.
// *Client implements it; tests substitute fakes.
type API interface {
	ListTokenApprovals(ctx context.Context, namespace, rawQuery string) (Page[TokenApproval], error)
	LookupTokenApproval(ctx context.Context, namespace, localID string) ([]TokenApproval, error)
	ListTokenPools(ctx context.Context, namespace, rawQuery string) (Page[TokenPool], error)
	LookupTokenPool(ctx context.Context, namespace, id string) ([]TokenPool, error)
	ListEvents(ctx context.Context, namespace string, afterSequence int64, limit int) ([]Event, error)
	LatestEvent(ctx context.Context, namespace string) (*Event, error)
	GetStatus(ctx context.Context, namespace string) (*Status, error)
	ListNamespaces(ctx context.Context) ([]Namespace, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

// ErrInvalidID is returned for identifiers that are not UUIDs.
var ErrInvalidID = errors.New("invalid id")

// Resource paths below a namespace.
const (
	PathTokenApprovals = "/tokens/approvals"
	PathTokenPools     = "/tokens/pools"
	PathEvents         = "/events"
	PathStatus         = "/status"
)

const (
	defaultAPIURL   = "http://127.0.0.1:5000"
	defaultNSPrefix = "/api/v1/namespaces"
	defaultTimeout  = 10 * time.Second
)

// UserAgent is sent with every request.
var UserAgent = "ffscope/dev"

// Client talks to the FireFly HTTP API.
type Client struct {
	baseURL  *url.URL
	nsPrefix string
	http     *http.Client
	group    singleflight.Group
}

// NewClient builds a Client for apiURL, with namespaced resources below
// nsPrefix. A zero timeout uses the default.
func NewClient(apiURL, nsPrefix string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(apiURL)
	if err != nil {
		return nil, err
	}
	prefix := strings.Trim(strings.TrimSpace(nsPrefix), "/")
	if prefix == "" {
		prefix = strings.Trim(defaultNSPrefix, "/")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:  base,
		nsPrefix: "/" + prefix,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// NamespacePath returns {nsPrefix}/{namespace}{resource}.
func (c *Client) NamespacePath(namespace, resource string) string {
	return c.nsPrefix + "/" + url.PathEscape(namespace) + resource
}

// ListTokenApprovals fetches one page of approvals. rawQuery is appended
// verbatim so pre-composed filter fragments survive untouched.
func (c *Client) ListTokenApprovals(ctx context.Context, namespace, rawQuery string) (Page[TokenApproval], error) {
	var page Page[TokenApproval]
	if err := c.get(ctx, c.NamespacePath(namespace, PathTokenApprovals), rawQuery, &page); err != nil {
		return Page[TokenApproval]{}, err
	}
	return page, nil
}

// LookupTokenApproval fetches approvals matching a local ID. FireFly returns
// a bare array here; callers expect zero or one element.
func (c *Client) LookupTokenApproval(ctx context.Context, namespace, localID string) ([]TokenApproval, error) {
	values := url.Values{}
	values.Set("localid", localID)
	var items []TokenApproval
	if err := c.get(ctx, c.NamespacePath(namespace, PathTokenApprovals), values.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListTokenPools fetches one page of pools.
func (c *Client) ListTokenPools(ctx context.Context, namespace, rawQuery string) (Page[TokenPool], error) {
	var page Page[TokenPool]
	if err := c.get(ctx, c.NamespacePath(namespace, PathTokenPools), rawQuery, &page); err != nil {
		return Page[TokenPool]{}, err
	}
	return page, nil
}

// LookupTokenPool fetches pools matching an ID.
func (c *Client) LookupTokenPool(ctx context.Context, namespace, id string) ([]TokenPool, error) {
	values := url.Values{}
	values.Set("id", id)
	var items []TokenPool
	if err := c.get(ctx, c.NamespacePath(namespace, PathTokenPools), values.Encode(), &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListEvents fetches events with a sequence greater than afterSequence,
// oldest first.
func (c *Client) ListEvents(ctx context.Context, namespace string, afterSequence int64, limit int) ([]Event, error) {
	values := url.Values{}
	if afterSequence > 0 {
		values.Set("sequence", ">"+strconv.FormatInt(afterSequence, 10))
	}
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}
	values.Set("sort", "sequence")
	var events []Event
	if err := c.get(ctx, c.NamespacePath(namespace, PathEvents), values.Encode(), &events); err != nil {
		return nil, err
	}
	return events, nil
}

// LatestEvent returns the newest event in the namespace, or nil when there
// are none.
func (c *Client) LatestEvent(ctx context.Context, namespace string) (*Event, error) {
	values := url.Values{}
	values.Set("limit", "1")
	values.Set("sort", "-sequence")
	var events []Event
	if err := c.get(ctx, c.NamespacePath(namespace, PathEvents), values.Encode(), &events); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}

// GetStatus retrieves node and org identity for a namespace.
func (c *Client) GetStatus(ctx context.Context, namespace string) (*Status, error) {
	var status Status
	if err := c.get(ctx, c.NamespacePath(namespace, PathStatus), "", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListNamespaces lists the namespaces configured on the node. Concurrent
// callers share a single in-flight request.
func (c *Client) ListNamespaces(ctx context.Context) ([]Namespace, error) {
	v, err, _ := c.group.Do("namespaces", func() (any, error) {
		var out []Namespace
		if err := c.get(ctx, c.nsPrefix, "", &out); err != nil {
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	namespaces := v.([]Namespace)
	dup := make([]Namespace, len(namespaces))
	copy(dup, namespaces)
	return dup, nil
}

// ValidateLocalID checks that id is a UUID, the shape FireFly uses for
// record identifiers.
func ValidateLocalID(id string) (string, error) {
	trimmed := strings.TrimSpace(id)
	parsed, err := uuid.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidID, id, err)
	}
	return parsed.String(), nil
}

type apiError struct {
	Error string `json:"error"`
}

func (c *Client) get(ctx context.Context, path, rawQuery string, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	reqURL := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("api %s returned status %d: %s", path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(apiURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(apiURL)
	if trimmed == "" {
		trimmed = defaultAPIURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", apiURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
