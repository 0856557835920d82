// Package registry queries the remote package registry for published
// versions of a tool package.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/winappkit/winapp/internal/messages"
	"github.com/winappkit/winapp/internal/version"
)

// DefaultBaseURL is the registry queried when WINAPP_CLI_REGISTRY is unset.
const DefaultBaseURL = "https://packages.winappkit.dev"

// EnvRegistry overrides the registry base URL.
const EnvRegistry = "WINAPP_CLI_REGISTRY"

var httpClient = &http.Client{Timeout: 10 * time.Second}
var retryDelay = 250 * time.Millisecond

const fetchRetryCount = 1

// RateLimitError indicates the registry's rate limit was hit.
//
// Callers should generally treat this as a best-effort failure and
// suppress/minimize output.
type RateLimitError struct {
	StatusCode int
	Status     string
	Remaining  *int
}

func (e *RateLimitError) Error() string {
	remainingText := "unknown"
	if e.Remaining != nil {
		remainingText = fmt.Sprintf("%d", *e.Remaining)
	}
	return fmt.Sprintf("registry rate limit exceeded (%s, remaining=%s)", e.Status, remainingText)
}

// IsRateLimitError reports whether err represents a registry rate-limit condition.
func IsRateLimitError(err error) bool {
	var rl *RateLimitError
	return errors.As(err, &rl)
}

// ErrUnknownPackage indicates the registry has no index for the package.
var ErrUnknownPackage = errors.New("unknown package")

// Client fetches package indexes from a registry.
type Client struct {
	// BaseURL is the registry root; DefaultBaseURL when empty.
	BaseURL string
}

// BaseOrDefault returns the effective registry base URL.
func (c *Client) BaseOrDefault() string {
	if base := strings.TrimSpace(c.BaseURL); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return DefaultBaseURL
}

type packageIndex struct {
	Versions []string `json:"versions"`
}

// Latest returns the highest published version of the named package.
func (c *Client) Latest(ctx context.Context, name string) (version.Dotted, error) {
	versions, err := c.Versions(ctx, name)
	if err != nil {
		return version.Dotted{}, err
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if best.Less(v) {
			best = v
		}
	}
	return best, nil
}

// Versions returns every published version of the named package, in index
// order. The index must list at least one parseable version.
func (c *Client) Versions(ctx context.Context, name string) ([]version.Dotted, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	index, err := c.fetchIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	parsed := make([]version.Dotted, 0, len(index.Versions))
	for _, raw := range index.Versions {
		v, err := version.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf(messages.RegistryBadVersionFmt, raw, name, err)
		}
		parsed = append(parsed, v)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf(messages.RegistryNoVersionsFmt, name)
	}
	return parsed, nil
}

// fetchIndex retrieves <base>/<name>/index.json with a single retry on
// transient failures.
func (c *Client) fetchIndex(ctx context.Context, name string) (*packageIndex, error) {
	url := fmt.Sprintf("%s/%s/index.json", c.BaseOrDefault(), name)
	for attempt := 0; attempt <= fetchRetryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf(messages.RegistryCreateRequestFmt, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "winapp")

		resp, err := httpClient.Do(req)
		if err != nil {
			if shouldRetryFetch(err, 0, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.RegistryFetchFmt, name, err)
		}

		if resp.StatusCode == http.StatusNotFound {
			_ = resp.Body.Close()
			return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, name)
		}
		if resp.StatusCode != http.StatusOK {
			if rateLimitErr := rateLimitErrorFromResponse(resp); rateLimitErr != nil {
				_ = resp.Body.Close()
				return nil, rateLimitErr
			}
			status := resp.StatusCode
			statusText := resp.Status
			_ = resp.Body.Close()
			if shouldRetryFetch(nil, status, attempt) {
				time.Sleep(retryDelay)
				continue
			}
			return nil, fmt.Errorf(messages.RegistryFetchStatusFmt, name, statusText)
		}

		var index packageIndex
		if err := json.NewDecoder(resp.Body).Decode(&index); err != nil {
			_ = resp.Body.Close()
			return nil, fmt.Errorf(messages.RegistryDecodeFmt, name, err)
		}
		_ = resp.Body.Close()
		return &index, nil
	}
	return nil, fmt.Errorf(messages.RegistryFetchFmt, name, errors.New("retry budget exhausted"))
}

func rateLimitErrorFromResponse(resp *http.Response) *RateLimitError {
	if resp == nil {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	// Some registries return 403 Forbidden for unauthenticated exhaustion;
	// confirm with rate-limit headers.
	if resp.StatusCode == http.StatusForbidden {
		remainingStr := strings.TrimSpace(resp.Header.Get("X-RateLimit-Remaining"))
		if remainingStr == "" {
			return nil
		}
		remaining, err := strconv.Atoi(remainingStr)
		if err != nil {
			return nil
		}
		if remaining == 0 {
			return &RateLimitError{StatusCode: resp.StatusCode, Status: resp.Status, Remaining: &remaining}
		}
	}
	return nil
}

func shouldRetryFetch(err error, statusCode int, attempt int) bool {
	if attempt >= fetchRetryCount {
		return false
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return false
		}
		var netErr net.Error
		return errors.As(err, &netErr)
	}
	return statusCode >= 500 && statusCode <= 599
}
