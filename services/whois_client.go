package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/ondieki1237/kenicweb-sub000/shared"
	"github.com/sirupsen/logrus"
)

// DialFunc opens the TCP connection to the WHOIS server. Tests substitute
// in-memory connections here.
type DialFunc func(network, address string, timeout time.Duration) (net.Conn, error)

// WhoisClient retrieves raw WHOIS text from the KeNIC server over TCP port
// 43. The protocol has no framing beyond "newline-terminated query, stream
// until EOF", so the client's job is making a flaky plaintext call reliable
// enough for a request/response cycle: responses are cached per domain for a
// TTL, transport errors are retried on a fixed backoff, and every attempt
// runs under a hard deadline.
type WhoisClient struct {
	addr     string
	timeout  time.Duration
	retries  int
	backoff  time.Duration
	cache    *CacheService
	cacheTTL time.Duration
	limiter  *shared.RequestRateLimiter

	dial  DialFunc
	sleep func(time.Duration)
}

// NewWhoisClient creates a client for the given WHOIS server address.
func NewWhoisClient(addr string, timeout time.Duration, retries int, backoff time.Duration, cache *CacheService, cacheTTL time.Duration) *WhoisClient {
	return &WhoisClient{
		addr:     addr,
		timeout:  timeout,
		retries:  retries,
		backoff:  backoff,
		cache:    cache,
		cacheTTL: cacheTTL,
		limiter:  shared.NewRequestRateLimiter(200 * time.Millisecond),
		dial:     net.DialTimeout,
		sleep:    time.Sleep,
	}
}

// Lookup returns the raw WHOIS response for domain, serving from cache when
// possible. The domain must already be extension-qualified by the caller.
func (c *WhoisClient) Lookup(ctx context.Context, domain string) (string, error) {
	return c.LookupWithRetries(ctx, domain, c.retries)
}

// LookupWithRetries is Lookup with an explicit retry budget. Timeouts are
// surfaced immediately; only transport-level errors consume the budget.
func (c *WhoisClient) LookupWithRetries(ctx context.Context, domain string, retries int) (string, error) {
	cacheKey := "whois:" + domain
	if cached, found := c.cache.Get(cacheKey); found {
		if raw, ok := cached.(string); ok {
			logrus.WithFields(logrus.Fields{
				"component": "WhoisClient",
				"domain":    domain,
			}).Debug("WHOIS cache hit")
			return raw, nil
		}
	}

	raw, err := retryWithBackoff(retries, c.backoff, c.sleep, func() (string, error) {
		return c.query(ctx, domain)
	})
	if err != nil {
		return "", err
	}

	c.cache.SetWithTTL(cacheKey, raw, c.cacheTTL)
	return raw, nil
}

// query performs a single WHOIS round trip: dial, write the query line,
// read until the server closes the connection.
func (c *WhoisClient) query(ctx context.Context, domain string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", shared.WrapError(err, shared.ErrorCategoryNetwork, "WHOIS_CANCELLED", "WhoisClient", "query", false)
	}

	c.limiter.EnforceRateLimit()

	conn, err := c.dial("tcp", c.addr, c.timeout)
	if err != nil {
		return "", c.classifyError(err, "dial")
	}
	defer conn.Close()

	// One deadline covers write and the full read-to-EOF.
	if err := conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", c.classifyError(err, "deadline")
	}

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", c.classifyError(err, "write")
	}

	body, err := io.ReadAll(conn)
	if err != nil {
		return "", c.classifyError(err, "read")
	}

	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return "", shared.NewServiceError(shared.ErrorCategoryNetwork, "WHOIS_EMPTY_RESPONSE",
			fmt.Sprintf("empty WHOIS response for %s", domain), "WhoisClient", "read", true, nil)
	}

	logrus.WithFields(logrus.Fields{
		"component":      "WhoisClient",
		"domain":         domain,
		"response_bytes": len(raw),
	}).Debug("WHOIS query completed")

	return raw, nil
}

func (c *WhoisClient) classifyError(err error, operation string) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return shared.NewServiceError(shared.ErrorCategoryTimeout, "WHOIS_TIMEOUT",
			fmt.Sprintf("whois %s timed out after %s", operation, c.timeout),
			"WhoisClient", operation, false, err)
	}
	return shared.NewServiceError(shared.ErrorCategoryNetwork, "WHOIS_CONNECTION",
		fmt.Sprintf("whois %s failed: %v", operation, err),
		"WhoisClient", operation, true, err)
}

// retryWithBackoff runs op until it succeeds, fails with a non-retryable
// error, or the retry budget is exhausted. op owns all per-attempt state;
// nothing is shared between attempts.
func retryWithBackoff(retries int, backoff time.Duration, sleep func(time.Duration), op func() (string, error)) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			logrus.WithFields(logrus.Fields{
				"component": "WhoisClient",
				"attempt":   attempt + 1,
				"backoff":   backoff,
			}).Debug("Retrying WHOIS query after backoff")
			sleep(backoff)
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !shared.IsRetryableError(err) {
			return "", err
		}
	}
	return "", lastErr
}
