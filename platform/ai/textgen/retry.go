package textgen

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
	"time"

	"tradequote_backend/platform/logger"

	"github.com/sethvargo/go-retry"
)

// Policy bounds the retry behavior for one completer.
type Policy struct {
	// MaxAttempts is the total number of calls per completer, including the
	// first one. Must be at least 1.
	MaxAttempts int
	// InitialBackoff seeds the exponential backoff between attempts.
	InitialBackoff time.Duration
}

// DefaultPolicy matches the observed production settings: three attempts with
// backoff starting at half a second.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, InitialBackoff: 500 * time.Millisecond}
}

type retrying struct {
	primary  Completer
	fallback Completer // may be nil
	policy   Policy
	log      *logger.Logger
}

// WithRetry decorates a completer with bounded exponential-backoff retries for
// transient failures, switching to the fallback completer (usually the same
// client on an alternate model) once the primary's attempts are exhausted.
// The retry policy lives here, isolated from prompt construction.
func WithRetry(primary, fallback Completer, policy Policy, log *logger.Logger) Completer {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	if policy.InitialBackoff <= 0 {
		policy.InitialBackoff = 500 * time.Millisecond
	}
	return &retrying{primary: primary, fallback: fallback, policy: policy, log: log}
}

func (r *retrying) ModelName() string { return r.primary.ModelName() }

func (r *retrying) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := r.attempt(ctx, r.primary, prompt)
	if err == nil {
		return out, nil
	}
	if r.fallback == nil || !isTransient(err) {
		return "", err
	}
	if r.log != nil {
		r.log.Warn("text generation falling back to alternate model",
			"primary", r.primary.ModelName(),
			"fallback", r.fallback.ModelName(),
			"error", err.Error(),
		)
	}
	return r.attempt(ctx, r.fallback, prompt)
}

func (r *retrying) attempt(ctx context.Context, c Completer, prompt string) (string, error) {
	var out string
	backoff := retry.WithMaxRetries(uint64(r.policy.MaxAttempts-1), retry.NewExponential(r.policy.InitialBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		text, err := c.Complete(ctx, prompt)
		if err != nil {
			if isTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

var transientStatusRe = regexp.MustCompile(`\b(429|500|502|503|529)\b`)

// isTransient classifies an error as worth retrying: network timeouts,
// overload/rate-limit signals, and 5xx-ish status codes surfaced in the
// message. Anything else (auth failures, bad requests) fails immediately.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "overloaded") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "unavailable") ||
		strings.Contains(msg, "try again") {
		return true
	}
	return transientStatusRe.MatchString(msg)
}
