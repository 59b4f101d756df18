package textgen

import (
	"context"
	"errors"
	"testing"
	"time"
)

type scriptedCompleter struct {
	name    string
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	i := s.calls
	s.calls++
	if i >= len(s.errs) {
		i = len(s.errs) - 1
	}
	if s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.replies[i], nil
}

func (s *scriptedCompleter) ModelName() string { return s.name }

func fastPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, InitialBackoff: time.Millisecond}
}

func TestWithRetryRecoversFromTransientFailure(t *testing.T) {
	primary := &scriptedCompleter{
		name:    "primary",
		replies: []string{"", "", "hello"},
		errs:    []error{errors.New("503 service unavailable"), errors.New("model overloaded"), nil},
	}

	c := WithRetry(primary, nil, fastPolicy(3), nil)
	out, err := c.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if out != "hello" {
		t.Fatalf("expected %q, got %q", "hello", out)
	}
	if primary.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", primary.calls)
	}
}

func TestWithRetryUsesFallbackModelWhenPrimaryExhausted(t *testing.T) {
	primary := &scriptedCompleter{
		name:    "primary",
		replies: []string{""},
		errs:    []error{errors.New("529 overloaded")},
	}
	fallback := &scriptedCompleter{
		name:    "fallback",
		replies: []string{"from fallback"},
		errs:    []error{nil},
	}

	c := WithRetry(primary, fallback, fastPolicy(2), nil)
	out, err := c.Complete(context.Background(), "hi")
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if out != "from fallback" {
		t.Fatalf("expected fallback reply, got %q", out)
	}
	if primary.calls != 2 {
		t.Fatalf("expected primary to be tried twice, got %d", primary.calls)
	}
	if fallback.calls != 1 {
		t.Fatalf("expected fallback to be tried once, got %d", fallback.calls)
	}
}

func TestWithRetryDoesNotRetryPermanentErrors(t *testing.T) {
	primary := &scriptedCompleter{
		name:    "primary",
		replies: []string{""},
		errs:    []error{errors.New("401 invalid api key")},
	}
	fallback := &scriptedCompleter{
		name:    "fallback",
		replies: []string{"never"},
		errs:    []error{nil},
	}

	c := WithRetry(primary, fallback, fastPolicy(3), nil)
	if _, err := c.Complete(context.Background(), "hi"); err == nil {
		t.Fatal("expected error for permanent failure")
	}
	if primary.calls != 1 {
		t.Fatalf("expected a single attempt, got %d", primary.calls)
	}
	if fallback.calls != 0 {
		t.Fatalf("expected fallback to be skipped, got %d calls", fallback.calls)
	}
}

func TestIsTransientClassification(t *testing.T) {
	cases := []struct {
		err       error
		transient bool
	}{
		{errors.New("503 service unavailable"), true},
		{errors.New("the model is overloaded, try again later"), true},
		{errors.New("rate limit exceeded"), true},
		{errors.New("429 too many requests"), true},
		{errors.New("400 invalid request"), false},
		{errors.New("invalid api key"), false},
		{context.Canceled, false},
		{nil, false},
	}

	for _, tc := range cases {
		if got := isTransient(tc.err); got != tc.transient {
			t.Fatalf("isTransient(%v) = %v, expected %v", tc.err, got, tc.transient)
		}
	}
}
