package service

import (
	"context"
	"strings"
	"sync"
)

// scriptedCompleter replays canned replies and errors in order, reusing the
// last entry once the script runs out.
type scriptedCompleter struct {
	replies []string
	errs    []error
	calls   int
}

func (s *scriptedCompleter) Complete(_ context.Context, _ string) (string, error) {
	i := s.calls
	s.calls++
	if len(s.errs) > 0 {
		if i >= len(s.errs) {
			i = len(s.errs) - 1
		}
		if err := s.errs[i]; err != nil {
			return "", err
		}
	}
	if len(s.replies) == 0 {
		return "", nil
	}
	if i >= len(s.replies) {
		i = len(s.replies) - 1
	}
	return s.replies[i], nil
}

func (s *scriptedCompleter) ModelName() string { return "scripted" }

// routingCompleter picks a reply by prompt content, so one fake can serve the
// keyword, classification, plan and disambiguation rounds of a full pipeline
// run. Routes are checked in order; the first substring match wins.
type routingCompleter struct {
	mu     sync.Mutex
	routes []promptRoute
	calls  int
}

type promptRoute struct {
	contains string
	reply    string
	err      error
}

func (r *routingCompleter) Complete(_ context.Context, prompt string) (string, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	for _, route := range r.routes {
		if route.contains != "" && strings.Contains(prompt, route.contains) {
			return route.reply, route.err
		}
	}
	return "", nil
}

func (r *routingCompleter) ModelName() string { return "routing" }
