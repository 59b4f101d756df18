package service

import (
	"encoding/json"
	"errors"
	"strings"
)

// The text-generation service cannot be forced to emit exclusively JSON: it
// wraps payloads in prose, markdown fences and trailing commentary. These
// helpers take the widest brace-delimited substring and insist it parses.
// This is parsing of untrusted external input; there is no repair step, and
// failure is explicit so callers can surface the raw text for diagnosis.

var (
	errNoJSONObject = errors.New("no JSON object found in response")
	errNoJSONArray  = errors.New("no JSON array found in response")
)

// extractJSONObject returns the substring from the first '{' to the last '}'
// if it is valid JSON.
func extractJSONObject(raw string) (string, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONObject
	}
	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errNoJSONObject
	}
	return candidate, nil
}

// extractJSONArray returns the substring from the first '[' to the last ']'
// if it is valid JSON.
func extractJSONArray(raw string) (string, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return "", errNoJSONArray
	}
	candidate := raw[start : end+1]
	if !json.Valid([]byte(candidate)) {
		return "", errNoJSONArray
	}
	return candidate, nil
}
