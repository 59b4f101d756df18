package service

import "testing"

func TestExtractJSONObject(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare object", `{"a":1}`, `{"a":1}`, false},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"prose around", `Sure! {"a":{"b":2}} Hope that helps.`, `{"a":{"b":2}}`, false},
		{"no braces", "no json here", "", true},
		{"unbalanced", `{"a":1`, "", true},
		{"invalid inside", `{"a":}`, "", true},
	}
	for _, tc := range cases {
		got, err := extractJSONObject(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%s: expected error, got %q", tc.name, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if got != tc.want {
			t.Fatalf("%s: got %q, expected %q", tc.name, got, tc.want)
		}
	}
}

func TestExtractJSONArray(t *testing.T) {
	got, err := extractJSONArray(`The matches are ["1","2"] as requested.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != `["1","2"]` {
		t.Fatalf("got %q", got)
	}

	if _, err := extractJSONArray("none of them match"); err == nil {
		t.Fatal("expected an error when no array is present")
	}
}
