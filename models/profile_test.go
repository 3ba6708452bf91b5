package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRawProfileLookup(t *testing.T) {
	var raw RawProfile
	if err := json.Unmarshal([]byte(`{
		"headline": "Engineer",
		"education": [{"timePeriod": {"endDate": {"year": 2012}}}],
		"nested": {"inner": "value"},
		"nothing": null
	}`), &raw); err != nil {
		t.Fatal(err)
	}

	if got := Deref(raw.String("headline")); got != "Engineer" {
		t.Errorf("headline: got %q", got)
	}
	if y := raw.Int("education", "0", "timePeriod", "endDate", "year"); y == nil || *y != 2012 {
		t.Errorf("year: got %v", y)
	}
	if m := raw.Map("nested"); Deref(m.String("inner")) != "value" {
		t.Errorf("nested map lookup failed: %v", m)
	}

	absent := [][]string{
		{"missing"},
		{"nothing"},
		{"headline", "deeper"},
		{"education", "1", "timePeriod"},
		{"education", "-1"},
		{"education", "x"},
	}
	for _, path := range absent {
		if _, ok := raw.Lookup(path...); ok {
			t.Errorf("Lookup(%v) should be absent", path)
		}
	}
	if raw.String("education") != nil {
		t.Error("String on a list should be absent")
	}
	if raw.List("headline") != nil {
		t.Error("List on a string should be nil")
	}
}

func TestRawProfileNilSafe(t *testing.T) {
	var raw RawProfile
	if raw.String("a") != nil || raw.Int("a") != nil || raw.List("a") != nil || raw.Map("a") != nil {
		t.Error("nil RawProfile should yield absent values")
	}
}

func TestCredentialsRedacted(t *testing.T) {
	c := Credentials{Identifier: "alice@example.com", Secret: "hunter2"}
	s := fmt.Sprintf("%v", c)
	if strings.Contains(s, "hunter2") || !strings.Contains(s, "alice@example.com") {
		t.Errorf("unexpected rendering %q", s)
	}
}

func TestErrorsUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	errs := []error{
		&AuthenticationError{Op: "login", Err: cause},
		&SearchError{Op: "search-people", Keywords: "iit", Err: cause},
		&ExportError{Path: "out.csv", Err: cause},
	}
	for _, err := range errs {
		if !errors.Is(err, cause) {
			t.Errorf("%T should unwrap to its cause", err)
		}
		if !strings.Contains(err.Error(), "disk full") {
			t.Errorf("%T message %q lacks cause", err, err.Error())
		}
	}
}
