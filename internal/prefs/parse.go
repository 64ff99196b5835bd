package prefs

import (
	"fmt"
	"regexp"
	"strings"
)

// filterPairs matches key="value" pairs; the value may contain a
// comma-separated list.
var filterPairs = regexp.MustCompile(`(\w+)="([^"]*)"`)

// ParseError describes a malformed direct-filter expression. It is returned
// as a value so callers can show it to the user instead of treating it as an
// internal failure.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid filter expression %q: %s", e.Input, e.Reason)
}

// ParseFilters parses a direct filter expression such as
//
//	category="backend, frontend" location="Remote" company="discord"
//
// into an ad-hoc PreferenceSet. Keys are case-insensitive. A blank input
// yields (nil, nil); input that contains no recognizable pair or an unknown
// key yields a *ParseError.
func ParseFilters(input string) (*PreferenceSet, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil, nil
	}

	pairs := filterPairs.FindAllStringSubmatch(trimmed, -1)
	if len(pairs) == 0 {
		return nil, &ParseError{Input: input, Reason: `expected key="value" pairs`}
	}

	set := New("")
	for _, pair := range pairs {
		key, value := pair[1], pair[2]
		switch strings.ToLower(key) {
		case "category":
			for _, v := range SplitList(value) {
				set.AddCategory(v)
			}
		case "location":
			for _, v := range SplitList(value) {
				set.AddLocation(v)
			}
		case "company":
			for _, v := range SplitList(value) {
				set.AddCompany(v)
			}
		default:
			return nil, &ParseError{Input: input, Reason: fmt.Sprintf("unknown filter key %q", key)}
		}
	}

	if set.IsEmpty() {
		return nil, &ParseError{Input: input, Reason: "no usable filter values"}
	}

	return set, nil
}

// SplitList splits a comma-separated value, trimming whitespace and dropping
// empty pieces.
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
