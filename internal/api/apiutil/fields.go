package apiutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// PathID parses a positive integer path segment registered with the mux.
func PathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, FieldError{Field: key, Reason: "is required"}
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, FieldError{Field: key, Reason: "must be a positive integer"}
	}
	return id, nil
}

// QueryInt64 parses an optional integer query parameter. Returns (0, false)
// when absent.
func QueryInt64(r *http.Request, key string) (int64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value <= 0 {
		return 0, false, FieldError{Field: key, Reason: "must be a positive integer"}
	}
	return value, true, nil
}

func RequireName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", FieldError{Field: "name", Reason: "is required"}
	}
	return name, nil
}

// ValidateLineType ensures a line type is one of the two court kinds.
func ValidateLineType(lineType string) error {
	switch lineType {
	case "singles", "doubles":
		return nil
	}
	return FieldError{Field: "line_type", Reason: fmt.Sprintf("unknown value %q", lineType)}
}
