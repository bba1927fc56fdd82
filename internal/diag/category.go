package diag

import (
	"fmt"
	"strings"
)

// Category defines the importance of a diagnostic.
type Category uint8

const (
	// CatMessage is informational output, including suppressed findings.
	CatMessage Category = iota
	// CatSuggestion is an optional improvement.
	CatSuggestion
	CatWarning
	CatError
)

func (c Category) String() string {
	switch c {
	case CatMessage:
		return "message"
	case CatSuggestion:
		return "suggestion"
	case CatWarning:
		return "warning"
	case CatError:
		return "error"
	}
	return "unknown"
}

// ParseCategory converts a lower-case category name back to a Category.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "message":
		return CatMessage, nil
	case "suggestion":
		return CatSuggestion, nil
	case "warning":
		return CatWarning, nil
	case "error":
		return CatError, nil
	}
	return CatMessage, fmt.Errorf("unknown diagnostic category %q", s)
}
