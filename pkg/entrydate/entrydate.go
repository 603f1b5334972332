package entrydate

import (
	"errors"
	"time"

	"github.com/paketdefter/paketdefter-backend/pkg/database"
)

// Layout is the wire format for entry dates
const Layout = "2006-01-02"

// ErrInvalidDate is returned when an ADMIN supplies a malformed entry date
var ErrInvalidDate = errors.New("entry date must be YYYY-MM-DD")

// Today returns the current calendar date
func Today() string {
	return time.Now().Format(Layout)
}

// Resolve picks the entry date for a posting. Only ADMIN may backdate or
// postdate; any date supplied by another role is ignored in favor of today.
func Resolve(role, supplied string) (string, error) {
	if role != database.RoleAdmin || supplied == "" {
		return Today(), nil
	}
	if _, err := time.Parse(Layout, supplied); err != nil {
		return "", ErrInvalidDate
	}
	return supplied, nil
}

// Valid reports whether s is a well-formed YYYY-MM-DD date
func Valid(s string) bool {
	_, err := time.Parse(Layout, s)
	return err == nil
}
