package vault

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidName is returned for service names the label convention can't carry.
var ErrInvalidName = errors.New("invalid service name")

// labelWords are the fixed words of the label convention.
var labelWords = map[string]bool{"Password": true, "for": true, "on": true}

// IsOwnedBy reports whether a secret-store label marks an entry of owner.
//
// Labels written by kvault look like "Password for '<owner>' on '<service>'"
// and are matched on the quoted owner alone. Other labels match when the owner
// appears as a whole token, optionally single-quoted, before the final token;
// the convention's fixed words only count when quoted.
func IsOwnedBy(label, owner string) bool {
	if owner == "" {
		return false
	}
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return false
	}
	if labelOwner, ok := conventionOwner(fields); ok {
		return labelOwner == owner
	}
	for _, f := range fields[:len(fields)-1] {
		if unquote(f) != owner {
			continue
		}
		if f == owner && labelWords[f] {
			continue
		}
		return true
	}
	return false
}

// conventionOwner returns the owner of a label in the exact
// "Password for '<owner>' on '<service>'" shape.
func conventionOwner(fields []string) (string, bool) {
	if len(fields) != 5 || fields[0] != "Password" || fields[1] != "for" || fields[3] != "on" {
		return "", false
	}
	if !isQuoted(fields[2]) || !isQuoted(fields[4]) {
		return "", false
	}
	return unquote(fields[2]), true
}

func isQuoted(token string) bool {
	return len(token) >= 2 && token[0] == '\'' && token[len(token)-1] == '\''
}

// ServiceFromLabel extracts the service name, the label's final token.
func ServiceFromLabel(label string) (string, bool) {
	fields := strings.Fields(label)
	if len(fields) == 0 {
		return "", false
	}
	service := unquote(fields[len(fields)-1])
	return service, service != ""
}

func unquote(token string) string {
	if isQuoted(token) {
		return token[1 : len(token)-1]
	}
	return token
}

// ValidateName checks that a service or owner name survives a round trip through a label.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name must not be empty", ErrInvalidName)
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("%w: name must not contain whitespace", ErrInvalidName)
	}
	if strings.ContainsRune(name, '\'') {
		return fmt.Errorf("%w: name must not contain quotes", ErrInvalidName)
	}
	return nil
}
