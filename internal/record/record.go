// Package record encodes a single credential as the opaque blob kept in the
// secret store.
//
// The blob is a JSON object holding exactly one member, the username mapped
// to its secret: {"root":"toor"}.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrMalformed is returned when a blob cannot be decoded into a credential.
var ErrMalformed = errors.New("malformed credential record")

// ErrEmptyField is returned when encoding a credential with an empty username or secret.
var ErrEmptyField = errors.New("username and secret must not be empty")

// ErrInvalidText is returned when encoding a username or secret that is not valid UTF-8.
var ErrInvalidText = errors.New("username and secret must be valid UTF-8")

// Credential is one username/secret pair stored under a service name.
type Credential struct {
	Username string
	Secret   string
}

// Encode serializes the username/secret pair.
func Encode(username, secret string) ([]byte, error) {
	if username == "" || secret == "" {
		return nil, ErrEmptyField
	}
	if !utf8.ValidString(username) || !utf8.ValidString(secret) {
		return nil, ErrInvalidText
	}

	data, err := json.Marshal(map[string]string{username: secret})
	if err != nil {
		return nil, fmt.Errorf("failed to encode credential: %w", err)
	}
	return data, nil
}

// Decode parses a blob produced by Encode.
// Any error it returns matches ErrMalformed.
func Decode(blob []byte) (Credential, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return Credential{}, fmt.Errorf("%w: empty blob", ErrMalformed)
	}

	var members map[string]json.RawMessage
	if err := json.Unmarshal(blob, &members); err != nil {
		return Credential{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if members == nil {
		return Credential{}, fmt.Errorf("%w: not an object", ErrMalformed)
	}
	if len(members) != 1 {
		return Credential{}, fmt.Errorf("%w: expected 1 entry, got %d", ErrMalformed, len(members))
	}

	for username, raw := range members {
		var secret string
		if err := json.Unmarshal(raw, &secret); err != nil {
			return Credential{}, fmt.Errorf("%w: secret is not a string", ErrMalformed)
		}
		if username == "" || secret == "" {
			return Credential{}, fmt.Errorf("%w: empty username or secret", ErrMalformed)
		}
		return Credential{Username: username, Secret: secret}, nil
	}

	// unreachable: len(members) == 1
	return Credential{}, ErrMalformed
}
