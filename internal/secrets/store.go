package secrets

import (
	"errors"
	"fmt"
)

// Store is the narrow view of the secret store the vault needs.
// Get, Set and Delete are scoped to the owner the store was opened for.
// Enumerate returns every item in the collection, whoever owns it.
type Store interface {
	Get(service string) ([]byte, error)
	Set(service string, blob []byte) error
	Delete(service string) error
	Enumerate() ([]Item, error)
}

// Item is what enumeration reveals about a stored entry.
type Item struct {
	Label      string
	Attributes map[string]string
}

// ErrNotFound is returned when no entry exists for the service under the store's owner
var ErrNotFound = errors.New("key not found")

// StoreError wraps a failure of the underlying secret store
type StoreError struct {
	Op      string // get, set, delete, enumerate, open
	Service string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Service == "" {
		return fmt.Sprintf("secret store %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("secret store %s %q failed: %v", e.Op, e.Service, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ServiceName is the application name registered with the OS keyring
const ServiceName = "kvault"

// Label returns the human-readable label stored alongside an entry.
// The owner appears quoted in the middle, the service is the final token.
func Label(owner, service string) string {
	return fmt.Sprintf("Password for '%s' on '%s'", owner, service)
}
