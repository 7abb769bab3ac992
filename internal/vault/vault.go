// Package vault implements the credential lifecycle on top of a secret store:
// storing with an overwrite gate, reading, deleting and listing the entries
// that belong to one owner.
//
// Every operation is a single store call after at most one existence check.
// Set and Delete check existence and then act in separate calls, so another
// process changing the same service in between can slip past the overwrite
// prompt or the existence guard. That race is accepted.
package vault

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/semmy-space/kvault/internal/record"
	"github.com/semmy-space/kvault/internal/secrets"
)

// ErrNotFound is returned when no readable entry exists for a service.
var ErrNotFound = errors.New("service not found")

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(question string) (bool, error)

func (f ConfirmFunc) Confirm(question string) (bool, error) {
	return f(question)
}

// Outcome describes what Set did.
type Outcome int

const (
	OutcomeCreated Outcome = iota
	OutcomeReplaced
	OutcomeAborted // operator declined the overwrite; nothing written
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeReplaced:
		return "replaced"
	case OutcomeAborted:
		return "aborted"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Vault is one owner's view of a secret store.
type Vault struct {
	owner   string
	store   secrets.Store
	confirm Confirmer
	force   bool
	log     zerolog.Logger
}

// Option configures a Vault.
type Option func(*Vault)

// WithConfirmer sets the overwrite prompt. Without one, overwrites are declined.
func WithConfirmer(c Confirmer) Option {
	return func(v *Vault) { v.confirm = c }
}

// WithForce makes Set overwrite existing entries without asking.
func WithForce(force bool) Option {
	return func(v *Vault) { v.force = force }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(v *Vault) { v.log = l }
}

// New creates a Vault for owner over store.
func New(owner string, store secrets.Store, opts ...Option) (*Vault, error) {
	if err := ValidateName(owner); err != nil {
		return nil, fmt.Errorf("owner %q: %w", owner, err)
	}
	if store == nil {
		return nil, errors.New("vault requires a secret store")
	}

	v := &Vault{
		owner:   owner,
		store:   store,
		confirm: ConfirmFunc(func(string) (bool, error) { return false, nil }),
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = v.log.With().Str("owner", owner).Logger()
	return v, nil
}

// Owner returns the owner identity the vault is scoped to.
func (v *Vault) Owner() string {
	return v.owner
}

// Set stores username and secret under service.
// If the service already has an entry the Confirmer is asked first; any
// answer but yes leaves the entry untouched and returns OutcomeAborted.
func (v *Vault) Set(service, username, secret string) (Outcome, error) {
	if err := ValidateName(service); err != nil {
		return OutcomeAborted, err
	}

	exists, err := v.Exists(service)
	if err != nil {
		return OutcomeAborted, err
	}

	outcome := OutcomeCreated
	if exists {
		outcome = OutcomeReplaced
		if !v.force {
			ok, err := v.confirm.Confirm(fmt.Sprintf("%s already exists. Overwrite?", service))
			if err != nil {
				return OutcomeAborted, err
			}
			if !ok {
				v.log.Debug().Str("service", service).Msg("overwrite declined")
				return OutcomeAborted, nil
			}
		}
	}

	blob, err := record.Encode(username, secret)
	if err != nil {
		return OutcomeAborted, err
	}
	if err := v.store.Set(service, blob); err != nil {
		return OutcomeAborted, err
	}

	v.log.Debug().Str("service", service).Stringer("outcome", outcome).Msg("credential stored")
	return outcome, nil
}

// Get returns the credential stored under service.
// A stored blob that fails to decode is reported as not found; the error
// also matches record.ErrMalformed.
func (v *Vault) Get(service string) (record.Credential, error) {
	blob, err := v.store.Get(service)
	if err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return record.Credential{}, fmt.Errorf("%w: %s", ErrNotFound, service)
		}
		return record.Credential{}, err
	}

	cred, err := record.Decode(blob)
	if err != nil {
		v.log.Debug().Str("service", service).Err(err).Msg("stored record unreadable")
		return record.Credential{}, fmt.Errorf("%w: %s: %w", ErrNotFound, service, err)
	}
	return cred, nil
}

// Delete removes the entry stored under service.
// The entry must exist and decode; deleting a missing entry is an error.
func (v *Vault) Delete(service string) error {
	if _, err := v.Get(service); err != nil {
		return err
	}

	if err := v.store.Delete(service); err != nil {
		if errors.Is(err, secrets.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, service)
		}
		return err
	}

	v.log.Debug().Str("service", service).Msg("credential deleted")
	return nil
}

// ListAll returns the service names owned by this vault, in store enumeration order.
func (v *Vault) ListAll() ([]string, error) {
	items, err := v.store.Enumerate()
	if err != nil {
		return nil, err
	}

	services := []string{}
	for _, item := range items {
		if !IsOwnedBy(item.Label, v.owner) {
			continue
		}
		if service, ok := ServiceFromLabel(item.Label); ok {
			services = append(services, service)
		}
	}

	v.log.Debug().Int("items", len(items)).Int("owned", len(services)).Msg("enumerated store")
	return services, nil
}

// Exists reports whether service appears among the vault's enumerated entries.
func (v *Vault) Exists(service string) (bool, error) {
	services, err := v.ListAll()
	if err != nil {
		return false, err
	}
	for _, s := range services {
		if s == service {
			return true, nil
		}
	}
	return false, nil
}
