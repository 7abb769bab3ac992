package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/99designs/keyring"
)

const itemDescription = "kvault credential"

// KeyringStore implements the Store interface using the OS keyring.
// Items are keyed "<owner>:<service>" so several owners can share one collection.
type KeyringStore struct {
	ring  keyring.Keyring
	owner string
}

// KeyringOptions selects how the OS keyring is opened.
type KeyringOptions struct {
	Owner      string
	Collection string                // Secret Service / KWallet collection
	FileDir    string                // directory for the encrypted file backend
	Backends   []keyring.BackendType // nil allows every backend available on the platform
	Password   keyring.PromptFunc    // file backend passphrase; defaults to a terminal prompt
}

// NewKeyringStore opens the OS keyring for the given owner.
// Returns an error if no allowed backend is available on this platform.
func NewKeyringStore(opts KeyringOptions) (*KeyringStore, error) {
	if opts.Owner == "" {
		return nil, errors.New("keyring owner must not be empty")
	}

	password := opts.Password
	if password == nil {
		password = keyring.TerminalPrompt
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          opts.Backends,
		KeychainTrustApplication: true, // macOS: don't prompt every access
		LibSecretCollectionName:  opts.Collection,
		KWalletAppID:             ServiceName,
		KWalletFolder:            opts.Collection,
		WinCredPrefix:            ServiceName,
		FileDir:                  opts.FileDir,
		FilePasswordFunc:         password,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, &StoreError{Op: "open", Err: err}
	}

	return NewKeyringStoreFrom(ring, opts.Owner), nil
}

// NewKeyringStoreFrom wraps an already opened keyring.
func NewKeyringStoreFrom(ring keyring.Keyring, owner string) *KeyringStore {
	return &KeyringStore{ring: ring, owner: owner}
}

func (s *KeyringStore) key(service string) string {
	return s.owner + ":" + service
}

// Get retrieves the blob stored for service.
func (s *KeyringStore) Get(service string) ([]byte, error) {
	item, err := s.ring.Get(s.key(service))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get", Service: service, Err: err}
	}
	return item.Data, nil
}

// Set stores blob for service, replacing any previous item.
func (s *KeyringStore) Set(service string, blob []byte) error {
	item := keyring.Item{
		Key:         s.key(service),
		Data:        blob,
		Label:       Label(s.owner, service),
		Description: itemDescription,
	}
	if err := s.ring.Set(item); err != nil {
		return &StoreError{Op: "set", Service: service, Err: err}
	}
	return nil
}

// Delete removes the item stored for service.
func (s *KeyringStore) Delete(service string) error {
	if err := s.ring.Remove(s.key(service)); err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return ErrNotFound
		}
		return &StoreError{Op: "delete", Service: service, Err: err}
	}
	return nil
}

// Enumerate lists every item in the collection.
// Backends only expose labels through a full read, so each key is fetched;
// items that can't be read are left out.
func (s *KeyringStore) Enumerate() ([]Item, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, &StoreError{Op: "enumerate", Err: err}
	}

	items := make([]Item, 0, len(keys))
	for _, k := range keys {
		ki, err := s.ring.Get(k)
		if err != nil {
			continue
		}
		label := ki.Label
		if label == "" {
			label = labelFromKey(k)
		}
		items = append(items, Item{
			Label: label,
			Attributes: map[string]string{
				"key":         k,
				"description": ki.Description,
			},
		})
	}
	return items, nil
}

// labelFromKey rebuilds the label for backends that don't return one on read.
// Keys outside the "<owner>:<service>" shape are used as is.
func labelFromKey(key string) string {
	owner, service, ok := strings.Cut(key, ":")
	if !ok || owner == "" || service == "" {
		return key
	}
	return Label(owner, service)
}

// Owner reports the owner the store was opened for.
func (s *KeyringStore) Owner() string {
	return s.owner
}

func (s *KeyringStore) String() string {
	return fmt.Sprintf("keyring(%s)", s.owner)
}
