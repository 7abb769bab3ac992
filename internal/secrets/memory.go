package secrets

import "sync"

// MemoryStore is an in-process Store. Entries keep insertion order so
// enumeration is stable. Stores derived with ForOwner share one backing
// collection, like owners sharing one OS keyring.
type MemoryStore struct {
	owner string
	c     *memoryCollection
}

type memoryEntry struct {
	owner   string
	service string
	blob    []byte
}

type memoryCollection struct {
	mu      sync.Mutex
	entries []memoryEntry
	foreign []Item
}

// NewMemoryStore creates an empty in-memory store for owner.
func NewMemoryStore(owner string) *MemoryStore {
	return &MemoryStore{owner: owner, c: &memoryCollection{}}
}

// ForOwner returns a store for another owner over the same collection.
func (s *MemoryStore) ForOwner(owner string) *MemoryStore {
	return &MemoryStore{owner: owner, c: s.c}
}

// AddForeign adds an item that belongs to some other application.
// It shows up in Enumerate but can't be read through Get.
func (s *MemoryStore) AddForeign(item Item) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()
	s.c.foreign = append(s.c.foreign, item)
}

func (s *MemoryStore) find(service string) int {
	for i, e := range s.c.entries {
		if e.owner == s.owner && e.service == service {
			return i
		}
	}
	return -1
}

// Get returns a copy of the blob stored for service.
func (s *MemoryStore) Get(service string) ([]byte, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	i := s.find(service)
	if i < 0 {
		return nil, ErrNotFound
	}
	return append([]byte(nil), s.c.entries[i].blob...), nil
}

// Set stores blob for service, replacing in place if it already exists.
func (s *MemoryStore) Set(service string, blob []byte) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	data := append([]byte(nil), blob...)
	if i := s.find(service); i >= 0 {
		s.c.entries[i].blob = data
		return nil
	}
	s.c.entries = append(s.c.entries, memoryEntry{owner: s.owner, service: service, blob: data})
	return nil
}

// Delete removes the entry stored for service.
func (s *MemoryStore) Delete(service string) error {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	i := s.find(service)
	if i < 0 {
		return ErrNotFound
	}
	s.c.entries = append(s.c.entries[:i], s.c.entries[i+1:]...)
	return nil
}

// Enumerate lists foreign items first, then vault entries in insertion order.
func (s *MemoryStore) Enumerate() ([]Item, error) {
	s.c.mu.Lock()
	defer s.c.mu.Unlock()

	items := make([]Item, 0, len(s.c.foreign)+len(s.c.entries))
	items = append(items, s.c.foreign...)
	for _, e := range s.c.entries {
		items = append(items, Item{
			Label: Label(e.owner, e.service),
			Attributes: map[string]string{
				"service":  e.service,
				"username": e.owner,
			},
		})
	}
	return items, nil
}
