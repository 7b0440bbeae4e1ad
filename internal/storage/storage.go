package storage

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/eugenenazirov/container-packer/internal/packing"
)

const (
	maxItems = 100

	defaultDimensionCm = 10
	defaultQuantity    = 1
)

var (
	// ErrInvalidItem indicates the provided item violates validation rules.
	ErrInvalidItem = errors.New("item must have a name")
	// ErrItemNotFound is returned when no item matches the requested ID.
	ErrItemNotFound = errors.New("item not found")
	// ErrDuplicateItem is returned when an item ID is already in use.
	ErrDuplicateItem = errors.New("item id already exists")
	// ErrTooManyItems is returned when the item list would exceed its cap.
	ErrTooManyItems = fmt.Errorf("item list cannot hold more than %d items", maxItems)
)

var defaultContainer = packing.Container{Length: 5.898, Width: 2.352, Height: 2.393}

var defaultItems = []packing.ItemSpec{
	{ID: "demo-item-1", Name: "Large Base Box", Length: 110, Width: 110, Height: 45, Quantity: 10},
	{ID: "demo-item-2", Name: "Standard Cube", Length: 55, Width: 55, Height: 55, Quantity: 84},
	{ID: "demo-item-3", Name: "Document Tube Box", Length: 20, Width: 20, Height: 80, Quantity: 84},
}

// Snapshot is a consistent copy of the editor state.
type Snapshot struct {
	Items     []packing.ItemSpec
	Container packing.Container
}

// Storage provides access to the item list and container being edited.
type Storage interface {
	ListItems() ([]packing.ItemSpec, error)
	GetItem(id string) (packing.ItemSpec, error)
	AddItem(item packing.ItemSpec) (packing.ItemSpec, error)
	UpdateItem(id string, item packing.ItemSpec) (packing.ItemSpec, error)
	DeleteItem(id string) error
	ReplaceItems(items []packing.ItemSpec) error
	GetContainer() (packing.Container, error)
	SetContainer(c packing.Container) (packing.Container, error)
	Snapshot() (Snapshot, error)
}

// MemoryStorage keeps the editor state in-memory and guards access with a RWMutex.
type MemoryStorage struct {
	mu        sync.RWMutex
	items     []packing.ItemSpec
	container packing.Container
	fallback  packing.Container
}

// StorageOption configures a MemoryStorage.
type StorageOption func(*MemoryStorage)

// WithDefaultContainer sets the container used initially and as the
// per-axis fallback for non-positive dimensions.
func WithDefaultContainer(c packing.Container) StorageOption {
	return func(s *MemoryStorage) {
		s.fallback = normalizeContainer(c, defaultContainer)
		s.container = s.fallback
	}
}

// WithItems seeds the item list. Invalid items are skipped.
func WithItems(items []packing.ItemSpec) StorageOption {
	return func(s *MemoryStorage) {
		s.items = s.items[:0]
		for _, item := range items {
			normalized, err := normalizeItem(item)
			if err != nil || len(s.items) >= maxItems {
				continue
			}
			if normalized.ID == "" {
				normalized.ID = newItemID()
			}
			s.items = append(s.items, normalized)
		}
	}
}

// NewMemoryStorage initialises storage with the demo items and container.
func NewMemoryStorage(opts ...StorageOption) *MemoryStorage {
	s := &MemoryStorage{
		items:     cloneItems(defaultItems),
		container: defaultContainer,
		fallback:  defaultContainer,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DefaultItems returns a copy of the demo item list.
func DefaultItems() []packing.ItemSpec {
	return cloneItems(defaultItems)
}

// DefaultContainer returns the demo container dimensions.
func DefaultContainer() packing.Container {
	return defaultContainer
}

// ListItems returns a copy of the current item list in editor order.
func (s *MemoryStorage) ListItems() ([]packing.ItemSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneItems(s.items), nil
}

// GetItem returns the item with the given ID.
func (s *MemoryStorage) GetItem(id string) (packing.ItemSpec, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return packing.ItemSpec{}, ErrItemNotFound
	}
	return s.items[idx], nil
}

// AddItem normalises and appends an item. An empty ID is replaced by a
// generated one.
func (s *MemoryStorage) AddItem(item packing.ItemSpec) (packing.ItemSpec, error) {
	normalized, err := normalizeItem(item)
	if err != nil {
		return packing.ItemSpec{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= maxItems {
		return packing.ItemSpec{}, ErrTooManyItems
	}
	if normalized.ID == "" {
		normalized.ID = newItemID()
	} else if s.indexOf(normalized.ID) >= 0 {
		return packing.ItemSpec{}, ErrDuplicateItem
	}

	s.items = append(s.items, normalized)
	return normalized, nil
}

// UpdateItem replaces the item with the given ID, keeping its position and ID.
func (s *MemoryStorage) UpdateItem(id string, item packing.ItemSpec) (packing.ItemSpec, error) {
	normalized, err := normalizeItem(item)
	if err != nil {
		return packing.ItemSpec{}, err
	}
	normalized.ID = id

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return packing.ItemSpec{}, ErrItemNotFound
	}
	s.items[idx] = normalized
	return normalized, nil
}

// DeleteItem removes the item with the given ID.
func (s *MemoryStorage) DeleteItem(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrItemNotFound
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return nil
}

// ReplaceItems swaps the whole item list. The list is validated before any
// change is made.
func (s *MemoryStorage) ReplaceItems(items []packing.ItemSpec) error {
	if len(items) > maxItems {
		return ErrTooManyItems
	}

	next := make([]packing.ItemSpec, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		normalized, err := normalizeItem(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i+1, err)
		}
		if normalized.ID == "" {
			normalized.ID = newItemID()
		}
		if _, dup := seen[normalized.ID]; dup {
			return fmt.Errorf("item %d: %w", i+1, ErrDuplicateItem)
		}
		seen[normalized.ID] = struct{}{}
		next = append(next, normalized)
	}

	s.mu.Lock()
	s.items = next
	s.mu.Unlock()

	return nil
}

// GetContainer returns the current container dimensions.
func (s *MemoryStorage) GetContainer() (packing.Container, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.container, nil
}

// SetContainer stores c, replacing non-positive dimensions with the defaults.
func (s *MemoryStorage) SetContainer(c packing.Container) (packing.Container, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.container = normalizeContainer(c, s.fallback)
	return s.container, nil
}

// Snapshot returns the item list and container under a single read lock.
func (s *MemoryStorage) Snapshot() (Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{Items: cloneItems(s.items), Container: s.container}, nil
}

func (s *MemoryStorage) indexOf(id string) int {
	for i, item := range s.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// normalizeItem applies the editor defaults: non-positive dimensions become
// 10 cm and a non-positive quantity becomes 1. A blank name is rejected.
func normalizeItem(item packing.ItemSpec) (packing.ItemSpec, error) {
	item.ID = strings.TrimSpace(item.ID)
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return packing.ItemSpec{}, ErrInvalidItem
	}

	item.Length = positiveOr(item.Length, defaultDimensionCm)
	item.Width = positiveOr(item.Width, defaultDimensionCm)
	item.Height = positiveOr(item.Height, defaultDimensionCm)
	if item.Quantity <= 0 {
		item.Quantity = defaultQuantity
	}
	return item, nil
}

func normalizeContainer(c, fallback packing.Container) packing.Container {
	return packing.Container{
		Length: positiveOr(c.Length, fallback.Length),
		Width:  positiveOr(c.Width, fallback.Width),
		Height: positiveOr(c.Height, fallback.Height),
	}
}

// positiveOr returns v when it is a positive finite number, otherwise fallback.
func positiveOr(v, fallback float64) float64 {
	if v > 0 && v <= math.MaxFloat64 {
		return v
	}
	return fallback
}

func newItemID() string {
	return uuid.New().String()[:8]
}

func cloneItems(src []packing.ItemSpec) []packing.ItemSpec {
	out := make([]packing.ItemSpec, len(src))
	copy(out, src)
	return out
}
