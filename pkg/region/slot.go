package region

import (
	// Standard libraries
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Constants
const (
	// CacheKey names the persisted region decision in every backend
	CacheKey = "amazonStoreRegion"

	// DefaultTTL is how long a persisted decision stays valid (30 days)
	DefaultTTL = 30 * 24 * time.Hour
)

// ErrSlotEmpty is returned by a Slot that holds no value
var ErrSlotEmpty = errors.New("region slot is empty")

// Slot is a single persisted key/value cell holding the raw cached decision.
type Slot interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, value string) error
}

// Entry - the persisted decision, ts in Unix milliseconds
type Entry struct {
	Code string `json:"code"`
	TS   int64  `json:"ts"`
}

// NewEntry stamps code with t
func NewEntry(code string, t time.Time) Entry {
	return Entry{Code: code, TS: t.UnixMilli()}
}

// Encode serialises the entry to its JSON form
func (e Entry) Encode() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("encode region entry: %w", err)
	}
	return string(b), nil
}

// Expired reports whether the entry is older than ttl at now
func (e Entry) Expired(now time.Time, ttl time.Duration) bool {
	return now.UnixMilli()-e.TS > ttl.Milliseconds()
}

// DecodeEntry parses a raw slot value. Missing code or timestamp is an error.
func DecodeEntry(raw string) (Entry, error) {
	if raw == "" {
		return Entry{}, ErrSlotEmpty
	}
	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, fmt.Errorf("decode region entry: %w", err)
	}
	if e.Code == "" || e.TS == 0 {
		return Entry{}, fmt.Errorf("decode region entry: incomplete value %q", raw)
	}
	return e, nil
}

// MemorySlot keeps the value in process memory
type MemorySlot struct {
	mu    sync.Mutex
	value string
	set   bool
}

// NewMemorySlot returns an empty in-memory slot
func NewMemorySlot() *MemorySlot {
	return &MemorySlot{}
}

// Get returns the stored value or ErrSlotEmpty
func (m *MemorySlot) Get(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set {
		return "", ErrSlotEmpty
	}
	return m.value, nil
}

// Set overwrites the stored value
func (m *MemorySlot) Set(_ context.Context, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = value
	m.set = true
	return nil
}
