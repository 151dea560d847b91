package clicks

import (
	// Standard libraries
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	// External utilities
	"github.com/stretchr/testify/assert"
)

// memorySink collects clicks
type memorySink struct {
	mu     sync.Mutex
	clicks []Click
	err    error
}

func (m *memorySink) Save(ctx context.Context, c Click) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clicks = append(m.clicks, c)
	return m.err
}

// TestRecorder - every sink sees every click, failures don't stop the others
func TestRecorder(t *testing.T) {
	failing := &memorySink{err: errors.New("down")}
	ok := &memorySink{}
	r := NewRecorder(nil, failing, nil, ok)
	assert.True(t, r.Enabled())

	c := Click{Time: time.Now(), Region: "US", ASIN: "B01", Href: "https://amazon.com/dp/B01"}
	r.Record(c)
	r.Record(c)
	r.Wait()

	assert.Len(t, failing.clicks, 2)
	assert.Len(t, ok.clicks, 2)
	assert.Equal(t, "US", ok.clicks[0].Region)
}

// TestRecorderDisabled - no sinks means nothing runs
func TestRecorderDisabled(t *testing.T) {
	r := NewRecorder(nil)
	assert.False(t, r.Enabled())
	r.Record(Click{})
	r.Wait()
}
