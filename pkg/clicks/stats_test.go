package clicks

import (
	// Standard libraries
	"context"
	"fmt"
	"testing"

	// External utilities
	"github.com/stretchr/testify/assert"
)

// TestStatsSummary - counts per region, busiest first
func TestStatsSummary(t *testing.T) {
	s := NewStats()
	for _, code := range []string{"US", "UK", "US", "DE", "UK", "US"} {
		assert.NoError(t, s.Save(context.Background(), Click{Region: code}))
	}

	sum := s.Summary()
	assert.Equal(t, 6, sum.Total)
	assert.Equal(t, []RegionCount{{"US", 3}, {"UK", 2}, {"DE", 1}}, sum.ByRegion)
	assert.Equal(t, "US", sum.Recent[0].Region)
	assert.Equal(t, "US", sum.Recent[5].Region)
}

// TestStatsRecentBounded - only the latest clicks are kept, newest first
func TestStatsRecentBounded(t *testing.T) {
	s := NewStats()
	for i := 0; i < 25; i++ {
		_ = s.Save(context.Background(), Click{Region: "FR", ASIN: fmt.Sprintf("B%02d", i)})
	}

	sum := s.Summary()
	assert.Equal(t, 25, sum.Total)
	assert.Len(t, sum.Recent, recentLimit)
	assert.Equal(t, "B24", sum.Recent[0].ASIN)
	assert.Equal(t, "B15", sum.Recent[recentLimit-1].ASIN)
}

// TestStatsEmpty - no clicks, empty but non-nil lists
func TestStatsEmpty(t *testing.T) {
	sum := NewStats().Summary()
	assert.Zero(t, sum.Total)
	assert.NotNil(t, sum.ByRegion)
	assert.NotNil(t, sum.Recent)
}
