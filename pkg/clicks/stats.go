package clicks

import (
	// Standard libraries
	"context"
	"sort"
	"sync"
	"time"
)

// Constants
const recentLimit = 10

// Stats tracks click counts in memory since start.
type Stats struct {
	mu       sync.RWMutex
	total    int
	byRegion map[string]int
	recent   []Click
	since    time.Time
}

// RegionCount - clicks of one storefront
type RegionCount struct {
	Region string `json:"region"`
	Clicks int    `json:"clicks"`
}

// Summary - a snapshot of Stats
type Summary struct {
	Total    int           `json:"total"`
	Since    time.Time     `json:"since"`
	ByRegion []RegionCount `json:"byRegion"`
	Recent   []Click       `json:"recent"`
}

// NewStats - empty counters starting now
func NewStats() *Stats {
	return &Stats{byRegion: map[string]int{}, since: time.Now().UTC()}
}

// Save counts c; it never fails
func (s *Stats) Save(_ context.Context, c Click) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	s.byRegion[c.Region]++
	s.recent = append(s.recent, c)
	if len(s.recent) > recentLimit {
		s.recent = s.recent[1:] // Keep last 10
	}
	return nil
}

// Summary returns the counters, busiest region first, and the latest clicks newest first.
func (s *Stats) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Summary{Total: s.total, Since: s.since, ByRegion: make([]RegionCount, 0, len(s.byRegion))}
	for code, n := range s.byRegion {
		out.ByRegion = append(out.ByRegion, RegionCount{Region: code, Clicks: n})
	}
	sort.Slice(out.ByRegion, func(i, j int) bool {
		if out.ByRegion[i].Clicks != out.ByRegion[j].Clicks {
			return out.ByRegion[i].Clicks > out.ByRegion[j].Clicks
		}
		return out.ByRegion[i].Region < out.ByRegion[j].Region
	})

	out.Recent = make([]Click, len(s.recent))
	for i, c := range s.recent {
		out.Recent[len(s.recent)-1-i] = c
	}
	return out
}
