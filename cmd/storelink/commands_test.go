package main

import (
	// Standard libraries
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	// Go files
	"github.com/Niutaq/Storelink/pkg/config"
	"github.com/Niutaq/Storelink/pkg/enhance"
	"github.com/Niutaq/Storelink/pkg/pages"
	"github.com/Niutaq/Storelink/pkg/region"

	// External libraries
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run - executes the CLI with a temporary cache file and returns stdout
func run(t *testing.T, cache string, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	argv := append([]string{"storelink", "--cache", cache}, args...)
	require.NoError(t, app.Run(argv))
	return out.String()
}

// TestRegionOverrideRemembered - an override is written to the cache file and reused
func TestRegionOverrideRemembered(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "region.json")

	assert.Equal(t, "DE\tAmazon Germany\n", run(t, cache, "region", "--override", "DE"))

	raw, err := os.ReadFile(cache)
	require.NoError(t, err)
	entry, err := region.DecodeEntry(string(raw))
	require.NoError(t, err)
	assert.Equal(t, "DE", entry.Code)

	assert.Equal(t, "DE\tAmazon Germany\n", run(t, cache, "region"))
}

// TestURLCommand - prints the link for the requested region
func TestURLCommand(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "region.json")

	out := run(t, cache, "url", "--asin", "B000123", "--region", "JP", "--tag", "cli-22", "--params", "th=1")
	assert.Equal(t, "https://amazon.co.jp/dp/B000123?tag=cli-22&th=1\n", out)

	out = run(t, cache, "url", "--asin", "B000123", "--search", "tea", "--force")
	assert.Equal(t, "https://amazon.co.jp/s?k=tea\n", out)
}

// TestStoresCommand - one row per storefront
func TestStoresCommand(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, writeStores(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "AU"))
	assert.Contains(t, lines[0], "amazon.com.au")
}

// TestEnhancePage - page defaults reach both elements and grids
func TestEnhancePage(t *testing.T) {
	resolver := region.NewResolver(region.NewMemorySlot(), region.StaticSignals{Langs: []string{"es-ES"}})
	e := enhance.NewEnhancer(resolver, nil)

	defaults, err := config.LoadDefaultsFromBytes([]byte(`{"tag":"page-21","text":"Shop","regions":"ES,DE","linkClass":"btn"}`))
	require.NoError(t, err)

	page := `<html><body>
		<a id="buy" data-amazon-asin="B01"></a>
		<div data-amazon-grid data-amazon-asin="B02"></div>
	</body></html>`

	doc, err := pages.Parse(strings.NewReader(page))
	require.NoError(t, err)

	var out bytes.Buffer
	stats, err := enhancePage(context.Background(), e, doc, &out, defaults)
	require.NoError(t, err)
	assert.Equal(t, pageStats{Enhanced: 1, Grids: 1}, stats)

	html := out.String()
	assert.Contains(t, html, `href="https://amazon.es/dp/B01?tag=page-21"`)
	assert.Contains(t, html, `>Shop</a>`)
	assert.Contains(t, html, `href="https://amazon.de/dp/B02?tag=page-21"`)
	assert.Contains(t, html, `class="btn"`)
	assert.Less(t, strings.Index(html, `data-store="ES"`), strings.Index(html, `data-store="DE"`))
}

// TestRegionFlagUsage - the accepted codes are listed in the help text
func TestRegionFlagUsage(t *testing.T) {
	cache := filepath.Join(t.TempDir(), "region.json")
	out := run(t, cache, "url", "--help")
	assert.Contains(t, out, "AU, BR, CA, DE, ES, FR, IN, IT, JP, MX, NL, UK, US")
}
