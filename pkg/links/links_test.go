package links

import (
	// Standard libraries
	"context"
	"testing"

	// Go files
	"github.com/Niutaq/Storelink/pkg/region"
	"github.com/Niutaq/Storelink/pkg/stores"

	// External utilities
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedResolver always answers code and records overrides
type fixedResolver struct {
	code      string
	overrides []string
}

func (f *fixedResolver) Resolve(_ context.Context, override string) string {
	f.overrides = append(f.overrides, override)
	if override != "" && stores.Valid(override) {
		return override
	}
	return f.code
}

// TestBuildURLProduct - product link with tag for a US visitor
func TestBuildURLProduct(t *testing.T) {
	b := NewBuilder(&fixedResolver{code: "US"})
	href, err := b.BuildURL(context.Background(), "B000123", Options{Tag: "abc"})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.com/dp/B000123?tag=abc", href)
}

// TestBuildURLSearch - search link with an explicit region
func TestBuildURLSearch(t *testing.T) {
	r := &fixedResolver{code: "US"}
	href, err := NewBuilder(r).BuildURL(context.Background(), "", Options{Search: "coffee", Region: "UK"})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.co.uk/s?k=coffee", href)
	assert.Equal(t, []string{"UK"}, r.overrides)
}

// TestBuildURLMissingIdentifier - nothing to link to
func TestBuildURLMissingIdentifier(t *testing.T) {
	b := NewBuilder(&fixedResolver{code: "UK"})
	_, err := b.BuildURL(context.Background(), "", Options{})
	assert.ErrorIs(t, err, ErrIdentifierRequired)

	_, err = b.BuildURL(context.Background(), "", Options{ForceSearch: true, Tag: "x"})
	assert.ErrorIs(t, err, ErrIdentifierRequired)
}

// TestBuildURLForceSearch - ForceSearch prefers the search text over the product
func TestBuildURLForceSearch(t *testing.T) {
	b := NewBuilder(&fixedResolver{code: "DE"})

	href, err := b.BuildURL(context.Background(), "B01", Options{Search: "tea pot", ForceSearch: true})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.de/s?k=tea+pot", href)

	href, err = b.BuildURL(context.Background(), "B01", Options{Search: "tea pot"})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.de/dp/B01", href)
}

// TestBuildURLPathAndParams - custom path, params overwrite tag
func TestBuildURLPathAndParams(t *testing.T) {
	b := NewBuilder(&fixedResolver{code: "FR"})

	href, err := b.BuildURL(context.Background(), "B02", Options{
		Path:   "gp/product",
		Tag:    "site-21",
		Params: map[string]string{"tag": "override-21", "th": "1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.fr/gp/product/B02?tag=override-21&th=1", href)
}

// TestBuildURLWithResolver - the real resolver persists the override
func TestBuildURLWithResolver(t *testing.T) {
	ctx := context.Background()
	slot := region.NewMemorySlot()
	r := region.NewResolver(slot, region.StaticSignals{Langs: []string{"ja-JP"}})
	b := NewBuilder(r)

	href, err := b.BuildURL(ctx, "B03", Options{Region: "CA"})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.ca/dp/B03", href)
	assert.Equal(t, "CA", r.Resolve(ctx, ""))
}

// TestURLFor - builds without consulting a resolver
func TestURLFor(t *testing.T) {
	jp, _ := stores.Lookup("JP")
	href, err := URLFor(jp, "", Options{Search: "matcha", Tag: "t"})
	require.NoError(t, err)
	assert.Equal(t, "https://amazon.co.jp/s?k=matcha&tag=t", href)

	_, err = URLFor(jp, "", Options{})
	assert.ErrorIs(t, err, ErrIdentifierRequired)
}

// TestParseParams - tests raw parameter parsing
func TestParseParams(t *testing.T) {
	assert.Equal(t, map[string]string{}, ParseParams(""))
	assert.Equal(t,
		map[string]string{"psc": "1", "ref": "as li", "note": "a=b", "flag": "", "bad": "%zz"},
		ParseParams("psc=1&ref=as+li&note=a%3Db&flag&=dropped&bad=%zz"),
	)
	assert.Equal(t, map[string]string{"k": "2"}, ParseParams("k=1&k=2"))
}

// TestOptionsMerge - empty fields fall back, params merge key by key
func TestOptionsMerge(t *testing.T) {
	el := Options{Tag: "el-21", Params: map[string]string{"a": "el"}}
	caller := Options{Tag: "caller-21", Region: "US", Path: "gp", Params: map[string]string{"a": "caller", "b": "caller"}}

	got := el.Merge(caller)
	assert.Equal(t, "el-21", got.Tag)
	assert.Equal(t, "US", got.Region)
	assert.Equal(t, "gp", got.Path)
	assert.Equal(t, map[string]string{"a": "el", "b": "caller"}, got.Params)
}
