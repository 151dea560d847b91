package enhance

import (
	// Standard libraries
	"context"
	"testing"

	// Go files
	"github.com/Niutaq/Storelink/pkg/links"
	"github.com/Niutaq/Storelink/pkg/region"

	// External utilities
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridCodes - data-store values of the rendered links, in order
func gridCodes(sel *goquery.Selection) []string {
	var codes []string
	sel.Find("a").Each(func(_ int, a *goquery.Selection) {
		codes = append(codes, attr(a, AttrStore))
	})
	return codes
}

// TestRenderGridCurrentFirst - allow-list with the current region first
func TestRenderGridCurrentFirst(t *testing.T) {
	doc := parse(t, `<div id="g" data-amazon-asin="B000123" data-amazon-regions="US,UK"><p>old</p></div>`)
	e, _ := newTestEnhancer("en-GB")

	yes := true
	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{CurrentFirst: &yes}))

	g := doc.Find("#g")
	assert.Equal(t, []string{"UK", "US"}, gridCodes(g))
	assert.Equal(t, 0, g.Find("p").Length())

	first := g.Find("a").First()
	assert.Equal(t, "https://amazon.co.uk/dp/B000123", attr(first, "href"))
	assert.Equal(t, "Amazon UK", first.Text())
	assert.Equal(t, "_blank", attr(first, "target"))
	assert.Equal(t, "noopener", attr(first, "rel"))
}

// TestRenderGridCurrentInMiddle - current region jumps ahead of the alphabet
func TestRenderGridCurrentInMiddle(t *testing.T) {
	doc := parse(t, `<div id="g" data-amazon-asin="B1" data-amazon-regions=" de, us ,fr "></div>`)
	e, _ := newTestEnhancer("en-US")

	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{}))
	assert.Equal(t, []string{"US", "DE", "FR"}, gridCodes(doc.Find("#g")))
}

// TestRenderGridAlphabetical - the attribute "false" disables current-first
func TestRenderGridAlphabetical(t *testing.T) {
	doc := parse(t, `<div id="g" data-amazon-asin="B1" data-amazon-regions="US,UK,DE" data-amazon-current-first="false"></div>`)
	e, _ := newTestEnhancer("en-US")

	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{}))
	assert.Equal(t, []string{"DE", "UK", "US"}, gridCodes(doc.Find("#g")))
}

// TestRenderGridAllStores - no allow-list lists every storefront
func TestRenderGridAllStores(t *testing.T) {
	doc := parse(t, `<ul id="g"></ul>`)
	e, _ := newTestEnhancer("ja")

	no := false
	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{
		Search:       "green tea",
		Tag:          "t-22",
		LinkClass:    "store-link",
		NewTab:       &no,
		CurrentFirst: &no,
	}))

	g := doc.Find("#g")
	assert.Equal(t, []string{"AU", "BR", "CA", "DE", "ES", "FR", "IN", "IT", "JP", "MX", "NL", "UK", "US"}, gridCodes(g))

	jp := g.Find(`a[data-store="JP"]`)
	assert.Equal(t, "https://amazon.co.jp/s?k=green+tea&tag=t-22", attr(jp, "href"))
	assert.Equal(t, "store-link", attr(jp, "class"))
	assert.Equal(t, "Amazon Japan", jp.Text())
	_, hasTarget := jp.Attr("target")
	assert.False(t, hasTarget)
}

// TestRenderGridOptionsWin - caller options beat attributes for the grid
func TestRenderGridOptionsWin(t *testing.T) {
	doc := parse(t, `<div id="g" data-amazon-asin="ATTR" data-amazon-tag="attr-21" data-amazon-regions="US"></div>`)
	e, _ := newTestEnhancer()

	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{ProductID: "OPT", Tag: "opt-21"}))
	assert.Equal(t, "https://amazon.com/dp/OPT?tag=opt-21", attr(doc.Find("#g a"), "href"))
}

// TestRenderGridKeepsCachedRegion - rendering links for every store does not move the visitor
func TestRenderGridKeepsCachedRegion(t *testing.T) {
	doc := parse(t, `<div id="g" data-amazon-asin="B1"></div>`)
	e, r := newTestEnhancer("nl-NL")

	require.NoError(t, e.RenderGrid(context.Background(), doc, "#g", GridOptions{}))
	assert.Equal(t, "NL", r.Resolve(context.Background(), ""))
	assert.Equal(t, "NL", gridCodes(doc.Find("#g"))[0])
}

// TestRenderGridNoIdentifier - nothing changes and the error is reported
func TestRenderGridNoIdentifier(t *testing.T) {
	doc := parse(t, `<div id="g"><p>keep</p></div>`)
	e, _ := newTestEnhancer()

	err := e.RenderGrid(context.Background(), doc, "#g", GridOptions{})
	assert.ErrorIs(t, err, links.ErrIdentifierRequired)
	assert.Equal(t, "keep", doc.Find("#g p").Text())

	assert.NoError(t, e.RenderGrid(context.Background(), doc, "#missing", GridOptions{ProductID: "B1"}))
}

// TestRenderGridAll - grids render independently
func TestRenderGridAll(t *testing.T) {
	doc := parse(t, `
		<div class="grid" data-amazon-grid data-amazon-asin="B1" data-amazon-regions="CA"></div>
		<div class="grid" data-amazon-grid></div>
		<div class="grid" data-amazon-grid data-amazon-search="mug" data-amazon-regions="MX"></div>`)
	r := region.NewResolver(region.NewMemorySlot(), nil)
	e := NewEnhancer(r, nil)

	assert.Equal(t, 2, e.RenderGridAll(context.Background(), doc, GridOptions{Tag: "all-21"}))
	grids := doc.Find(".grid")
	assert.Equal(t, "https://amazon.ca/dp/B1?tag=all-21", attr(grids.Eq(0).Find("a"), "href"))
	assert.Equal(t, 0, grids.Eq(1).Find("a").Length())
	assert.Equal(t, "https://amazon.com.mx/s?k=mug&tag=all-21", attr(grids.Eq(2).Find("a"), "href"))
}
