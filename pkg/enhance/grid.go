package enhance

import (
	// Standard libraries
	"context"
	"sort"
	"strings"

	// Go files
	"github.com/Niutaq/Storelink/pkg/links"
	"github.com/Niutaq/Storelink/pkg/stores"

	// External utilities
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// GridOptions - settings for RenderGrid. Unlike Options, set fields here win over the
// element's attributes.
type GridOptions struct {
	ProductID string
	Search    string
	Tag       string
	// Regions is a comma separated allow-list, e.g. "US,uk"
	Regions string
	// CurrentFirst defaults to true; the attribute value "false" disables it
	CurrentFirst *bool
	LinkClass    string
	// NewTab defaults to true
	NewTab *bool
}

// gridSettings - options after attributes and defaults are applied
type gridSettings struct {
	productID    string
	search       string
	tag          string
	include      map[string]bool
	currentFirst bool
	linkClass    string
	newTab       bool
}

// RenderGrid renders one storefront link per region into the first element matching selector.
func (e *Enhancer) RenderGrid(ctx context.Context, doc *goquery.Document, selector string, opts GridOptions) error {
	return e.RenderGridSelection(ctx, doc.Find(selector), opts)
}

// RenderGridSelection replaces the content of the first element of sel with storefront links.
// An empty selection is a no-op. Without a product or search text nothing is changed and
// links.ErrIdentifierRequired is returned.
func (e *Enhancer) RenderGridSelection(ctx context.Context, sel *goquery.Selection, opts GridOptions) error {
	if sel == nil || sel.Length() == 0 {
		return nil
	}
	el := sel.First()
	cfg := gridConfig(el, opts)
	if cfg.productID == "" && cfg.search == "" {
		return links.ErrIdentifierRequired
	}

	current := e.resolver.Resolve(ctx, "")
	entries := orderStores(filterStores(cfg.include), current, cfg.currentFirst)

	anchors := make([]*html.Node, 0, len(entries))
	for _, s := range entries {
		var (
			href string
			err  error
		)
		if cfg.search != "" {
			href, err = links.URLFor(s, "", links.Options{Search: cfg.search, Tag: cfg.tag})
		} else {
			href, err = links.URLFor(s, cfg.productID, links.Options{Tag: cfg.tag})
		}
		if err != nil {
			return err
		}
		anchors = append(anchors, gridLink(s, href, cfg))
	}

	el.Empty()
	el.AppendNodes(anchors...)
	e.logger.Debug("grid rendered", zap.Int("links", len(anchors)), zap.String("current", current))
	return nil
}

// RenderGridAll renders every element carrying the grid marker and returns how many succeeded.
func (e *Enhancer) RenderGridAll(ctx context.Context, doc *goquery.Document, defaults GridOptions) int {
	rendered := 0
	doc.Find(gridSelector).Each(func(i int, s *goquery.Selection) {
		if err := e.RenderGridSelection(ctx, s, defaults); err != nil {
			e.logger.Debug("grid not rendered", zap.Int("index", i), zap.Error(err))
			return
		}
		rendered++
	})
	return rendered
}

// gridConfig - merges options over attributes
func gridConfig(el *goquery.Selection, opts GridOptions) gridSettings {
	cfg := gridSettings{
		productID:    firstNonEmpty(opts.ProductID, attr(el, AttrASIN)),
		search:       firstNonEmpty(opts.Search, attr(el, AttrSearch)),
		tag:          firstNonEmpty(opts.Tag, attr(el, AttrTag)),
		include:      parseRegions(firstNonEmpty(opts.Regions, attr(el, AttrRegions))),
		currentFirst: attr(el, AttrCurrentFirst) != "false",
		linkClass:    firstNonEmpty(opts.LinkClass, attr(el, AttrLinkClass)),
		newTab:       true,
	}
	if opts.CurrentFirst != nil {
		cfg.currentFirst = *opts.CurrentFirst
	}
	if opts.NewTab != nil {
		cfg.newTab = *opts.NewTab
	}
	return cfg
}

// parseRegions - "us, UK" becomes {US, UK}; blank means no filter
func parseRegions(raw string) map[string]bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	include := map[string]bool{}
	for _, code := range strings.Split(raw, ",") {
		include[stores.Normalize(code)] = true
	}
	return include
}

// filterStores - storefronts in the allow-list, all of them when it is nil
func filterStores(include map[string]bool) []stores.Store {
	all := stores.All()
	if include == nil {
		return all
	}
	out := all[:0]
	for _, s := range all {
		if include[s.Code] {
			out = append(out, s)
		}
	}
	return out
}

// orderStores - alphabetical by code, optionally with current moved to the front
func orderStores(list []stores.Store, current string, currentFirst bool) []stores.Store {
	sort.SliceStable(list, func(i, j int) bool {
		if currentFirst {
			if list[i].Code == current {
				return list[j].Code != current
			}
			if list[j].Code == current {
				return false
			}
		}
		return list[i].Code < list[j].Code
	})
	return list
}

// gridLink - builds <a href=... data-store=...>Amazon Name</a>
func gridLink(s stores.Store, href string, cfg gridSettings) *html.Node {
	a := &html.Node{
		Type:     html.ElementNode,
		Data:     "a",
		DataAtom: atom.A,
		Attr:     []html.Attribute{{Key: "href", Val: href}},
	}
	if cfg.newTab {
		a.Attr = append(a.Attr,
			html.Attribute{Key: "target", Val: "_blank"},
			html.Attribute{Key: "rel", Val: "noopener"},
		)
	}
	if cfg.linkClass != "" {
		a.Attr = append(a.Attr, html.Attribute{Key: "class", Val: cfg.linkClass})
	}
	a.Attr = append(a.Attr, html.Attribute{Key: AttrStore, Val: s.Code})
	a.AppendChild(&html.Node{Type: html.TextNode, Data: stores.Label(s.Code)})
	return a
}
