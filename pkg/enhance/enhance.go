package enhance

import (
	// Standard libraries
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	// Go files
	"github.com/Niutaq/Storelink/pkg/links"
	"github.com/Niutaq/Storelink/pkg/stores"

	// External utilities
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Constants
const (
	// Declarative markers read from page elements
	AttrASIN         = "data-amazon-asin"
	AttrRegion       = "data-amazon-region"
	AttrTag          = "data-amazon-tag"
	AttrPath         = "data-amazon-path"
	AttrText         = "data-amazon-text"
	AttrSearch       = "data-amazon-search"
	AttrParams       = "data-amazon-params"
	AttrRegions      = "data-amazon-regions"
	AttrCurrentFirst = "data-amazon-current-first"
	AttrLinkClass    = "data-amazon-link-class"
	AttrGrid         = "data-amazon-grid"

	// AttrStore marks each generated grid link with its region code
	AttrStore = "data-store"

	buyNowPrefix = "Buy now on "

	// Grid containers are left to the grid pass: an onclick on the container would also
	// fire for every grid link inside it.
	enhanceSelector = "[" + AttrASIN + "]:not([" + AttrGrid + "]), [" + AttrSearch + "]:not([" + AttrGrid + "])"
	gridSelector    = "[" + AttrGrid + "]"
)

// voidElements cannot have children, so they never receive default text
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true, "img": true,
	"input": true, "link": true, "meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Options - caller defaults for Enhance; element attributes take priority field by field
type Options struct {
	links.Options
	// Text is the visible text for elements that have none
	Text string
}

// Result describes an enhanced element
type Result struct {
	Region string `json:"region"`
	Href   string `json:"href"`
}

// Enhancer rewrites marked elements of an HTML document into storefront links.
type Enhancer struct {
	resolver links.RegionResolver
	builder  *links.Builder
	logger   *zap.Logger
}

// NewEnhancer - creates an enhancer; a nil logger is replaced by a no-op one
func NewEnhancer(resolver links.RegionResolver, logger *zap.Logger) *Enhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enhancer{
		resolver: resolver,
		builder:  links.NewBuilder(resolver),
		logger:   logger,
	}
}

// Enhance finds the first element matching selector and enhances it.
// A selector that matches nothing is a silent no-op.
func (e *Enhancer) Enhance(ctx context.Context, doc *goquery.Document, selector, productID string, opts Options) (*Result, bool) {
	return e.EnhanceSelection(ctx, doc.Find(selector), productID, opts)
}

// EnhanceSelection enhances the first element of sel. It returns false, leaving the
// element untouched, when no link can be built.
//
// Anchors get href, target and rel. Other elements get an onclick handler that replaces
// any onclick already present. Empty elements get the default text; inputs get it as their
// value and other void elements get none.
func (e *Enhancer) EnhanceSelection(ctx context.Context, sel *goquery.Selection, productID string, opts Options) (*Result, bool) {
	if sel == nil || sel.Length() == 0 {
		return nil, false
	}
	el := sel.First()

	final := elementOptions(el).Merge(opts.Options)
	text := firstNonEmpty(attr(el, AttrText), opts.Text)
	id := firstNonEmpty(productID, attr(el, AttrASIN))

	href, err := e.builder.BuildURL(ctx, id, final)
	if errors.Is(err, links.ErrIdentifierRequired) && final.Search != "" {
		final.ForceSearch = true
		href, err = e.builder.BuildURL(ctx, "", final)
	}
	if err != nil {
		e.logger.Debug("element not enhanced", zap.String("element", goquery.NodeName(el)), zap.Error(err))
		return nil, false
	}

	info := &Result{Region: e.resolver.Resolve(ctx, final.Region), Href: href}

	name := goquery.NodeName(el)
	if name == "a" {
		el.SetAttr("href", href)
		el.SetAttr("target", "_blank")
		el.SetAttr("rel", "noopener")
	} else {
		el.SetAttr("onclick", openScript(href))
	}

	label := firstNonEmpty(text, buyNowPrefix+stores.Label(info.Region))
	switch {
	case name == "input":
		if attr(el, "value") == "" {
			el.SetAttr("value", label)
		}
	case voidElements[name]:
	case strings.TrimSpace(el.Text()) == "":
		el.SetText(label)
	}
	el.SetAttr(AttrRegion, info.Region)

	return info, true
}

// EnhanceAll enhances every element carrying a product or search marker, grid containers excepted.
// Elements are independent: one that cannot be enhanced does not stop the rest.
func (e *Enhancer) EnhanceAll(ctx context.Context, doc *goquery.Document, defaults Options) int {
	enhanced := 0
	doc.Find(enhanceSelector).Each(func(i int, s *goquery.Selection) {
		if _, ok := e.EnhanceSelection(ctx, s, attr(s, AttrASIN), defaults); ok {
			enhanced++
		}
	})
	e.logger.Debug("enhanced elements", zap.Int("count", enhanced))
	return enhanced
}

// elementOptions - link options declared on the element itself
func elementOptions(el *goquery.Selection) links.Options {
	return links.Options{
		Region: attr(el, AttrRegion),
		Tag:    attr(el, AttrTag),
		Path:   attr(el, AttrPath),
		Search: attr(el, AttrSearch),
		Params: links.ParseParams(attr(el, AttrParams)),
	}
}

// openScript - inline click handler opening href in a new tab without opener
func openScript(href string) string {
	return fmt.Sprintf("window.open(%s,'_blank','noopener')", strconv.Quote(href))
}

// attr - attribute value or "" when absent
func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return v
}

// firstNonEmpty - first argument that is not empty
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
