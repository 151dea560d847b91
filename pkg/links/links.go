package links

import (
	// Standard libraries
	"context"
	"errors"
	"net/url"
	"strings"

	// Go files
	"github.com/Niutaq/Storelink/pkg/stores"
)

// Constants
const (
	// DefaultPath is the product page segment, as in https://amazon.com/dp/<id>
	DefaultPath = "dp"

	searchPath  = "s"
	searchParam = "k"
	tagParam    = "tag"
)

// ErrIdentifierRequired is returned when neither a product id nor usable search text is given
var ErrIdentifierRequired = errors.New("product identifier is required when not using search fallback")

// RegionResolver picks the storefront for a call; override may be empty.
type RegionResolver interface {
	Resolve(ctx context.Context, override string) string
}

// Options - per-call link settings. Empty fields mean "not set".
type Options struct {
	// Region is passed to the resolver as override
	Region string
	// Search builds a search results link when there is no product or ForceSearch is set
	Search      string
	ForceSearch bool
	// Path replaces DefaultPath in product links
	Path string
	// Tag is the affiliate tag, sent as ?tag=
	Tag string
	// Params are applied last and overwrite same-named parameters, including tag and k
	Params map[string]string
}

// Merge returns o with every empty field taken from fallback. Params are merged key by key, o wins.
func (o Options) Merge(fallback Options) Options {
	out := o
	if out.Region == "" {
		out.Region = fallback.Region
	}
	if out.Search == "" {
		out.Search = fallback.Search
	}
	if out.Path == "" {
		out.Path = fallback.Path
	}
	if out.Tag == "" {
		out.Tag = fallback.Tag
	}
	out.ForceSearch = o.ForceSearch || fallback.ForceSearch
	out.Params = MergeParams(fallback.Params, o.Params)
	return out
}

// Builder turns product ids and options into absolute storefront URLs.
type Builder struct {
	resolver RegionResolver
}

// NewBuilder - creates a builder bound to resolver
func NewBuilder(resolver RegionResolver) *Builder {
	return &Builder{resolver: resolver}
}

// BuildURL resolves the region (opts.Region as override) and builds the link.
func (b *Builder) BuildURL(ctx context.Context, productID string, opts Options) (string, error) {
	if productID == "" && opts.Search == "" {
		return "", ErrIdentifierRequired
	}

	code := b.resolver.Resolve(ctx, opts.Region)
	store, ok := stores.Lookup(code)
	if !ok {
		store = stores.Default()
	}
	return URLFor(store, productID, opts)
}

// URLFor builds the link for an already chosen store without touching the resolver.
func URLFor(store stores.Store, productID string, opts Options) (string, error) {
	u := &url.URL{Scheme: "https", Host: store.Domain}
	q := url.Values{}

	switch {
	case opts.Search != "" && (productID == "" || opts.ForceSearch):
		u.Path = "/" + searchPath
		q.Set(searchParam, opts.Search)
	case productID != "":
		path := opts.Path
		if path == "" {
			path = DefaultPath
		}
		u.Path = "/" + strings.Trim(path, "/") + "/" + productID
	default:
		return "", ErrIdentifierRequired
	}

	if opts.Tag != "" {
		q.Set(tagParam, opts.Tag)
	}
	for k, v := range opts.Params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// MergeParams copies base then overlay into a new map; overlay wins on conflicts.
func MergeParams(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// ParseParams reads "key=value&key=value". Keys and values are URL-decoded, "+" reads as a space,
// empty keys are dropped and a part that fails to decode is kept as written.
func ParseParams(raw string) map[string]string {
	out := map[string]string{}
	if raw == "" {
		return out
	}
	for _, kv := range strings.Split(raw, "&") {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		out[decode(key)] = decode(value)
	}
	return out
}

// decode - query unescape with the raw text as fallback
func decode(s string) string {
	if v, err := url.QueryUnescape(s); err == nil {
		return v
	}
	return s
}
