package main

import (
	// Standard libraries
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	// Go files
	"github.com/Niutaq/Storelink/pkg/config"
	"github.com/Niutaq/Storelink/pkg/enhance"
	"github.com/Niutaq/Storelink/pkg/links"
	"github.com/Niutaq/Storelink/pkg/logging"
	"github.com/Niutaq/Storelink/pkg/pages"
	"github.com/Niutaq/Storelink/pkg/region"
	"github.com/Niutaq/Storelink/pkg/stores"

	// External libraries
	"github.com/PuerkitoBio/goquery"
	"github.com/minio/cli"
	"go.uber.org/zap"
)

// regionList - accepted codes for flag usage text
var regionList = strings.Join(stores.Codes(), ", ")

var enhanceCmd = cli.Command{
	Name:   "enhance",
	Usage:  "Rewrite the marked elements and grids of an HTML page.",
	Action: mainEnhance,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "in",
			Usage: "HTML file to read (default: stdin)",
		},
		cli.StringFlag{
			Name:  "url",
			Usage: "Fetch the page from this address instead of --in",
		},
		cli.StringFlag{
			Name:  "out",
			Usage: "File to write (default: stdout)",
		},
		cli.StringFlag{
			Name:  "tag",
			Usage: "Affiliate tag for elements without their own",
		},
		cli.StringFlag{
			Name:  "region",
			Usage: "Region override for elements without their own: " + regionList,
		},
		cli.StringFlag{
			Name:  "defaults",
			Usage: "JSON file with page defaults",
		},
	},
}

var regionCmd = cli.Command{
	Name:   "region",
	Usage:  "Print the region chosen for this machine.",
	Action: mainRegion,
	Flags: []cli.Flag{
		cli.StringFlag{
			Name:  "override",
			Usage: "Force and remember a region code: " + regionList,
		},
	},
}

var urlCmd = cli.Command{
	Name:   "url",
	Usage:  "Print a product or search link for this machine's region.",
	Action: mainURL,
	Flags: []cli.Flag{
		cli.StringFlag{Name: "asin", Usage: "Product identifier"},
		cli.StringFlag{Name: "search", Usage: "Search text"},
		cli.BoolFlag{Name: "force", Usage: "Build a search link even when --asin is set"},
		cli.StringFlag{Name: "tag", Usage: "Affiliate tag"},
		cli.StringFlag{Name: "region", Usage: "Region override: " + regionList},
		cli.StringFlag{Name: "path", Usage: "Product path segment (default: dp)"},
		cli.StringFlag{Name: "params", Usage: "Extra query parameters, k=v&k2=v2"},
	},
}

var storesCmd = cli.Command{
	Name:   "stores",
	Usage:  "List the supported storefronts.",
	Action: mainStores,
}

// pageStats - counts reported after enhancing a page
type pageStats struct {
	Enhanced int
	Grids    int
}

// newResolver - file backed resolver using the local environment as signals
func newResolver(c *cli.Context, ttl time.Duration) (*region.Resolver, *zap.Logger, error) {
	logger, err := logging.New(c.GlobalString("log-level"), false)
	if err != nil {
		return nil, nil, cli.NewExitError(err.Error(), 2)
	}
	opts := []region.Option{region.WithLogger(logger)}
	if ttl > 0 {
		opts = append(opts, region.WithTTL(ttl))
	}
	slot := region.NewFileSlot(c.GlobalString("cache"))
	return region.NewResolver(slot, region.EnvSignals{}, opts...), logger, nil
}

func mainEnhance(c *cli.Context) error {
	defaults := config.PageDefaults{}
	if path := c.String("defaults"); path != "" {
		var err error
		if defaults, err = config.LoadDefaults(path); err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
	}
	if tag := c.String("tag"); tag != "" {
		defaults.Tag = tag
	}
	if code := c.String("region"); code != "" {
		defaults.Region = code
	}

	resolver, logger, err := newResolver(c, defaults.CacheTTL.Duration)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	var doc *goquery.Document
	switch {
	case c.String("url") != "":
		doc, err = pages.Fetch(ctx, c.String("url"))
	case c.String("in") != "":
		var f *os.File
		if f, err = os.Open(c.String("in")); err == nil {
			defer f.Close()
			doc, err = pages.Parse(f)
		}
	default:
		doc, err = pages.Parse(os.Stdin)
	}
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
	}

	var out io.Writer = os.Stdout
	if path := c.String("out"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
		}
		defer f.Close()
		out = f
	}

	stats, err := enhancePage(ctx, enhance.NewEnhancer(resolver, logger), doc, out, defaults)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
	}
	logger.Info("page enhanced", zap.Int("elements", stats.Enhanced), zap.Int("grids", stats.Grids))
	return nil
}

// enhancePage - rewrites elements then grids, and writes the page to out
func enhancePage(ctx context.Context, e *enhance.Enhancer, doc *goquery.Document, out io.Writer, defaults config.PageDefaults) (pageStats, error) {
	stats := pageStats{
		Enhanced: e.EnhanceAll(ctx, doc, defaults.EnhanceOptions()),
		Grids:    e.RenderGridAll(ctx, doc, defaults.GridOptions()),
	}
	return stats, pages.Render(out, doc)
}

func mainRegion(c *cli.Context) error {
	resolver, logger, err := newResolver(c, 0)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	code := resolver.Resolve(context.Background(), c.String("override"))
	fmt.Fprintf(c.App.Writer, "%s\t%s\n", code, stores.Label(code))
	return nil
}

func mainURL(c *cli.Context) error {
	resolver, logger, err := newResolver(c, 0)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	opts := links.Options{
		Region:      c.String("region"),
		Search:      c.String("search"),
		ForceSearch: c.Bool("force"),
		Path:        c.String("path"),
		Tag:         c.String("tag"),
		Params:      links.ParseParams(c.String("params")),
	}
	href, err := links.NewBuilder(resolver).BuildURL(context.Background(), c.String("asin"), opts)
	if errors.Is(err, links.ErrIdentifierRequired) {
		return cli.NewExitError("Error: --asin or --search is required", 1)
	}
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("Error: %v", err), 1)
	}
	fmt.Fprintln(c.App.Writer, href)
	return nil
}

func mainStores(c *cli.Context) error {
	return writeStores(c.App.Writer)
}

// writeStores - one aligned row per storefront
func writeStores(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, s := range stores.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", s.Code, stores.Label(s.Code), s.Domain)
	}
	return tw.Flush()
}
