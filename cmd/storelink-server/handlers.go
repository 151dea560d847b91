package main

import (
	// Standard libraries
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	// Go files
	"github.com/Niutaq/Storelink/pkg/clicks"
	"github.com/Niutaq/Storelink/pkg/enhance"
	"github.com/Niutaq/Storelink/pkg/links"
	"github.com/Niutaq/Storelink/pkg/pages"
	"github.com/Niutaq/Storelink/pkg/region"
	"github.com/Niutaq/Storelink/pkg/stores"

	// External libraries
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants
const (
	// Content-Type headers
	contentTypeHTML = "text/html; charset=utf-8"

	// visitorCookie keys the redis slot of a visitor
	visitorCookie = "storelink_vid"
	visitorMaxAge = 365 * 24 * 60 * 60

	// Error messages
	internalServerError = "Internal server error"
)

// AppState struct holds all app-wide components. Cache and DB are nil when not configured.
type AppState struct {
	Cache  redis.UniversalClient
	DB     *pgxpool.Pool
	Clicks *clicks.Recorder
	Stats  *clicks.Stats
	TTL    time.Duration
	Tag    string
	Logger *zap.Logger
}

// StoreResponse - an element of GET /api/v1/stores
type StoreResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Label  string `json:"label"`
}

// RegionResponse - a response struct for GET /api/v1/region
type RegionResponse struct {
	Region string `json:"region"`
	Label  string `json:"label"`
}

// newRouter - registers middleware and routes
func newRouter(app *AppState, middleware ...gin.HandlerFunc) *gin.Engine {
	if app.Logger == nil {
		app.Logger = zap.NewNop()
	}
	if app.Stats == nil {
		app.Stats = clicks.NewStats()
	}
	if app.Clicks == nil {
		app.Clicks = clicks.NewRecorder(app.Logger, app.Stats)
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(app.Logger))
	r.Use(middleware...)

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Next()
	})

	// Endpoints
	r.GET("/healthz", handleHealthCheck(app))
	r.GET("/go", handleRedirect(app))
	r.GET("/go/:asin", handleRedirect(app))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/stores", handleStores())
		v1.GET("/region", handleRegion(app))
		v1.GET("/url", handleURL(app))
		v1.POST("/enhance", handleEnhance(app))
		v1.GET("/stats", handleStats(app))
	}

	return r
}

// requestLogger - logs one line per request
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// --- HTTP handlers ---

// handleHealthCheck - checks the configured backends
func handleHealthCheck(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		if app.DB != nil {
			if err := app.DB.Ping(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "service": "database"})
				return
			}
		}
		if app.Cache != nil {
			if _, err := app.Cache.Ping(c.Request.Context()).Result(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "service": "cache"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// handleStores - lists every storefront
func handleStores() gin.HandlerFunc {
	return func(c *gin.Context) {
		all := stores.All()
		out := make([]StoreResponse, len(all))
		for i, s := range all {
			out[i] = StoreResponse{Code: s.Code, Name: s.Name, Domain: s.Domain, Label: stores.Label(s.Code)}
		}
		c.JSON(http.StatusOK, out)
	}
}

// handleRegion - resolves (and remembers) the visitor's storefront
func handleRegion(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := app.resolverFor(c).Resolve(c.Request.Context(), c.Query("override"))
		c.JSON(http.StatusOK, RegionResponse{Region: code, Label: stores.Label(code)})
	}
}

// handleURL - builds a link without redirecting
func handleURL(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		res, err := app.build(c, c.Query("asin"))
		if err != nil {
			respondBuildError(c, app.Logger, err)
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// handleRedirect - sends the visitor to the storefront and records the click
func handleRedirect(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		asin := c.Param("asin")
		if asin == "" {
			asin = c.Query("asin")
		}
		res, err := app.build(c, asin)
		if err != nil {
			respondBuildError(c, app.Logger, err)
			return
		}

		visitor, _ := c.Cookie(visitorCookie)
		app.Clicks.Record(clicks.Click{
			Time:    time.Now().UTC(),
			Region:  res.Region,
			ASIN:    asin,
			Search:  c.Query("search"),
			Href:    res.Href,
			Visitor: visitor,
		})
		c.Redirect(http.StatusFound, res.Href)
	}
}

// handleEnhance - rewrites every marked element and grid of the posted HTML page
func handleEnhance(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := pages.Parse(c.Request.Body)
		if errors.Is(err, pages.ErrTooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid HTML body"})
			return
		}

		ctx := c.Request.Context()
		e := enhance.NewEnhancer(app.resolverFor(c), app.Logger)
		defaults := enhance.Options{Options: app.queryOptions(c), Text: c.Query("text")}

		enhanced := e.EnhanceAll(ctx, doc, defaults)
		grids := e.RenderGridAll(ctx, doc, enhance.GridOptions{Tag: defaults.Tag, Regions: c.Query("regions")})

		var page bytes.Buffer
		if err := pages.Render(&page, doc); err != nil {
			app.Logger.Error("render page", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
			return
		}
		c.Header("X-Storelink-Enhanced", strconv.Itoa(enhanced))
		c.Header("X-Storelink-Grids", strconv.Itoa(grids))
		c.Data(http.StatusOK, contentTypeHTML, page.Bytes())
	}
}

// handleStats - click counters since start
func handleStats(app *AppState) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, app.Stats.Summary())
	}
}

// --- helpers ---

// build - builds the link described by the query string
func (app *AppState) build(c *gin.Context, asin string) (enhance.Result, error) {
	ctx := c.Request.Context()
	resolver := app.resolverFor(c)
	opts := app.queryOptions(c)

	href, err := links.NewBuilder(resolver).BuildURL(ctx, asin, opts)
	if err != nil {
		return enhance.Result{}, err
	}
	return enhance.Result{Region: resolver.Resolve(ctx, opts.Region), Href: href}, nil
}

// queryOptions - link options from the query string; tag falls back to the configured default
func (app *AppState) queryOptions(c *gin.Context) links.Options {
	opts := links.Options{
		Region: c.Query("region"),
		Search: c.Query("search"),
		Path:   c.Query("path"),
		Tag:    c.Query("tag"),
		Params: links.ParseParams(c.Query("params")),
	}
	opts.ForceSearch, _ = strconv.ParseBool(c.Query("force"))
	if opts.Tag == "" {
		opts.Tag = app.Tag
	}
	return opts
}

// resolverFor - request scoped resolver: redis slot per visitor when configured, else a cookie
func (app *AppState) resolverFor(c *gin.Context) *region.Resolver {
	signals := region.HeaderSignals{
		AcceptLanguage: c.GetHeader("Accept-Language"),
		Zone:           c.GetHeader("X-Timezone"),
	}
	if signals.Zone == "" {
		signals.Zone = c.Query("tz")
	}

	var slot region.Slot
	if app.Cache != nil {
		slot = region.NewRedisSlot(app.Cache, visitorID(c), app.TTL)
	} else {
		slot = newCookieSlot(c, app.TTL)
	}
	return region.NewResolver(slot, signals, region.WithTTL(app.TTL), region.WithLogger(app.Logger))
}

// visitorID - reads the visitor cookie, issuing a new id when missing
func visitorID(c *gin.Context) string {
	if id, err := c.Cookie(visitorCookie); err == nil && id != "" {
		return id
	}
	if id, ok := c.Get(visitorCookie); ok {
		return id.(string)
	}
	id := uuid.NewString()
	c.Set(visitorCookie, id)
	c.SetCookie(visitorCookie, id, visitorMaxAge, "/", "", false, true)
	return id
}

// respondBuildError - 400 for a missing identifier, 500 otherwise
func respondBuildError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, links.ErrIdentifierRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error("build link", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": internalServerError})
}

// cookieSlot keeps the decision in the visitor's "amazonStoreRegion" cookie.
// Writes are visible to later reads within the same request.
type cookieSlot struct {
	c      *gin.Context
	maxAge int
}

// newCookieSlot - binds the slot to the request
func newCookieSlot(c *gin.Context, ttl time.Duration) *cookieSlot {
	return &cookieSlot{c: c, maxAge: int(ttl / time.Second)}
}

// Get returns the value written during this request, or the request cookie
func (s *cookieSlot) Get(_ context.Context) (string, error) {
	if v, ok := s.c.Get(region.CacheKey); ok {
		return v.(string), nil
	}
	v, err := s.c.Cookie(region.CacheKey)
	if errors.Is(err, http.ErrNoCookie) {
		return "", region.ErrSlotEmpty
	}
	if err != nil {
		return "", fmt.Errorf("read region cookie: %w", err)
	}
	return v, nil
}

// Set stores the value for this request and sends it back as a cookie
func (s *cookieSlot) Set(_ context.Context, value string) error {
	s.c.Set(region.CacheKey, value)
	s.c.SetCookie(region.CacheKey, value, s.maxAge, "/", "", false, false)
	return nil
}
