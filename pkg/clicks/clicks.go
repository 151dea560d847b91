package clicks

import (
	// Standard libraries
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	// External utilities
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Constants
const (
	// Subject carries one JSON Click per outbound redirect
	Subject = "storelink.clicks"

	saveTimeout = 5 * time.Second
)

// Click - one outbound redirect
type Click struct {
	Time    time.Time `json:"time"`
	Region  string    `json:"region"`
	ASIN    string    `json:"asin,omitempty"`
	Search  string    `json:"search,omitempty"`
	Href    string    `json:"href"`
	Visitor string    `json:"visitor,omitempty"`
}

// Sink stores or forwards a click
type Sink interface {
	Save(ctx context.Context, c Click) error
}

// Recorder fans clicks out to its sinks in the background.
type Recorder struct {
	sinks  []Sink
	logger *zap.Logger
	wg     sync.WaitGroup
}

// NewRecorder - nil sinks are skipped, so optional backends can be passed unconditionally
func NewRecorder(logger *zap.Logger, sinks ...Sink) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{logger: logger}
	for _, s := range sinks {
		if s != nil {
			r.sinks = append(r.sinks, s)
		}
	}
	return r
}

// Enabled reports whether any sink is configured
func (r *Recorder) Enabled() bool {
	return len(r.sinks) > 0
}

// Record saves c to every sink without blocking the caller. Failures are logged.
func (r *Recorder) Record(c Click) {
	if !r.Enabled() {
		return
	}
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		for _, s := range r.sinks {
			if err := s.Save(ctx, c); err != nil {
				r.logger.Warn("click not recorded", zap.String("href", c.Href), zap.Error(err))
			}
		}
	}()
}

// Wait blocks until every pending Record has finished
func (r *Recorder) Wait() {
	r.wg.Wait()
}

// Archive keeps clicks in the Postgres "clicks" table.
type Archive struct {
	db *pgxpool.Pool
}

// NewArchive - wraps an open pool
func NewArchive(db *pgxpool.Pool) *Archive {
	return &Archive{db: db}
}

// Save inserts one row
func (a *Archive) Save(ctx context.Context, c Click) error {
	_, err := a.db.Exec(ctx,
		"INSERT INTO clicks (time, region, asin, search, href, visitor) VALUES ($1, $2, $3, $4, $5, $6)",
		c.Time, c.Region, c.ASIN, c.Search, c.Href, c.Visitor,
	)
	if err != nil {
		return fmt.Errorf("archive click: %w", err)
	}
	return nil
}

// InitSchema creates the clicks table when missing
func InitSchema(ctx context.Context, db *pgxpool.Pool) error {
	const schema = `
    CREATE TABLE IF NOT EXISTS clicks (
        time TIMESTAMPTZ NOT NULL,
        region VARCHAR(4) NOT NULL,
        asin VARCHAR(32) NOT NULL DEFAULT '',
        search TEXT NOT NULL DEFAULT '',
        href TEXT NOT NULL,
        visitor VARCHAR(64) NOT NULL DEFAULT ''
    );
    CREATE INDEX IF NOT EXISTS clicks_time_idx ON clicks (time);
    `
	_, err := db.Exec(ctx, schema)
	return err
}

// ConnectDB - connecting to the database
func ConnectDB(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("can't create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("couldn't ping pool connection: %w", err)
	}
	return pool, nil
}

// Publisher forwards clicks to NATS.
type Publisher struct {
	nc      *nats.Conn
	subject string
}

// NewPublisher - publishes on Subject
func NewPublisher(nc *nats.Conn) *Publisher {
	return &Publisher{nc: nc, subject: Subject}
}

// Save publishes c as JSON
func (p *Publisher) Save(_ context.Context, c Click) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode click: %w", err)
	}
	if err := p.nc.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("publish click: %w", err)
	}
	return nil
}

// ConnectNATS - connecting to NATS
func ConnectNATS(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url, nats.Name("storelink"), nats.Timeout(3*time.Second))
	if err != nil {
		return nil, fmt.Errorf("couldn't connect to NATS: %w", err)
	}
	return nc, nil
}
