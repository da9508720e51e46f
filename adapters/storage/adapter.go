// Package storage provides the quote ledger: persisted service-charge breakdowns.
// Supports multiple backends: memory, SQLite, Redis.
package storage

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"escrow-charge/core/charge"
	"escrow-charge/core/types"
	"escrow-charge/internal/config"
	"escrow-charge/internal/errors"
)

// Store is the storage interface
type Store interface {
	// Save stores a quote, assigning ID and CreatedAt when empty
	Save(ctx context.Context, quote *Quote) error

	// Get retrieves a quote by ID
	Get(ctx context.Context, id string) (*Quote, error)

	// List lists a project's quotes, oldest first
	List(ctx context.Context, projectID string) ([]*Quote, error)

	// Close closes the store
	Close() error
}

// Quote is a stored breakdown for one milestone payment
type Quote struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"project_id"`
	MilestoneID string           `json:"milestone_id"`
	Currency    types.Currency   `json:"currency"`
	Breakdown   charge.Breakdown `json:"breakdown"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Open creates the backend selected by cfg
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return NewMemoryStore(), nil
	case config.BackendSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		return OpenRedis(ctx, RedisOptions{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
			TTL:  time.Duration(cfg.QuoteTTLSeconds) * time.Second,
		})
	default:
		return nil, errors.Newf(errors.TypeConfig, "unknown storage backend %q", cfg.Backend)
	}
}

// prepare validates a quote and fills generated fields
func prepare(quote *Quote) error {
	if quote == nil {
		return errors.Input("quote is required")
	}
	quote.ProjectID = strings.TrimSpace(quote.ProjectID)
	quote.MilestoneID = strings.TrimSpace(quote.MilestoneID)
	if quote.ProjectID == "" {
		return errors.Input("project id is required")
	}
	if quote.MilestoneID == "" {
		return errors.Input("milestone id is required")
	}
	if quote.ID == "" {
		quote.ID = uuid.New().String()
	}
	if quote.CreatedAt.IsZero() {
		quote.CreatedAt = time.Now()
	}
	// millisecond precision matches what every backend can round-trip
	quote.CreatedAt = quote.CreatedAt.UTC().Truncate(time.Millisecond)
	if quote.Currency == "" {
		quote.Currency = types.CurrencyUSD
	}
	return nil
}

func sortQuotes(quotes []*Quote) {
	slices.SortStableFunc(quotes, func(a, b *Quote) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// MemoryStore is an in-memory storage backend
type MemoryStore struct {
	quotes map[string]*Quote
	mu     sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string]*Quote),
	}
}

func (s *MemoryStore) Save(ctx context.Context, quote *Quote) error {
	if err := prepare(quote); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *quote
	s.quotes[quote.ID] = &copied
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	quote, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFound("quote", id)
	}
	copied := *quote
	return &copied, nil
}

func (s *MemoryStore) List(ctx context.Context, projectID string) ([]*Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var quotes []*Quote
	for _, quote := range s.quotes {
		if quote.ProjectID == projectID {
			copied := *quote
			quotes = append(quotes, &copied)
		}
	}
	sortQuotes(quotes)
	return quotes, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
