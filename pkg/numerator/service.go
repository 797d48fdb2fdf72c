// Package numerator provides sequential document code allocation.
// Codes are monotonic per tenant per document kind and survive concurrent
// creates: the strict strategy serializes on a single UPSERT ... RETURNING.
package numerator

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"daftar/internal/core/id"
)

// Strategy defines the code generation strategy.
type Strategy int

const (
	// StrategyStrict uses UPSERT ... RETURNING for every code.
	// Guarantees sequential codes without gaps.
	// Slower, suitable for invoices and accounting documents.
	StrategyStrict Strategy = iota

	// StrategyCached allocates ranges of numbers in memory.
	// Much faster, but may produce gaps if application restarts.
	// Suitable for non-accounting sequences.
	StrategyCached
)

// Options configuration for code generation.
type Options struct {
	// Strategy to use for code generation
	Strategy Strategy
	// RangeSize is the number of IDs to allocate at once in Cached strategy.
	// Default is 50.
	RangeSize int64
}

// DefaultOptions returns standard options (Strict).
func DefaultOptions() *Options {
	return &Options{
		Strategy: StrategyStrict,
	}
}

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Config holds code formatting configuration.
type Config struct {
	// Prefix added to all codes (e.g., "INV", "PIN")
	Prefix string

	// PadWidth is the minimum number width (default 5)
	PadWidth int

	// ResetPeriod: "year", "month", "never"
	ResetPeriod string
}

// DefaultConfig returns defaults producing codes like INV-00001.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		PadWidth:    5,
		ResetPeriod: "never",
	}
}

type cachedRange struct {
	current int64
	max     int64
}

// Service provides document code allocation.
// Safe for concurrent use; the in-memory range cache is keyed per tenant.
type Service struct {
	querier Querier

	cacheMu sync.Mutex
	ranges  map[string]*cachedRange
}

// New creates a new numerator service.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		ranges:  make(map[string]*cachedRange),
	}
}

// NextCode allocates the next document code for a tenant+kind sequence.
// Pattern: PREFIX-XXXXX (e.g., INV-00001).
func (s *Service) NextCode(ctx context.Context, tenantID id.ID, cfg Config, opts *Options, period time.Time) (string, error) {
	if s == nil {
		return "", fmt.Errorf("numerator service is not initialized")
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	key := s.buildKey(cfg, period)

	var num int64
	var err error
	switch opts.Strategy {
	case StrategyCached:
		num, err = s.nextCached(ctx, tenantID, key, opts)
	case StrategyStrict:
		fallthrough
	default:
		num, err = s.nextStrict(ctx, tenantID, key)
	}
	if err != nil {
		return "", err
	}

	return s.formatCode(cfg, num), nil
}

// nextStrict fetches the next number directly from DB using UPSERT + RETURNING.
// The row-level write lock on sys_sequences serializes concurrent creates.
func (s *Service) nextStrict(ctx context.Context, tenantID id.ID, key string) (int64, error) {
	var num int64
	err := s.querier.QueryRow(ctx, `
        INSERT INTO sys_sequences (tenant_id, key, current_val)
        VALUES ($1, $2, 1)
        ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = sys_sequences.current_val + 1
        RETURNING current_val
	`, tenantID, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("strict next: %w", err)
	}
	return num, nil
}

// nextCached fetches next number from memory, reserving a fresh range from
// the DB when the current one is exhausted.
func (s *Service) nextCached(ctx context.Context, tenantID id.ID, key string, opts *Options) (int64, error) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	cacheKey := tenantID.String() + ":" + key
	rng, exists := s.ranges[cacheKey]
	if !exists {
		rng = &cachedRange{}
		s.ranges[cacheKey] = rng
	}

	if rng.current >= rng.max {
		size := opts.RangeSize
		if size <= 0 {
			size = 50
		}

		// Bump current_val by the range size; our range is (newMax-size, newMax].
		var newMax int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO sys_sequences (tenant_id, key, current_val)
            VALUES ($1, $2, $3)
            ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = sys_sequences.current_val + $3
            RETURNING current_val
		`, tenantID, key, size).Scan(&newMax)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}

		rng.current = newMax - size
		rng.max = newMax
	}

	rng.current++
	return rng.current, nil
}

// SetNextCode sets the sequence value (for migration purposes).
func (s *Service) SetNextCode(ctx context.Context, tenantID id.ID, cfg Config, period time.Time, value int64) error {
	key := s.buildKey(cfg, period)

	var result int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (tenant_id, key, current_val)
		VALUES ($1, $2, $3)
		ON CONFLICT (tenant_id, key) DO UPDATE SET current_val = $3
		RETURNING current_val
	`, tenantID, key, value).Scan(&result)

	s.cacheMu.Lock()
	delete(s.ranges, tenantID.String()+":"+key)
	s.cacheMu.Unlock()

	return err
}

// buildKey creates the sequence key based on config and period.
func (s *Service) buildKey(cfg Config, period time.Time) string {
	switch cfg.ResetPeriod {
	case "month":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006_01"))
	case "year":
		return fmt.Sprintf("%s_%s", cfg.Prefix, period.Format("2006"))
	default:
		return cfg.Prefix
	}
}

// formatCode creates the final code string.
func (s *Service) formatCode(cfg Config, num int64) string {
	padWidth := cfg.PadWidth
	if padWidth == 0 {
		padWidth = 5
	}
	return fmt.Sprintf("%s-%0*d", cfg.Prefix, padWidth, num)
}

// ParseCode extracts the counter from a formatted code, taking the
// digits after the last dash. Returns -1 if the code has no dash or
// the tail is not a number.
func ParseCode(formatted string) int64 {
	sep := strings.LastIndexByte(formatted, '-')
	if sep < 0 || sep == len(formatted)-1 {
		return -1
	}
	num, err := strconv.ParseInt(formatted[sep+1:], 10, 64)
	if err != nil {
		return -1
	}
	return num
}
