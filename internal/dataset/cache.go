package dataset

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"github.com/claude/fitrec/internal/features"
	"github.com/claude/fitrec/internal/models"
)

// CachedCoefficients is a memoized coefficient computation together with the
// corrections it needed, so a cache hit reports the same data quality as a
// fresh computation.
type CachedCoefficients struct {
	Coefficients models.IntensityCoefficients `json:"coefficients"`
	Quality      features.Quality             `json:"quality"`
}

// CoefficientCache memoizes coefficients by CacheKey.
type CoefficientCache interface {
	Get(key string) (CachedCoefficients, bool, error)
	Put(key string, c CachedCoefficients) error
}

// CacheKey identifies the inputs of one coefficient computation. The schema
// version is part of the key so formula changes invalidate old entries.
func CacheKey(estimated1RM, maxPace float64, workout string) string {
	h := sha256.New()
	h.Write([]byte(features.SchemaVersion))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(estimated1RM, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatFloat(maxPace, 'g', -1, 64)))
	h.Write([]byte{0})
	h.Write([]byte(workout))
	return hex.EncodeToString(h.Sum(nil))
}

// SQLiteCache is a CoefficientCache persisted in a local SQLite file so
// repeated featurize runs over the same data skip recomputation.
type SQLiteCache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the cache database at dir/coefficients.db.
func OpenCache(dir string) (*SQLiteCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "coefficients.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	// Workers share the handle; a single connection serializes writes.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS coefficients (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache table: %w", err)
	}

	return &SQLiteCache{db: db}, nil
}

// Get returns the cached entry for key, if any.
func (c *SQLiteCache) Get(key string) (CachedCoefficients, bool, error) {
	var raw string
	err := c.db.QueryRow(`SELECT value FROM coefficients WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return CachedCoefficients{}, false, nil
	}
	if err != nil {
		return CachedCoefficients{}, false, fmt.Errorf("reading cache entry: %w", err)
	}
	var v CachedCoefficients
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return CachedCoefficients{}, false, fmt.Errorf("decoding cache entry: %w", err)
	}
	return v, true, nil
}

// Put stores an entry, replacing any previous value.
func (c *SQLiteCache) Put(key string, v CachedCoefficients) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	_, err = c.db.Exec(`INSERT OR REPLACE INTO coefficients (key, value) VALUES (?, ?)`, key, string(raw))
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Len returns the number of cached entries.
func (c *SQLiteCache) Len() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT COUNT(*) FROM coefficients`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the cache database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}
