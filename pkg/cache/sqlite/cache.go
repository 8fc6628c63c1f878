// Package sqlite implements cache.Store on an embedded SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pario-ai/cinecache/pkg/cache"
	"github.com/pario-ai/cinecache/pkg/models"
)

// Store keeps the cache slot as one row in cache plus its ordered movies
// in cache_movies.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

var _ cache.Store = (*Store)(nil)

const slotID = 1

const createCacheTables = `
CREATE TABLE IF NOT EXISTS cache (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	page INTEGER NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS cache_movies (
	cache_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	movie_id INTEGER NOT NULL,
	title TEXT NOT NULL,
	overview TEXT NOT NULL,
	release_date TEXT NOT NULL,
	poster_path TEXT,
	genre_ids TEXT NOT NULL,
	popularity REAL NOT NULL,
	vote_count INTEGER NOT NULL,
	vote_average REAL NOT NULL,
	PRIMARY KEY (cache_id, position)
);
`

// New opens (creating if needed) the database at dbPath.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createCacheTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &Store{db: db}, nil
}

// DeleteCachedPage removes the slot and its movies.
func (s *Store) DeleteCachedPage(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cache.NewStoreError("delete", s.inTx(ctx, deleteSlot))
}

// Insert replaces the slot within a single transaction.
func (s *Store) Insert(ctx context.Context, page models.Page, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := deleteSlot(tx); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO cache (id, page, created_at) VALUES (?, ?, ?)`,
			slotID, page.Page, ts.UnixNano(),
		); err != nil {
			return fmt.Errorf("insert slot: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO cache_movies (cache_id, position, movie_id, title, overview, release_date,
			 poster_path, genre_ids, popularity, vote_count, vote_average)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare movie insert: %w", err)
		}
		defer stmt.Close()

		for i, m := range page.Results {
			genres, err := json.Marshal(m.GenreIDs)
			if err != nil {
				return fmt.Errorf("encode genres: %w", err)
			}
			var poster sql.NullString
			if m.PosterPath != nil {
				poster = sql.NullString{String: *m.PosterPath, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx,
				slotID, i, m.ID, m.Title, m.Overview, m.ReleaseDate,
				poster, string(genres), m.Popularity, m.VoteCount, m.VoteAverage,
			); err != nil {
				return fmt.Errorf("insert movie %d: %w", m.ID, err)
			}
		}
		return nil
	})
	return cache.NewStoreError("insert", err)
}

// Retrieve reads the slot and its movies in position order.
func (s *Store) Retrieve(ctx context.Context) (*models.CachedPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out *models.CachedPage
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var page int
		var createdAt int64
		err := tx.QueryRowContext(ctx,
			`SELECT page, created_at FROM cache WHERE id = ?`, slotID,
		).Scan(&page, &createdAt)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read slot: %w", err)
		}

		movies, err := readMovies(ctx, tx)
		if err != nil {
			return err
		}
		out = &models.CachedPage{
			Page:      models.Page{Page: page, Results: movies},
			Timestamp: time.Unix(0, createdAt).UTC(),
		}
		return nil
	})
	if err != nil {
		return nil, cache.NewStoreError("retrieve", err)
	}
	return out, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func readMovies(ctx context.Context, tx *sql.Tx) ([]models.Movie, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT movie_id, title, overview, release_date, poster_path, genre_ids,
		 popularity, vote_count, vote_average
		 FROM cache_movies WHERE cache_id = ? ORDER BY position`, slotID)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var movies []models.Movie
	for rows.Next() {
		var m models.Movie
		var poster sql.NullString
		var genres string
		if err := rows.Scan(
			&m.ID, &m.Title, &m.Overview, &m.ReleaseDate, &poster, &genres,
			&m.Popularity, &m.VoteCount, &m.VoteAverage,
		); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		if poster.Valid {
			p := poster.String
			m.PosterPath = &p
		}
		if err := json.Unmarshal([]byte(genres), &m.GenreIDs); err != nil {
			return nil, fmt.Errorf("decode genres of movie %d: %w", m.ID, err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

func deleteSlot(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM cache_movies WHERE cache_id = ?`, slotID); err != nil {
		return fmt.Errorf("delete movies: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM cache WHERE id = ?`, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
