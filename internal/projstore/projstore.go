// Package projstore owns the per-repository bookkeeping records. The
// stats core reads and writes the last-processed commit id and the busy
// flag, plus the read-only stats directory; nothing else.
package projstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	"github.com/statscope/statscope/internal/contract"
	"github.com/statscope/statscope/schema"
	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// Store handles durable project records using various database backends.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.ProjectStore = &Store{} // Compile-time check

// NewStore initializes and returns a project store for the backend type.
// The NoneBackend returns a no-op store that remembers nothing, which
// forces every run into a full scan.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	var db *sql.DB
	var err error

	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = DefaultSQLitePath()
		}
		db, err = sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite project store at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// A single connection avoids "database is locked" errors.
		db.SetMaxOpenConns(1)

	case schema.MySQLBackend:
		// connStr: user:password@tcp(host:port)/dbname
		db, err = sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MySQL project store: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}

	case schema.PostgreSQLBackend:
		// connStr: host=localhost port=5432 user=postgres dbname=mydb
		db, err = sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to PostgreSQL project store: %w. Check connection format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}

	case schema.NoneBackend:
		return &Store{db: nil, backend: backend}, nil

	default:
		return nil, fmt.Errorf("unsupported project backend: %s. Must be sqlite, mysql, postgresql, or none", backend)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s project store. Check that the server is running and connection parameters are valid: %w", backend, err)
	}

	if _, err := db.Exec(createTableQuery); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create projects table: %w", err)
	}

	return &Store{db: db, backend: backend}, nil
}

// createTableQuery is portable across all three backends.
const createTableQuery = `
	CREATE TABLE IF NOT EXISTS projects (
		repo_path VARCHAR(255) PRIMARY KEY,
		last_commit_id VARCHAR(64) NOT NULL DEFAULT '',
		is_generating_stats BOOLEAN NOT NULL DEFAULT FALSE,
		stats_directory VARCHAR(255) NOT NULL DEFAULT ''
	);
`

// DefaultSQLitePath returns the SQLite DB file for project bookkeeping.
func DefaultSQLitePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".statscope_projects.db"
	}
	return filepath.Join(homeDir, ".statscope_projects.db")
}

// placeholder returns the n-th parameter placeholder for the backend.
func (s *Store) placeholder(n int) string {
	if s.backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// EnsureProject implements the contract.ProjectStore interface.
func (s *Store) EnsureProject(repoPath string, statsDir string) (schema.ProjectRecord, error) {
	if s.db == nil {
		return schema.ProjectRecord{RepoPath: repoPath, StatsDirectory: statsDir}, nil
	}

	record, err := s.GetProject(repoPath)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return schema.ProjectRecord{}, err
	}

	query := fmt.Sprintf(
		`INSERT INTO projects (repo_path, last_commit_id, is_generating_stats, stats_directory) VALUES (%s, '', FALSE, %s)`,
		s.placeholder(1), s.placeholder(2))
	if _, err := s.db.Exec(query, repoPath, statsDir); err != nil {
		return schema.ProjectRecord{}, fmt.Errorf("failed to create project record: %w", err)
	}
	return schema.ProjectRecord{RepoPath: repoPath, StatsDirectory: statsDir}, nil
}

// GetProject implements the contract.ProjectStore interface.
func (s *Store) GetProject(repoPath string) (schema.ProjectRecord, error) {
	if s.db == nil {
		return schema.ProjectRecord{RepoPath: repoPath}, nil
	}

	query := fmt.Sprintf(
		`SELECT repo_path, last_commit_id, is_generating_stats, stats_directory FROM projects WHERE repo_path = %s`,
		s.placeholder(1))
	row := s.db.QueryRow(query, repoPath)

	var record schema.ProjectRecord
	if err := row.Scan(&record.RepoPath, &record.LastProcessedCommitID, &record.IsGeneratingStats, &record.StatsDirectory); err != nil {
		return schema.ProjectRecord{}, err
	}
	return record, nil
}

// SetLastProcessedCommit implements the contract.ProjectStore interface.
func (s *Store) SetLastProcessedCommit(repoPath string, commitID string) error {
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf(
		`UPDATE projects SET last_commit_id = %s WHERE repo_path = %s`,
		s.placeholder(1), s.placeholder(2))
	_, err := s.db.Exec(query, commitID, repoPath)
	return err
}

// SetGeneratingStats implements the contract.ProjectStore interface.
func (s *Store) SetGeneratingStats(repoPath string, busy bool) error {
	if s.db == nil {
		return nil
	}
	query := fmt.Sprintf(
		`UPDATE projects SET is_generating_stats = %s WHERE repo_path = %s`,
		s.placeholder(1), s.placeholder(2))
	_, err := s.db.Exec(query, busy, repoPath)
	return err
}

// Close implements the contract.ProjectStore interface.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
