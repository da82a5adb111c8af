// Package sqlite reads résumé records from a relational ATS database
// using the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/cvmatch/internal/domain"
	"github.com/kailas-cloud/cvmatch/internal/domain/resume"
)

// DriverName is the database/sql driver registered by modernc.org/sqlite.
const DriverName = "sqlite"

// Store implements usecase/search.RecordProvider over the ATS tables.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	// One connection: a single writer, and ":memory:" stays one database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping sqlite: %w", err)
	}
	return nil
}

// List returns one record per applicant that has an application, ordered by id.
func (s *Store) List(ctx context.Context) ([]resume.Record, error) {
	rows, err := s.db.QueryContext(ctx, selectRecords+" ORDER BY p.applicant_id")
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []resume.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Get returns the record of one applicant.
func (s *Store) Get(ctx context.Context, id int64) (resume.Record, error) {
	row := s.db.QueryRowContext(ctx, selectRecords+" WHERE p.applicant_id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return resume.Record{}, domain.ErrRecordNotFound
	}
	return rec, err
}

// Put upserts the applicant profile and appends an application detail.
// Returns true if the applicant is new.
func (s *Store) Put(ctx context.Context, rec *resume.Record) (created bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var n int
	if err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ApplicantProfile WHERE applicant_id = ?", rec.ID(),
	).Scan(&n); err != nil {
		return false, fmt.Errorf("check applicant %d: %w", rec.ID(), err)
	}

	first, last, _ := strings.Cut(rec.Name(), " ")
	if _, err = tx.ExecContext(ctx, `
INSERT INTO ApplicantProfile (applicant_id, first_name, last_name) VALUES (?, ?, ?)
ON CONFLICT(applicant_id) DO UPDATE SET first_name = excluded.first_name, last_name = excluded.last_name`,
		rec.ID(), first, strings.TrimSpace(last),
	); err != nil {
		return false, fmt.Errorf("upsert applicant %d: %w", rec.ID(), err)
	}

	if _, err = tx.ExecContext(ctx, `
INSERT INTO ApplicationDetail (applicant_id, application_role, category, cv_path, cv_text)
VALUES (?, ?, ?, ?, ?)`,
		rec.ID(), rec.Position(), rec.Category(), rec.CVPath(), rec.RawText(),
	); err != nil {
		return false, fmt.Errorf("insert application for %d: %w", rec.ID(), err)
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return n == 0, nil
}

// NextID returns one past the highest applicant id in use.
func (s *Store) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(applicant_id), 0) + 1 FROM ApplicantProfile",
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("next applicant id: %w", err)
	}
	return id, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (resume.Record, error) {
	var (
		id                                 int64
		first, last                        string
		cvPath, cvText, category, position string
	)
	if err := sc.Scan(&id, &first, &last, &cvPath, &cvText, &category, &position); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resume.Record{}, err
		}
		return resume.Record{}, fmt.Errorf("scan record: %w", err)
	}
	name := strings.TrimSpace(first + " " + last)
	return resume.Reconstruct(id, name, cvPath, cvText, category, position), nil
}
