package repository

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/mr1hm/go-wait-dashboard/internal/models"
)

type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the record store. With ":memory:" nothing outlives
// the process.
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("error while pinging database: %w", err)
	}

	s := &SQLiteDB{
		db: db,
	}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("error while migrating to database: %w", err)
	}

	return s, nil
}

func (s *SQLiteDB) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS hospitals (
			position INTEGER PRIMARY KEY,
			hospital TEXT NOT NULL,
			status TEXT NOT NULL,
			wait_mins INTEGER,
			display_wait TEXT NOT NULL,
			severity TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Replace swaps the stored set inside one transaction, so readers see
// either the old records or the new ones.
func (s *SQLiteDB) Replace(ctx context.Context, records []models.HospitalRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM hospitals`); err != nil {
		return fmt.Errorf("error clearing hospitals: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO hospitals (position, hospital, status, wait_mins, display_wait, severity)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("error preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		var wait sql.NullInt64
		if r.WaitMins != nil {
			wait = sql.NullInt64{Int64: int64(*r.WaitMins), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, i, r.Hospital, r.Status, wait, r.DisplayWait, string(r.Severity)); err != nil {
			return fmt.Errorf("error inserting %q: %w", r.Hospital, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteDB) All(ctx context.Context) ([]models.HospitalRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT hospital, status, wait_mins, display_wait, severity
		FROM hospitals
		ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("error querying hospitals: %w", err)
	}
	defer rows.Close()

	var records []models.HospitalRecord
	for rows.Next() {
		var (
			r        models.HospitalRecord
			wait     sql.NullInt64
			severity string
		)
		if err := rows.Scan(&r.Hospital, &r.Status, &wait, &r.DisplayWait, &severity); err != nil {
			return nil, fmt.Errorf("error scanning hospital: %w", err)
		}
		if wait.Valid {
			w := int(wait.Int64)
			r.WaitMins = &w
		}
		r.Severity = models.Severity(severity)
		records = append(records, r)
	}

	return records, rows.Err()
}

func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
