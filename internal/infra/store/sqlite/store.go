// Package sqlite implements the record store on an embedded sqlite database.
// It is the redesign target for the legacy rewrite-the-whole-array layout:
// appends are transactional, ids come from the same count+1 rule but are
// additionally guarded by the primary key. The CSV mirror contract is
// identical to the jsonfile backend.
package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/store/mirror"
)

const (
	dbFileName     = "predictions.db"
	mirrorFileName = "predictions.csv"
)

const ddl = `
CREATE TABLE IF NOT EXISTS predictions (
	id          INTEGER PRIMARY KEY,
	created_at  TEXT NOT NULL,
	age         INTEGER NOT NULL,
	gender      INTEGER NOT NULL,
	height      REAL NOT NULL,
	weight      REAL NOT NULL,
	ap_hi       INTEGER NOT NULL,
	ap_lo       INTEGER NOT NULL,
	cholesterol INTEGER NOT NULL,
	gluc        INTEGER NOT NULL,
	smoke       INTEGER NOT NULL,
	alco        INTEGER NOT NULL,
	active      INTEGER NOT NULL,
	risk        INTEGER NOT NULL,
	risk_label  TEXT NOT NULL,
	probability REAL NOT NULL,
	confidence  REAL NOT NULL
);`

const selectColumns = `id, created_at, age, gender, height, weight, ap_hi, ap_lo,
	cholesterol, gluc, smoke, alco, active, risk, risk_label, probability, confidence`

// Clock provides record timestamps.
type Clock interface {
	Now() time.Time
}

type Store struct {
	db     *sql.DB
	mirror *mirror.Writer
	clock  Clock
	log    *logrus.Logger
}

// New opens (creating if needed) the database file inside dir and ensures the
// schema exists.
func New(dir string, clock Clock, log *logrus.Logger) (*Store, error) {
	db, err := sql.Open("sqlite", filepath.Join(dir, dbFileName))
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite database")
	}
	// Single writer: the count+1 id rule requires serialized appends.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create schema")
	}
	log.WithField("dir", dir).Debug("sqlite store ready")
	return &Store{
		db:     db,
		mirror: mirror.New(filepath.Join(dir, mirrorFileName)),
		clock:  clock,
		log:    log,
	}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Ping reports whether the database is reachable, for health checks.
func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Append inserts the record transactionally with id = current count + 1,
// then appends the flattened row to the CSV mirror.
func (s *Store) Append(ctx context.Context, input domain.InputRecord, pred domain.PredictionResult) (*domain.StoredRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "begin", Err: err}
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&count); err != nil {
		return nil, &domain.PersistenceError{Op: "count", Err: err}
	}

	rec := &domain.StoredRecord{
		ID:         count + 1,
		Timestamp:  s.clock.Now().Format(domain.TimestampLayout),
		Input:      input,
		Prediction: pred,
	}

	const q = `
INSERT INTO predictions
(id, created_at, age, gender, height, weight, ap_hi, ap_lo,
 cholesterol, gluc, smoke, alco, active, risk, risk_label, probability, confidence)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);`
	if _, err := tx.ExecContext(ctx, q,
		rec.ID, rec.Timestamp,
		input.Age, input.Gender, input.Height, input.Weight, input.ApHi, input.ApLo,
		input.Cholesterol, input.Gluc, input.Smoke, input.Alco, input.Active,
		pred.Risk, pred.RiskLabel, pred.Probability, pred.Confidence,
	); err != nil {
		return rec, &domain.PersistenceError{Op: "insert", Err: err}
	}
	if err := tx.Commit(); err != nil {
		return rec, &domain.PersistenceError{Op: "commit", Err: err}
	}

	if err := s.mirror.Append(rec); err != nil {
		s.log.WithError(err).Warn("csv mirror write failed")
		return rec, &domain.PersistenceError{Op: "mirror", Err: err}
	}
	return rec, nil
}

// GetAll returns every record in insertion order.
func (s *Store) GetAll(ctx context.Context) ([]*domain.StoredRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM predictions ORDER BY id;`)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	defer rows.Close()
	return scanRecords(rows)
}

// GetByID fetches a single record, or domain.ErrNotFound.
func (s *Store) GetByID(ctx context.Context, id int) (*domain.StoredRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM predictions WHERE id = ? LIMIT 1;`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "query", Err: err}
	}
	return rec, nil
}

// Paginate returns one page in insertion order plus the total count.
func (s *Store) Paginate(ctx context.Context, page, perPage int) ([]*domain.StoredRecord, int, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM predictions`).Scan(&total); err != nil {
		return nil, 0, &domain.PersistenceError{Op: "count", Err: err}
	}
	offset := (page - 1) * perPage
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM predictions ORDER BY id LIMIT ? OFFSET ?;`, perPage, offset)
	if err != nil {
		return nil, 0, &domain.PersistenceError{Op: "query", Err: err}
	}
	defer rows.Close()
	records, err := scanRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// MirrorPath is the location of the CSV mirror file.
func (s *Store) MirrorPath() string { return s.mirror.Path() }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.StoredRecord, error) {
	var rec domain.StoredRecord
	err := row.Scan(
		&rec.ID, &rec.Timestamp,
		&rec.Input.Age, &rec.Input.Gender, &rec.Input.Height, &rec.Input.Weight,
		&rec.Input.ApHi, &rec.Input.ApLo,
		&rec.Input.Cholesterol, &rec.Input.Gluc,
		&rec.Input.Smoke, &rec.Input.Alco, &rec.Input.Active,
		&rec.Prediction.Risk, &rec.Prediction.RiskLabel,
		&rec.Prediction.Probability, &rec.Prediction.Confidence,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func scanRecords(rows *sql.Rows) ([]*domain.StoredRecord, error) {
	records := []*domain.StoredRecord{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &domain.PersistenceError{Op: "scan", Err: err}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.PersistenceError{Op: "scan", Err: err}
	}
	return records, nil
}
