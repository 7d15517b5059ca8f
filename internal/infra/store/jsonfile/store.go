// Package jsonfile implements the record store with the legacy on-disk
// layout: a predictions.json array rewritten in full on every append, plus
// the flattened predictions.csv mirror. All writes are serialized behind a
// mutex; the read-full/append/rewrite-full pattern is not safe across
// concurrent writers otherwise.
package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/store/mirror"
)

const (
	recordsFileName = "predictions.json"
	mirrorFileName  = "predictions.csv"
)

// Clock provides record timestamps.
type Clock interface {
	Now() time.Time
}

type Store struct {
	mu     sync.Mutex
	path   string
	mirror *mirror.Writer
	clock  Clock
	log    *logrus.Logger
}

// New creates the data directory on first run and returns a store over it.
func New(dir string, clock Clock, log *logrus.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &Store{
		path:   filepath.Join(dir, recordsFileName),
		mirror: mirror.New(filepath.Join(dir, mirrorFileName)),
		clock:  clock,
		log:    log,
	}, nil
}

// Append assigns id = current count + 1, stamps the record and performs both
// durable writes. On failure the constructed record is still returned so the
// caller can report the prediction with data_saved=false.
func (s *Store) Append(ctx context.Context, input domain.InputRecord, pred domain.PredictionResult) (*domain.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.readAll()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}

	rec := &domain.StoredRecord{
		ID:         len(records) + 1,
		Timestamp:  s.clock.Now().Format(domain.TimestampLayout),
		Input:      input,
		Prediction: pred,
	}
	records = append(records, rec)

	if err := s.writeAll(records); err != nil {
		return rec, &domain.PersistenceError{Op: "write", Err: err}
	}
	if err := s.mirror.Append(rec); err != nil {
		// The structured log succeeded; report the mirror failure without
		// dropping the record.
		s.log.WithError(err).Warn("csv mirror write failed")
		return rec, &domain.PersistenceError{Op: "mirror", Err: err}
	}
	return rec, nil
}

// GetAll returns every stored record in insertion order. A store that has
// never been written yields an empty sequence.
func (s *Store) GetAll(ctx context.Context) ([]*domain.StoredRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readAll()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read", Err: err}
	}
	return records, nil
}

// GetByID scans for the first record with the given id.
func (s *Store) GetByID(ctx context.Context, id int) (*domain.StoredRecord, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Paginate slices the full scan: start = (page-1)*perPage. An out-of-range
// page yields an empty slice.
func (s *Store) Paginate(ctx context.Context, page, perPage int) ([]*domain.StoredRecord, int, error) {
	records, err := s.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := len(records)
	start := (page - 1) * perPage
	if start >= total {
		return []*domain.StoredRecord{}, total, nil
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return records[start:end], total, nil
}

// MirrorPath is the location of the CSV mirror file.
func (s *Store) MirrorPath() string { return s.mirror.Path() }

func (s *Store) readAll() ([]*domain.StoredRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.StoredRecord{}, nil
		}
		return nil, errors.Wrap(err, "read record log")
	}
	var records []*domain.StoredRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "parse record log")
	}
	return records, nil
}

func (s *Store) writeAll(records []*domain.StoredRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal record log")
	}
	return errors.Wrap(os.WriteFile(s.path, data, 0o644), "write record log")
}
