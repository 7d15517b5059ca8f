package prediction

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/features"
	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
)

// Service implements the prediction use-cases. Fields are read-only after
// startup; the service itself holds no mutable state and is safe for
// concurrent use (the repository serializes its own writes).
type Service struct {
	Repo      domain.Repository
	Scorer    domain.Scorer
	Encoder   *features.Encoder // nil when the schema failed to load (degraded mode)
	Threshold float64
	Log       *logrus.Logger
}

// ModelLoaded reports whether the scoring pipeline is usable.
func (s *Service) ModelLoaded() bool {
	return s.Encoder != nil && s.Scorer != nil
}

func (s *Service) threshold() float64 {
	if s.Threshold == 0 {
		return domain.DefaultThreshold
	}
	return s.Threshold
}

// PredictResult is the full outcome of a predict call, including whether the
// record made it to durable storage.
type PredictResult struct {
	Prediction domain.PredictionResult
	Input      domain.InputRecord
	AgeDays    int
	Record     *domain.StoredRecord
	DataSaved  bool
}

// Predict validates the input, encodes it, scores it and persists the
// request/response pair. A persistence failure does not fail the call: the
// prediction is returned with DataSaved=false.
func (s *Service) Predict(ctx context.Context, input domain.InputRecord) (*PredictResult, error) {
	if !s.ModelLoaded() {
		return nil, domain.ErrModelUnavailable
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	vector, err := s.Encoder.Encode(input)
	if err != nil {
		return nil, errors.WithMessagef(domain.ErrModelUnavailable, "encode: %v", err)
	}

	probability, err := s.Scorer.Score(ctx, vector)
	if err != nil {
		return nil, errors.WithMessagef(domain.ErrModelUnavailable, "score: %v", err)
	}

	result := domain.NewPredictionResult(probability, s.threshold())

	record, err := s.Repo.Append(ctx, input, result)
	saved := err == nil
	if err != nil {
		s.Log.WithError(err).Warn("prediction not durably saved")
	}

	return &PredictResult{
		Prediction: result,
		Input:      input,
		AgeDays:    features.AgeToDays(float64(input.Age)),
		Record:     record,
		DataSaved:  saved,
	}, nil
}

// ListSaved returns one page of stored records. Page defaults to 1 and
// perPage to 10; a page beyond the end yields an empty slice, not an error.
func (s *Service) ListSaved(ctx context.Context, page, perPage int) (*domain.PaginatedResult, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}
	items, total, err := s.Repo.Paginate(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	return &domain.PaginatedResult{
		Data:    items,
		Page:    page,
		PerPage: perPage,
		Total:   total,
		Pages:   (total + perPage - 1) / perPage,
	}, nil
}

// GetSaved looks up a single stored record by id.
func (s *Service) GetSaved(ctx context.Context, id int) (*domain.StoredRecord, error) {
	return s.Repo.GetByID(ctx, id)
}

// Stats computes summary statistics over all stored records on demand.
func (s *Service) Stats(ctx context.Context) (domain.DataStats, error) {
	records, err := s.Repo.GetAll(ctx)
	if err != nil {
		return domain.DataStats{}, err
	}
	return domain.ComputeStats(records), nil
}

// ExportInfo reports whether the CSV mirror exists and where it lives.
func (s *Service) ExportInfo() (path string, absPath string, exists bool) {
	path = s.Repo.MirrorPath()
	if _, err := os.Stat(path); err != nil {
		return path, "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return path, abs, true
}

// ModelInfo describes the feature layout the model expects.
type ModelInfo struct {
	NumericFeatures     []string
	CategoricalFeatures []string
	TotalFeatures       int
}

// ModelInfo returns the loaded schema description, or ErrSchemaNotLoaded in
// degraded mode.
func (s *Service) ModelInfo() (*ModelInfo, error) {
	if s.Encoder == nil {
		return nil, features.ErrSchemaNotLoaded
	}
	schema := s.Encoder.Schema()
	return &ModelInfo{
		NumericFeatures:     schema.NumericFeatures,
		CategoricalFeatures: schema.CategoricalFeatures,
		TotalFeatures:       schema.TotalFeatures(),
	}, nil
}
