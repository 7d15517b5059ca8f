package sqlite

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/infra/store/mirror"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestStore(t *testing.T) *Store {
	t.Helper()
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New(t.TempDir(), clock, logrus.New())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleInput() domain.InputRecord {
	return domain.InputRecord{
		Age: 50, Gender: 2, Height: 168, Weight: 62,
		ApHi: 110, ApLo: 80, Cholesterol: 1, Gluc: 1,
		Smoke: 0, Alco: 0, Active: 1,
	}
}

func samplePrediction() domain.PredictionResult {
	return domain.NewPredictionResult(0.73, domain.DefaultThreshold)
}

func TestAppend_AssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		rec, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
		assert.Equal(t, i, rec.ID)
	}
}

func TestAppend_RoundTripsAllFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := sampleInput()
	pred := samplePrediction()
	written, err := s.Append(ctx, in, pred)
	require.NoError(t, err)

	read, err := s.GetByID(ctx, written.ID)
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, in, read.Input)
	assert.Equal(t, pred, read.Prediction)
	assert.Equal(t, "2025-06-01 12:00:00", read.Timestamp)
}

func TestGetAll_InsertionOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.ID)
	}
}

func TestGetAll_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	records, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetByID_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaginate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	items, total, err := s.Paginate(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.Len(t, items, 3)
	assert.Equal(t, 4, items[0].ID)
	assert.Equal(t, 6, items[2].ID)

	items, total, err = s.Paginate(ctx, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, items)
}

func TestMirror_SameContractAsLegacyBackend(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	data, err := os.ReadFile(s.MirrorPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(mirror.Columns, ","), lines[0])
}
