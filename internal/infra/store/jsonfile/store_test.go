package jsonfile

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
	log := logrus.New()
	log.SetOutput(os.Stderr)
	clock := fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	s, err := New(t.TempDir(), clock, log)
	require.NoError(t, err)
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

	for i := 1; i <= 5; i++ {
		rec, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
		assert.Equal(t, i, rec.ID)
		assert.Equal(t, "2025-06-01 12:00:00", rec.Timestamp)
	}

	records, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	for i, rec := range records {
		assert.Equal(t, i+1, rec.ID)
	}
}

func TestAppend_SurvivesReopen(t *testing.T) {
	log := logrus.New()
	clock := fixedClock{t: time.Now()}
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := New(dir, clock, log)
	require.NoError(t, err)
	_, err = s1.Append(ctx, sampleInput(), samplePrediction())
	require.NoError(t, err)
	_, err = s1.Append(ctx, sampleInput(), samplePrediction())
	require.NoError(t, err)

	s2, err := New(dir, clock, log)
	require.NoError(t, err)
	rec, err := s2.Append(ctx, sampleInput(), samplePrediction())
	require.NoError(t, err)
	assert.Equal(t, 3, rec.ID)
}

func TestGetAll_EmptyStore(t *testing.T) {
	s := newTestStore(t)
	records, err := s.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGetAll_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	first, err := s.GetAll(ctx)
	require.NoError(t, err)
	second, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	rec, err := s.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.ID)

	_, err = s.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPaginate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	all, err := s.GetAll(ctx)
	require.NoError(t, err)

	items, total, err := s.Paginate(ctx, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Equal(t, all[3:6], items)

	// Last, partial page.
	items, _, err = s.Paginate(ctx, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, all[6:], items)

	// Page beyond range yields an empty slice, not an error.
	items, total, err = s.Paginate(ctx, 10, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	assert.Empty(t, items)
}

func TestMirror_HeaderOnceAndRowPerRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := s.Append(ctx, sampleInput(), samplePrediction())
		require.NoError(t, err)
	}

	data, err := os.ReadFile(s.MirrorPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, strings.Join(mirror.Columns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,"))
	assert.Contains(t, lines[1], "18250") // age_days column
	assert.Contains(t, lines[1], "High Risk")
	assert.True(t, strings.HasPrefix(lines[3], "3,"))
}
