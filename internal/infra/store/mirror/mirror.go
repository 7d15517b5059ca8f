// Package mirror maintains the flattened CSV twin of the structured record
// log: one header row written on first ever write, then one row per record in
// a fixed column order shared by every store backend.
package mirror

import (
	"encoding/csv"
	"os"
	"strconv"
	"sync"

	"github.com/pkg/errors"

	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
)

// Columns is the fixed column order of the tabular mirror.
var Columns = []string{
	"id", "timestamp",
	"age_years", "age_days",
	"gender", "height", "weight", "ap_hi", "ap_lo",
	"cholesterol", "gluc", "smoke", "alco", "active",
	"prediction_risk", "prediction_label", "probability", "confidence",
}

// Writer appends flattened record rows to a CSV file.
type Writer struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Writer {
	return &Writer{path: path}
}

// Path is the mirror file location.
func (w *Writer) Path() string { return w.path }

// Append writes one flattened row, emitting the header first if the file did
// not exist yet.
func (w *Writer) Append(rec *domain.StoredRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, statErr := os.Stat(w.path)
	isNew := os.IsNotExist(statErr)

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open csv mirror")
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if isNew {
		if err := cw.Write(Columns); err != nil {
			return errors.Wrap(err, "write csv header")
		}
	}
	if err := cw.Write(flatten(rec)); err != nil {
		return errors.Wrap(err, "write csv row")
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush csv mirror")
}

func flatten(rec *domain.StoredRecord) []string {
	in := rec.Input
	p := rec.Prediction
	return []string{
		strconv.Itoa(rec.ID),
		rec.Timestamp,
		strconv.Itoa(in.Age),
		strconv.Itoa(in.Age * 365),
		strconv.Itoa(in.Gender),
		formatFloat(in.Height),
		formatFloat(in.Weight),
		strconv.Itoa(in.ApHi),
		strconv.Itoa(in.ApLo),
		strconv.Itoa(in.Cholesterol),
		strconv.Itoa(in.Gluc),
		strconv.Itoa(in.Smoke),
		strconv.Itoa(in.Alco),
		strconv.Itoa(in.Active),
		strconv.Itoa(p.Risk),
		p.RiskLabel,
		formatFloat(p.Probability),
		formatFloat(p.Confidence),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
