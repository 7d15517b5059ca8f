package prediction

import "context"

// Repository port for the append-only record store.
type Repository interface {
	// Append assigns the next sequential id, stamps the record and writes it
	// durably. On a partial write failure the record is still returned
	// together with the error (best-effort persistence).
	Append(ctx context.Context, input InputRecord, pred PredictionResult) (*StoredRecord, error)
	GetAll(ctx context.Context) ([]*StoredRecord, error)
	GetByID(ctx context.Context, id int) (*StoredRecord, error)
	// Paginate returns the page slice in insertion order plus the total
	// record count.
	Paginate(ctx context.Context, page, perPage int) ([]*StoredRecord, int, error)
	// MirrorPath is the location of the flattened CSV mirror file.
	MirrorPath() string
}

// Scorer port for the external scoring model: an opaque function from a
// feature vector to a probability in [0,1].
type Scorer interface {
	Score(ctx context.Context, vector []float32) (float64, error)
}
