package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apppred "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/application/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/features"
	domain "github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/domain/prediction"
	"github.com/mhmdnvn18/CAPSTONE-CC25-CF225/internal/middleware"
)

type Router struct {
	svc      *apppred.Service
	checkers map[string]middleware.HealthChecker
}

// NewRouter wires the HTTP surface of the prediction service.
func NewRouter(svc *apppred.Service, checkers map[string]middleware.HealthChecker, corsOrigins []string) http.Handler {
	r := &Router{svc: svc, checkers: checkers}
	mux := chi.NewRouter()

	if len(corsOrigins) > 0 {
		mux.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		}))
	}

	mux.Get("/", r.wrap(r.handleHome))
	mux.Get("/health", r.wrap(r.handleHealth))
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Post("/predict", r.wrap(r.handlePredict))
	mux.Post("/convert-age", r.wrap(r.handleConvertAge))
	mux.Get("/model-info", r.wrap(r.handleModelInfo))
	mux.Get("/example", r.wrap(r.handleExample))
	mux.Get("/saved-data", r.wrap(r.handleSavedData))
	mux.Get("/saved-data/stats", r.wrap(r.handleStats))
	mux.Get("/saved-data/{id}", r.wrap(r.handleSavedDataByID))
	mux.Get("/export-data", r.wrap(r.handleExportData))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap is the single place error kinds are mapped to HTTP statuses.
// Handlers return typed errors and never write statuses themselves.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := http.StatusInternalServerError
		var vErr *domain.ValidationError
		switch {
		case errors.As(err, &vErr):
			status = http.StatusBadRequest
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrModelUnavailable), errors.Is(err, features.ErrSchemaNotLoaded):
			status = http.StatusInternalServerError
		}
		writeJSON(w, status, map[string]string{
			"error":  err.Error(),
			"status": "error",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// inputPayload mirrors InputRecord with pointer fields so that absent keys
// are distinguishable from zero values. All eleven fields are mandatory.
type inputPayload struct {
	Age         *int     `json:"age"`
	Gender      *int     `json:"gender"`
	Height      *float64 `json:"height"`
	Weight      *float64 `json:"weight"`
	ApHi        *int     `json:"ap_hi"`
	ApLo        *int     `json:"ap_lo"`
	Cholesterol *int     `json:"cholesterol"`
	Gluc        *int     `json:"gluc"`
	Smoke       *int     `json:"smoke"`
	Alco        *int     `json:"alco"`
	Active      *int     `json:"active"`
}

func (p *inputPayload) toDomain() (domain.InputRecord, error) {
	required := []struct {
		name    string
		present bool
	}{
		{"age", p.Age != nil},
		{"gender", p.Gender != nil},
		{"height", p.Height != nil},
		{"weight", p.Weight != nil},
		{"ap_hi", p.ApHi != nil},
		{"ap_lo", p.ApLo != nil},
		{"cholesterol", p.Cholesterol != nil},
		{"gluc", p.Gluc != nil},
		{"smoke", p.Smoke != nil},
		{"alco", p.Alco != nil},
		{"active", p.Active != nil},
	}
	for _, f := range required {
		if !f.present {
			return domain.InputRecord{}, &domain.ValidationError{Field: f.name, Reason: "is required"}
		}
	}
	return domain.InputRecord{
		Age:         *p.Age,
		Gender:      *p.Gender,
		Height:      *p.Height,
		Weight:      *p.Weight,
		ApHi:        *p.ApHi,
		ApLo:        *p.ApLo,
		Cholesterol: *p.Cholesterol,
		Gluc:        *p.Gluc,
		Smoke:       *p.Smoke,
		Alco:        *p.Alco,
		Active:      *p.Active,
	}, nil
}

// GET /
func (r *Router) handleHome(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      "Cardiovascular Disease Prediction API",
		"status":       "active",
		"model_loaded": r.svc.ModelLoaded(),
		"note":         "Input age in years; it is converted to days for the model automatically",
	})
	return nil
}

// GET /health
func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) error {
	health := middleware.RunChecks(req.Context(), r.checkers, r.svc.ModelLoaded())
	status := http.StatusOK
	if health.Status != "healthy" {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, health)
	return nil
}

// POST /predict
func (r *Router) handlePredict(w http.ResponseWriter, req *http.Request) error {
	var payload inputPayload
	if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "must be valid JSON: " + err.Error()}
	}
	input, err := payload.toDomain()
	if err != nil {
		return err
	}

	result, err := r.svc.Predict(req.Context(), input)
	if err != nil {
		middleware.IncrementPredictionsFailed()
		return err
	}
	middleware.IncrementPredictions()

	writeJSON(w, http.StatusOK, map[string]any{
		"prediction": result.Prediction,
		"input_data": struct {
			domain.InputRecord
			AgeDisplay string `json:"age_display"`
		}{result.Input, fmt.Sprintf("%d years", result.Input.Age)},
		"model_input": map[string]any{
			"age_in_days": result.AgeDays,
			"note":        "Age converted to days for model prediction",
		},
		"data_saved": result.DataSaved,
		"status":     "success",
	})
	return nil
}

// POST /convert-age
func (r *Router) handleConvertAge(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Years *float64 `json:"years"`
		Days  *float64 `json:"days"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "must be valid JSON: " + err.Error()}
	}

	switch {
	case body.Years != nil:
		days := features.AgeToDays(*body.Years)
		writeJSON(w, http.StatusOK, map[string]any{
			"input":      fmt.Sprintf("%g years", *body.Years),
			"output":     fmt.Sprintf("%d days", days),
			"conversion": "years to days",
		})
	case body.Days != nil:
		years := features.AgeToYears(*body.Days)
		writeJSON(w, http.StatusOK, map[string]any{
			"input":      fmt.Sprintf("%g days", *body.Days),
			"output":     fmt.Sprintf("%g years", years),
			"conversion": "days to years",
		})
	default:
		return &domain.ValidationError{Field: "body", Reason: "must provide either 'years' or 'days'"}
	}
	return nil
}

// GET /model-info
func (r *Router) handleModelInfo(w http.ResponseWriter, req *http.Request) error {
	info, err := r.svc.ModelInfo()
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"numeric_features":     info.NumericFeatures,
		"categorical_features": info.CategoricalFeatures,
		"total_features":       info.TotalFeatures,
		"model_type":           "Neural Network (MLP)",
		"framework":            "TensorFlow/Keras",
		"input_format": map[string]string{
			"age":         "Age in years (1-120), converted to days automatically",
			"gender":      "1=female, 2=male",
			"height":      "Height in cm",
			"weight":      "Weight in kg",
			"ap_hi":       "Systolic blood pressure",
			"ap_lo":       "Diastolic blood pressure",
			"cholesterol": "1=normal, 2=above normal, 3=well above normal",
			"gluc":        "1=normal, 2=above normal, 3=well above normal",
			"smoke":       "0=no, 1=yes",
			"alco":        "0=no, 1=yes",
			"active":      "0=no, 1=yes",
		},
	})
	return nil
}

// GET /example
func (r *Router) handleExample(w http.ResponseWriter, req *http.Request) error {
	writeJSON(w, http.StatusOK, map[string]any{
		"example_data": domain.InputRecord{
			Age:         50,
			Gender:      2,
			Height:      168,
			Weight:      62,
			ApHi:        110,
			ApLo:        80,
			Cholesterol: 1,
			Gluc:        1,
			Smoke:       0,
			Alco:        0,
			Active:      1,
		},
		"note": "Age input is in years and is converted to days for the model automatically",
		"conversion_example": map[string]any{
			"input_age_years":    50,
			"converted_age_days": features.AgeToDays(50),
			"formula":            "age_days = age_years * 365",
		},
	})
	return nil
}

// GET /saved-data?page=&per_page=
func (r *Router) handleSavedData(w http.ResponseWriter, req *http.Request) error {
	page, _ := strconv.Atoi(req.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(req.URL.Query().Get("per_page"))

	result, err := r.svc.ListSaved(req.Context(), page, perPage)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": result.Data,
		"pagination": map[string]any{
			"page":     result.Page,
			"per_page": result.PerPage,
			"total":    result.Total,
			"pages":    result.Pages,
		},
		"status": "success",
	})
	return nil
}

// GET /saved-data/{id}
func (r *Router) handleSavedDataByID(w http.ResponseWriter, req *http.Request) error {
	id, err := strconv.Atoi(chi.URLParam(req, "id"))
	if err != nil {
		return domain.ErrNotFound
	}
	rec, err := r.svc.GetSaved(req.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("data with id %d not found: %w", id, domain.ErrNotFound)
		}
		return err
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":   rec,
		"status": "success",
	})
	return nil
}

// GET /saved-data/stats
func (r *Router) handleStats(w http.ResponseWriter, req *http.Request) error {
	stats, err := r.svc.Stats(req.Context())
	if err != nil {
		return err
	}
	if stats.TotalRecords == 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "No data saved yet",
			"stats":   map[string]int{"total_records": 0},
			"status":  "success",
		})
		return nil
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"stats":  stats,
		"status": "success",
	})
	return nil
}

// GET /export-data
func (r *Router) handleExportData(w http.ResponseWriter, req *http.Request) error {
	path, abs, exists := r.svc.ExportInfo()
	if !exists {
		return fmt.Errorf("no data to export yet: %w", domain.ErrNotFound)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Data is available for download",
		"file_path": path,
		"note":      fmt.Sprintf("CSV file is stored at: %s", abs),
		"status":    "success",
	})
	return nil
}
