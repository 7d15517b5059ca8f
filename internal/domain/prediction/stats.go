package prediction

// DateRange brackets the oldest and newest stored records.
type DateRange struct {
	FirstRecord string `json:"first_record"`
	LastRecord  string `json:"last_record"`
}

// DataStats summarizes all stored records. Computed on demand, never cached.
type DataStats struct {
	TotalRecords       int       `json:"total_records"`
	HighRiskCount      int       `json:"high_risk_predictions"`
	LowRiskCount       int       `json:"low_risk_predictions"`
	HighRiskPercentage float64   `json:"high_risk_percentage"`
	AverageProbability float64   `json:"average_probability"`
	DateRange          DateRange `json:"date_range"`
}

// ComputeStats aggregates over records in insertion order (first = oldest).
// With no records only TotalRecords is meaningful; callers should check it
// before reading the other fields.
func ComputeStats(records []*StoredRecord) DataStats {
	stats := DataStats{TotalRecords: len(records)}
	if len(records) == 0 {
		return stats
	}

	sum := 0.0
	for _, r := range records {
		if r.Prediction.Risk == 1 {
			stats.HighRiskCount++
		}
		sum += r.Prediction.Probability
	}
	stats.LowRiskCount = stats.TotalRecords - stats.HighRiskCount
	stats.HighRiskPercentage = Round(float64(stats.HighRiskCount)/float64(stats.TotalRecords)*100, 2)
	stats.AverageProbability = Round(sum/float64(stats.TotalRecords), 4)
	stats.DateRange = DateRange{
		FirstRecord: records[0].Timestamp,
		LastRecord:  records[len(records)-1].Timestamp,
	}
	return stats
}
