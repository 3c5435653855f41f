package mood

// Analysis is a classification together with its insights.
type Analysis struct {
	Classification
	Insights []string `json:"insights"`
}

// Engine analyzes a batch of per-track audio features.
type Engine interface {
	Analyze(records []*AudioFeatures) Analysis
}

// Analyzer is the stateless Engine. The zero value is ready to use and
// safe for concurrent use.
type Analyzer struct{}

// Analyze implements Engine.
func (Analyzer) Analyze(records []*AudioFeatures) Analysis {
	return Analyze(records)
}

// Analyze aggregates records, classifies the averages and attaches
// insights. An empty batch yields the neutral zero-confidence result with
// no insights.
func Analyze(records []*AudioFeatures) Analysis {
	avg := Aggregate(records)
	a := Analysis{
		Classification: Classify(avg),
		Insights:       []string{},
	}
	if avg.Count > 0 {
		a.Insights = Insights(avg)
	}
	return a
}

var _ Engine = Analyzer{}
