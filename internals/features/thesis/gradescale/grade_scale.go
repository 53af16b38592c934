// file: internals/features/thesis/gradescale/grade_scale.go
package gradescale

import "math"

// Scale bounds of the final thesis grade.
const (
	MinGrade     = 2.00
	PassingGrade = 3.00
	MaxGrade     = 6.00

	MinScore     = 0.0
	PassingScore = 50.0
	MaxScore     = 100.0
)

type FinalGrade struct {
	Numeric float64
	Passed  bool
}

// ToFinalGrade maps a committee aggregate score (0..100) onto the 2.00–6.00
// scale. Scores under 50 are a fail (2.00); 50..100 map linearly onto
// 3.00..6.00, rounded half away from zero to two decimals. Out-of-range
// input is clamped.
func ToFinalGrade(aggregateScore float64) FinalGrade {
	score := clamp(aggregateScore)
	if score < PassingScore {
		return FinalGrade{Numeric: MinGrade, Passed: false}
	}

	span := (MaxGrade - PassingGrade) / (MaxScore - PassingScore)
	numeric := round2(PassingGrade + (score-PassingScore)*span)
	if numeric > MaxGrade {
		numeric = MaxGrade
	}
	return FinalGrade{Numeric: numeric, Passed: numeric >= PassingGrade}
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
