package models

// ExerciseSetRecord is one "reps x weight x sets" segment of a workout string.
// All fields are strictly positive.
type ExerciseSetRecord struct {
	Reps   float64 `json:"reps"`
	Weight float64 `json:"weight"`
	Sets   float64 `json:"sets"`
}

// IntensityCoefficients are the five bounded load descriptors derived from a
// workout and the user's baseline.
type IntensityCoefficients struct {
	ResistanceIntensity float64 `json:"resistance_intensity"` // [0,2]
	CardioIntensity     float64 `json:"cardio_intensity"`     // [0,1.5]
	VolumeLoad          float64 `json:"volume_load"`          // [0,1]
	RestDensity         float64 `json:"rest_density"`         // [0,1]
	TempoFactor         float64 `json:"tempo_factor"`         // [0.5,1.5]
}

// MetabolicStress blends resistance and cardio load.
func (c IntensityCoefficients) MetabolicStress() float64 {
	return c.ResistanceIntensity*0.6 + c.CardioIntensity*0.4
}

// Range is a closed interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether x lies in [Min, Max].
func (r Range) Contains(x float64) bool {
	return x >= r.Min && x <= r.Max
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 {
	return (r.Min + r.Max) / 2
}

// WorkoutPrescription is the decoded, actionable form of a prediction.
type WorkoutPrescription struct {
	Goal              Goal    `json:"goal"`
	PredictedValue    float64 `json:"predicted_1rm"`
	Readiness         float64 `json:"readiness_factor"`
	Adjusted1RM       float64 `json:"adjusted_1rm"`
	WeightRange       Range   `json:"training_weight_range"`
	RecommendedWeight float64 `json:"recommended_weight"`
	RepRange          Range   `json:"rep_range"`
	RecommendedReps   int     `json:"recommended_reps"`
	SetsRange         Range   `json:"sets_range"`
	RecommendedSets   int     `json:"recommended_sets"`
	RestRange         Range   `json:"rest_range_min"`
	RecommendedRest   float64 `json:"recommended_rest_min"`
	Adjustment        string  `json:"adjustment"`
}
