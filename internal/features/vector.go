package features

import (
	"math"

	"github.com/claude/fitrec/internal/models"
)

// SchemaVersion identifies the column contract below. Any change to column
// order or meaning needs a new version and new model artifacts.
const SchemaVersion = "fitrec.features/v4"

// Branch A column indices.
const (
	aAge = iota
	aWeightKg
	aHeightM
	aBMI
	aExperience
	aPush
	aPull
	aSquat
	aHinge
	aCarry
	aRotation
	aGoalStrength
	aGoalHypertrophy
	aGoalEndurance
	aGoalGeneral
	aResistance
	aCardio
	aVolume
	aRestDensity
	aTempo

	BranchAWidth
)

// Branch B column indices.
const (
	bAge = iota
	bWeightKg
	bHeightM
	bBMI
	bExperience
	bFrequency
	bRestingHR
	bMood
	bFatigue
	bEffort
	bReadiness
	bStrengthToWeight
	bPerformance
	bTrainingDensity
	bResistance
	bCardio
	bVolume
	bRestDensity
	bTempo
	bChest
	bBack
	bLegs
	bShoulders
	bMovementStrength
	bMovementCardio
	bDifficulty
	bCompound
	bIsCardio
	bBodyweight
	bEquipment
	bSkill
	bHRRest
	bHRAvg
	bHRMax
	bSteps
	bDistance
	bCalories
	bVO2Max
	bSleep
	bIntensity

	BranchBWidth
)

// BranchA is the intensity-stage input vector.
type BranchA [BranchAWidth]float64

// BranchB is the suitability-stage input vector. Its last column is the
// Branch A intensity output.
type BranchB [BranchBWidth]float64

// IntensityIndex is the Branch B column filled from Branch A's output.
const IntensityIndex = bIntensity

// BranchAColumns names every Branch A column in serialized order.
var BranchAColumns = [BranchAWidth]string{
	aAge:             "age",
	aWeightKg:        "weight_kg",
	aHeightM:         "height_m",
	aBMI:             "bmi",
	aExperience:      "experience_level",
	aPush:            "exercise_push",
	aPull:            "exercise_pull",
	aSquat:           "exercise_squat",
	aHinge:           "exercise_hinge",
	aCarry:           "exercise_carry",
	aRotation:        "exercise_rotation",
	aGoalStrength:    "goal_strength",
	aGoalHypertrophy: "goal_hypertrophy",
	aGoalEndurance:   "goal_endurance",
	aGoalGeneral:     "goal_general_fitness",
	aResistance:      "resistance_intensity",
	aCardio:          "cardio_intensity",
	aVolume:          "volume_load",
	aRestDensity:     "rest_density",
	aTempo:           "tempo_factor",
}

// BranchBColumns names every Branch B column in serialized order.
var BranchBColumns = [BranchBWidth]string{
	bAge:              "age",
	bWeightKg:         "weight_kg",
	bHeightM:          "height_m",
	bBMI:              "bmi",
	bExperience:       "experience_level",
	bFrequency:        "workout_frequency",
	bRestingHR:        "resting_heart_rate",
	bMood:             "mood",
	bFatigue:          "fatigue",
	bEffort:           "effort",
	bReadiness:        "readiness_factor",
	bStrengthToWeight: "strength_to_weight_ratio",
	bPerformance:      "overall_performance_score",
	bTrainingDensity:  "training_density",
	bResistance:       "resistance_intensity",
	bCardio:           "cardio_intensity",
	bVolume:           "volume_load",
	bRestDensity:      "rest_density",
	bTempo:            "tempo_factor",
	bChest:            "muscle_chest",
	bBack:             "muscle_back",
	bLegs:             "muscle_legs",
	bShoulders:        "muscle_shoulders",
	bMovementStrength: "movement_strength",
	bMovementCardio:   "movement_cardio",
	bDifficulty:       "difficulty",
	bCompound:         "is_compound",
	bIsCardio:         "is_cardio",
	bBodyweight:       "is_bodyweight",
	bEquipment:        "equipment_load",
	bSkill:            "skill_requirement",
	bHRRest:           "hr_rest",
	bHRAvg:            "hr_avg",
	bHRMax:            "hr_max",
	bSteps:            "steps",
	bDistance:         "distance_km",
	bCalories:         "calories",
	bVO2Max:           "vo2max",
	bSleep:            "sleep_hours",
	bIntensity:        "branch_a_intensity",
}

// indicator is one wearable measurement with its population default and
// normalizing divisor.
type indicator struct {
	name       string
	def, scale float64
}

var indicators = [8]indicator{
	{"hr_rest", 70, 120},
	{"hr_avg", 85, 180},
	{"hr_max", 120, 200},
	{"steps", 8000, 20000},
	{"distance_km", 5, 20},
	{"calories", 300, 1000},
	{"vo2max", 35, 60},
	{"sleep_hours", 7, 12},
}

// Input is everything needed to build both vectors for one
// (user, state, exercise) item.
type Input struct {
	Profile      models.UserProfile
	State        models.SubjectiveState
	Exercise     models.Exercise
	Coefficients models.IntensityCoefficients
	Health       models.HealthIndicators
	// Readiness is the estimated readiness factor. Zero means derive it from
	// State.
	Readiness float64
}

// Derived holds engineered features computed from an Input.
type Derived struct {
	Readiness          float64 `json:"readiness_factor"`
	StrengthToWeight   float64 `json:"strength_to_weight_ratio"`
	TrainingDensity    float64 `json:"training_density"`
	SePAComposite      float64 `json:"sepa_composite"`
	OverallPerformance float64 `json:"overall_performance_score"`
	MetabolicStress    float64 `json:"metabolic_stress"`
}

// Derive computes the engineered features of in.
func Derive(in Input) Derived {
	r := in.Readiness
	if r == 0 {
		r = EstimateReadiness(in.State)
	}
	var stw float64
	if in.Profile.WeightKg > 0 {
		stw = in.Profile.Estimated1RM / in.Profile.WeightKg
	}
	density := in.Coefficients.VolumeLoad / (in.Coefficients.RestDensity + 0.1)
	sepa := SePAComposite(in.State)
	return Derived{
		Readiness:          r,
		StrengthToWeight:   stw,
		TrainingDensity:    density,
		SePAComposite:      sepa,
		OverallPerformance: stw*0.3 + r*0.2 + sepa*0.2 + density*0.3,
		MetabolicStress:    in.Coefficients.MetabolicStress(),
	}
}

// BuildBranchA assembles the intensity-stage vector.
func BuildBranchA(in Input) BranchA {
	p := in.Profile.WithDerivedBMI()
	var v BranchA
	v[aAge] = p.Age
	v[aWeightKg] = p.WeightKg
	v[aHeightM] = p.HeightM
	v[aBMI] = p.BMI
	v[aExperience] = p.ExperienceLevel

	patterns := MovementPatterns(in.Exercise.Name)
	copy(v[aPush:aRotation+1], patterns[:])

	goal := p.Goal
	if goal == "" {
		goal = models.GoalGeneralFitness
	}
	for i, g := range models.Goals {
		if g == goal {
			v[aGoalStrength+i] = 1
		}
	}

	c := in.Coefficients
	v[aResistance] = c.ResistanceIntensity
	v[aCardio] = c.CardioIntensity
	v[aVolume] = c.VolumeLoad
	v[aRestDensity] = c.RestDensity
	v[aTempo] = c.TempoFactor
	return v
}

// BuildBranchB assembles the suitability-stage vector. intensity is Branch A's
// output for the same item; Branch B cannot be built before it is known.
// Missing health indicators fall back to defaults and are counted in q.
func BuildBranchB(in Input, intensity float64, q *Quality) BranchB {
	p := in.Profile.WithDerivedBMI()
	d := Derive(in)
	var v BranchB
	v[bAge] = p.Age
	v[bWeightKg] = p.WeightKg
	v[bHeightM] = p.HeightM
	v[bBMI] = p.BMI
	v[bExperience] = p.ExperienceLevel
	v[bFrequency] = p.WorkoutFrequency
	v[bRestingHR] = p.RestingHR

	v[bMood] = float64(in.State.Mood)
	v[bFatigue] = float64(in.State.Fatigue)
	v[bEffort] = float64(in.State.Effort)
	v[bReadiness] = d.Readiness

	v[bStrengthToWeight] = d.StrengthToWeight
	v[bPerformance] = d.OverallPerformance
	v[bTrainingDensity] = d.TrainingDensity

	c := in.Coefficients
	v[bResistance] = c.ResistanceIntensity
	v[bCardio] = c.CardioIntensity
	v[bVolume] = c.VolumeLoad
	v[bRestDensity] = c.RestDensity
	v[bTempo] = c.TempoFactor

	t := DescribeExercise(in.Exercise.Name, p.ExperienceLevel)
	v[bChest] = t.Chest
	v[bBack] = t.Back
	v[bLegs] = t.Legs
	v[bShoulders] = t.Shoulders
	v[bMovementStrength] = t.Strength
	v[bMovementCardio] = t.Cardio
	v[bDifficulty] = t.Difficulty
	v[bCompound] = t.Compound
	v[bIsCardio] = t.IsCardio
	v[bBodyweight] = t.Bodyweight
	v[bEquipment] = t.Equipment
	v[bSkill] = t.Skill

	h := in.Health
	if h.RestingHR == nil && p.RestingHR > 0 {
		rhr := p.RestingHR
		h.RestingHR = &rhr
	}
	vals := [8]*float64{h.RestingHR, h.AvgHR, h.MaxHR, h.Steps, h.DistanceKm, h.Calories, h.VO2Max, h.SleepHours}
	for i, ind := range indicators {
		x := ind.def
		if vals[i] != nil && !math.IsNaN(*vals[i]) {
			x = *vals[i]
		} else {
			q.Fallback(ind.name)
		}
		v[bHRRest+i] = x / ind.scale
	}

	v[bIntensity] = intensity
	return v
}

// WithIntensity returns a copy of v with the Branch A output column set.
func (v BranchB) WithIntensity(intensity float64) BranchB {
	v[bIntensity] = intensity
	return v
}

// Slice returns the vector as a slice for scoring.
func (v BranchA) Slice() []float64 { return v[:] }

// Slice returns the vector as a slice for scoring.
func (v BranchB) Slice() []float64 { return v[:] }

// Columns returns both column lists as slices.
func Columns() (branchA, branchB []string) {
	return BranchAColumns[:], BranchBColumns[:]
}
