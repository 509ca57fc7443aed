package features

import (
	"math"
	"testing"

	"github.com/claude/fitrec/internal/models"
)

// TestColumnContract verifies every column has a unique, non-empty name and
// that the Branch A output column is last in Branch B.
func TestColumnContract(t *testing.T) {
	for name, cols := range map[string][]string{"A": BranchAColumns[:], "B": BranchBColumns[:]} {
		seen := make(map[string]bool)
		for i, c := range cols {
			if c == "" {
				t.Errorf("branch %s column %d has no name", name, i)
			}
			if seen[c] {
				t.Errorf("branch %s column %q duplicated", name, c)
			}
			seen[c] = true
		}
	}
	if BranchAWidth != 20 || BranchBWidth != 40 {
		t.Errorf("widths = %d/%d, want 20/40", BranchAWidth, BranchBWidth)
	}
	if IntensityIndex != BranchBWidth-1 || BranchBColumns[IntensityIndex] != "branch_a_intensity" {
		t.Errorf("intensity column = %d %q", IntensityIndex, BranchBColumns[IntensityIndex])
	}
}

func sampleInput() Input {
	return Input{
		Profile: models.UserProfile{
			Age: 30, HeightM: 1.8, WeightKg: 81, ExperienceLevel: 2,
			WorkoutFrequency: 4, RestingHR: 60, Estimated1RM: 120, MaxPace: 1,
			Goal: models.GoalHypertrophy,
		},
		State:        models.SubjectiveState{Mood: 4, Fatigue: 2, Effort: 3},
		Exercise:     models.Exercise{Name: "Barbell Bench Press"},
		Coefficients: models.IntensityCoefficients{ResistanceIntensity: 0.8, CardioIntensity: 0.2, VolumeLoad: 0.3, RestDensity: 0.7, TempoFactor: 1},
	}
}

func TestBuildBranchA(t *testing.T) {
	v := BuildBranchA(sampleInput())
	if !approx(v[aBMI], 81/(1.8*1.8)) {
		t.Errorf("bmi = %v, want derived value", v[aBMI])
	}
	if v[aPush] != 0 || v[aSquat] != 0 {
		t.Errorf("movement patterns = %v", v[aPush:aRotation+1])
	}
	if v[aGoalHypertrophy] != 1 || v[aGoalStrength] != 0 || v[aGoalGeneral] != 0 {
		t.Errorf("goal one-hot = %v", v[aGoalStrength:aGoalGeneral+1])
	}
	if v[aResistance] != 0.8 || v[aTempo] != 1 {
		t.Errorf("coefficients = %v", v[aResistance:])
	}
}

func TestBuildBranchAUnknownGoalIsGeneral(t *testing.T) {
	in := sampleInput()
	in.Profile.Goal = ""
	v := BuildBranchA(in)
	if v[aGoalGeneral] != 1 {
		t.Errorf("goal_general_fitness = %v, want 1", v[aGoalGeneral])
	}
}

func TestBuildBranchB(t *testing.T) {
	var q Quality
	in := sampleInput()
	v := BuildBranchB(in, 0.72, &q)

	if v[IntensityIndex] != 0.72 {
		t.Errorf("intensity column = %v, want 0.72", v[IntensityIndex])
	}
	// Mood 4 (+0.05), fatigue 2 (+0.08), effort 3 (0).
	if !approx(v[bReadiness], 1.13) {
		t.Errorf("readiness = %v, want 1.13", v[bReadiness])
	}
	if !approx(v[bStrengthToWeight], 120.0/81) {
		t.Errorf("strength_to_weight = %v", v[bStrengthToWeight])
	}
	if !approx(v[bTrainingDensity], 0.3/0.8) {
		t.Errorf("training_density = %v, want %v", v[bTrainingDensity], 0.3/0.8)
	}
	if v[bChest] != 1 || v[bShoulders] != 1 || v[bCompound] != 1 {
		t.Errorf("bench press traits = chest %v shoulders %v compound %v", v[bChest], v[bShoulders], v[bCompound])
	}
	if v[bEquipment] != 0.7 {
		t.Errorf("equipment = %v, want 0.7 for barbell", v[bEquipment])
	}
	if !approx(v[bSkill], 0.4) {
		t.Errorf("skill = %v, want 0.6-0.2", v[bSkill])
	}
	if !approx(v[bHRRest], 60.0/120) {
		t.Errorf("hr_rest = %v, want profile RHR normalized", v[bHRRest])
	}
	if !approx(v[bSleep], 7.0/12) {
		t.Errorf("sleep = %v, want default normalized", v[bSleep])
	}
	// Seven indicators were absent; resting HR came from the profile.
	if q.Fallbacks != 7 {
		t.Errorf("fallbacks = %d, want 7", q.Fallbacks)
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Errorf("column %s = %v", BranchBColumns[i], x)
		}
	}
}

func TestWithIntensity(t *testing.T) {
	v := BuildBranchB(sampleInput(), 0, nil)
	w := v.WithIntensity(0.5)
	if v[IntensityIndex] != 0 || w[IntensityIndex] != 0.5 {
		t.Errorf("WithIntensity mutated or missed: %v %v", v[IntensityIndex], w[IntensityIndex])
	}
}

func TestDescribeExerciseCardio(t *testing.T) {
	tr := DescribeExercise("Treadmill Running", 1)
	if tr.IsCardio != 1 || tr.Cardio != 1 || tr.Strength != 0 {
		t.Errorf("running traits = %+v", tr)
	}
	if tr.Difficulty != 0.3 || tr.Equipment != 0.4 {
		t.Errorf("running difficulty/equipment = %v/%v", tr.Difficulty, tr.Equipment)
	}
}

func TestDerive(t *testing.T) {
	in := sampleInput()
	in.Readiness = 1.2
	d := Derive(in)
	if d.Readiness != 1.2 {
		t.Errorf("explicit readiness ignored: %v", d.Readiness)
	}
	want := d.StrengthToWeight*0.3 + 1.2*0.2 + d.SePAComposite*0.2 + d.TrainingDensity*0.3
	if !approx(d.OverallPerformance, want) {
		t.Errorf("overall performance = %v, want %v", d.OverallPerformance, want)
	}
	if !approx(d.MetabolicStress, 0.8*0.6+0.2*0.4) {
		t.Errorf("metabolic stress = %v", d.MetabolicStress)
	}
}
