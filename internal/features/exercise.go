package features

import (
	"strings"

	"github.com/claude/fitrec/internal/bracket"
)

// Keyword lists used to describe an exercise from its name alone.
var (
	movementPatterns = []string{"push", "pull", "squat", "hinge", "carry", "rotation"}

	chestWords      = []string{"bench", "press", "push"}
	backWords       = []string{"row", "pull", "deadlift"}
	legWords        = []string{"squat", "lunge", "leg"}
	shoulderWords   = []string{"shoulder", "press"}
	cardioWords     = []string{"run", "cycle", "swim", "row"}
	compoundWords   = []string{"squat", "deadlift", "bench", "press"}
	bodyweightWords = []string{"push", "pull", "plank", "burpee"}
	complexWords    = []string{"deadlift", "olympic", "muscle", "planche"}
	moderateWords   = []string{"squat", "bench", "pull", "handstand"}
	noEquipWords    = []string{"push", "pull", "plank"}
	freeWeightWords = []string{"barbell", "dumbbell"}
)

// ExerciseTraits are keyword-derived descriptors of an exercise.
type ExerciseTraits struct {
	Chest, Back, Legs, Shoulders float64
	Strength, Cardio             float64 // movement type one-hot
	Difficulty                   float64
	Compound                     float64
	IsCardio                     float64
	Bodyweight                   float64
	Equipment                    float64
	Skill                        float64
}

// DescribeExercise derives traits from an exercise name and the user's
// experience level.
func DescribeExercise(name string, experience float64) ExerciseTraits {
	n := strings.ToLower(name)
	t := ExerciseTraits{
		Chest:      flag(n, chestWords),
		Back:       flag(n, backWords),
		Legs:       flag(n, legWords),
		Shoulders:  flag(n, shoulderWords),
		Difficulty: difficulty(n),
		Compound:   flag(n, compoundWords),
		IsCardio:   flag(n, cardioWords),
		Bodyweight: flag(n, bodyweightWords),
	}
	if t.IsCardio == 1 {
		t.Cardio = 1
	} else {
		t.Strength = 1
	}
	switch {
	case containsAny(n, noEquipWords):
		t.Equipment = 0
	case containsAny(n, freeWeightWords):
		t.Equipment = 0.7
	default:
		t.Equipment = 0.4
	}
	t.Skill = bracket.Clamp(t.Difficulty-experience*0.1, 0.1, 1.0)
	return t
}

// MovementPatterns returns the one-hot movement pattern encoding of name.
func MovementPatterns(name string) [6]float64 {
	n := strings.ToLower(name)
	var out [6]float64
	for i, p := range movementPatterns {
		if strings.Contains(n, p) {
			out[i] = 1
		}
	}
	return out
}

func difficulty(n string) float64 {
	switch {
	case containsAny(n, complexWords):
		return 0.8
	case containsAny(n, moderateWords):
		return 0.6
	}
	return 0.3
}

func flag(n string, words []string) float64 {
	if containsAny(n, words) {
		return 1
	}
	return 0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
