// Package suitability maps suitability scores to ordered categories and the
// action a recommendation layer should take.
package suitability

import (
	"math"

	"github.com/claude/fitrec/internal/bracket"
)

// Category is one of six ordered suitability bands. Higher is better.
type Category int

const (
	Ineffective Category = iota
	Low
	Moderate
	Good
	VeryGood
	PerfectFit
)

// Action is the recommendation attached to a category.
type Action string

const (
	ActionLockIn    Action = "LOCK-IN"
	ActionRecommend Action = "RECOMMEND"
	ActionKeep      Action = "KEEP"
	ActionAdjust    Action = "ADJUST"
	ActionSupport   Action = "SUPPORT"
	ActionRemove    Action = "REMOVE"
)

type band struct {
	category    Category
	name        string
	action      Action
	description string
	lower       float64
	upper       float64
}

// bands are listed lowest first and indexed by Category.
var bands = [...]band{
	{Ineffective, "Ineffective", ActionRemove, "Not suitable for the current state; remove from the plan", 0, 0.4},
	{Low, "Low", ActionSupport, "Use only as a supporting movement", 0.4, 0.6},
	{Moderate, "Moderate", ActionAdjust, "Usable with adjustments to load or volume", 0.6, 0.75},
	{Good, "Good", ActionKeep, "Good fit; keep in the plan", 0.75, 0.85},
	{VeryGood, "Very Good", ActionRecommend, "Strong fit; recommend", 0.85, 0.95},
	{PerfectFit, "Perfect Fit", ActionLockIn, "Ideal fit; lock into the plan", 0.95, 1.0},
}

// table evaluates [lower, upper) bands highest first; 1.0 falls in Perfect Fit.
var table = bracket.Descending(
	[]float64{0.95, 0.85, 0.75, 0.6, 0.4},
	[]Category{PerfectFit, VeryGood, Good, Moderate, Low, Ineffective},
)

// Categories lists every category lowest first.
var Categories = []Category{Ineffective, Low, Moderate, Good, VeryGood, PerfectFit}

func (c Category) String() string { return bands[c].name }

// Action returns the recommended action for c.
func (c Category) Action() Action { return bands[c].action }

// Description returns a human-readable explanation of c.
func (c Category) Description() string { return bands[c].description }

// Range returns the score interval of c. The upper bound is exclusive except
// for Perfect Fit.
func (c Category) Range() (lower, upper float64) { return bands[c].lower, bands[c].upper }

// Midpoint returns the centre of c's score interval.
func (c Category) Midpoint() float64 { return (bands[c].lower + bands[c].upper) / 2 }

// Classify maps a score to its category. Scores outside [0,1] are clamped;
// NaN is treated as 0.
func Classify(score float64) Category {
	if math.IsNaN(score) {
		score = 0
	}
	return table.Lookup(bracket.Clamp(score, 0, 1))
}

// Result is the serializable form of a classification.
type Result struct {
	Score       float64 `json:"score"`
	Category    string  `json:"category"`
	Rank        int     `json:"rank"`
	Action      Action  `json:"action"`
	Description string  `json:"description"`
}

// Describe classifies score and returns the full result.
func Describe(score float64) Result {
	c := Classify(score)
	return Result{
		Score:       score,
		Category:    c.String(),
		Rank:        int(c),
		Action:      c.Action(),
		Description: c.Description(),
	}
}

// Distribution returns the percentage of scores falling in each category,
// keyed by category name. Every category is present.
func Distribution(scores []float64) map[string]float64 {
	counts := make(map[Category]int, len(bands))
	for _, s := range scores {
		counts[Classify(s)]++
	}
	out := make(map[string]float64, len(bands))
	for _, c := range Categories {
		if len(scores) == 0 {
			out[c.String()] = 0
			continue
		}
		out[c.String()] = float64(counts[c]) / float64(len(scores)) * 100
	}
	return out
}
