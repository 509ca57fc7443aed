package features

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/claude/fitrec/internal/models"
)

func TestParseWorkout(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []models.ExerciseSetRecord
		dropped int
	}{
		{
			name: "two segments",
			in:   "10x50x3|8x60x2",
			want: []models.ExerciseSetRecord{{Reps: 10, Weight: 50, Sets: 3}, {Reps: 8, Weight: 60, Sets: 2}},
		},
		{
			name:    "all invalid",
			in:      "0x50x3|10x-5x2",
			dropped: 2,
		},
		{
			name: "sets default to one",
			in:   "12x20",
			want: []models.ExerciseSetRecord{{Reps: 12, Weight: 20, Sets: 1}},
		},
		{
			name: "whitespace and upper case",
			in:   " 5 X 100 X 5 |  3x102.5x1 ",
			want: []models.ExerciseSetRecord{{Reps: 5, Weight: 100, Sets: 5}, {Reps: 3, Weight: 102.5, Sets: 1}},
		},
		{
			name:    "garbage mixed with valid",
			in:      "abc|10x50x3|1x2x3x4|10",
			want:    []models.ExerciseSetRecord{{Reps: 10, Weight: 50, Sets: 3}},
			dropped: 3,
		},
		{
			name: "empty",
			in:   "",
		},
		{
			name: "trailing separator",
			in:   "10x50x3|",
			want: []models.ExerciseSetRecord{{Reps: 10, Weight: 50, Sets: 3}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q Quality
			got := ParseWorkout(tt.in, &q)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseWorkout(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
			if q.DroppedSegments != tt.dropped {
				t.Errorf("dropped = %d, want %d", q.DroppedSegments, tt.dropped)
			}
		})
	}
}

// TestParseFormatRoundTrip verifies parse(format(parse(s))) == parse(s).
func TestParseFormatRoundTrip(t *testing.T) {
	inputs := []string{
		"10x50x3|8x60x2",
		"5x102.5x5 | 12x20",
		"1x0.5x1|30x1x10|3x227.25x2",
		"bad|10x50x3",
	}
	for _, s := range inputs {
		first := ParseWorkout(s, nil)
		second := ParseWorkout(FormatWorkout(first), nil)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("round trip of %q mismatch (-first +second):\n%s", s, diff)
		}
	}
}

func TestFormatWorkout(t *testing.T) {
	got := FormatWorkout([]models.ExerciseSetRecord{{Reps: 10, Weight: 52.5, Sets: 3}, {Reps: 8, Weight: 60, Sets: 1}})
	if want := "10x52.5x3 | 8x60x1"; got != want {
		t.Errorf("FormatWorkout = %q, want %q", got, want)
	}
}
