// Package bracket evaluates ordered threshold tables.
//
// A Table is a list of (threshold, value) rows checked in order; the first
// row whose threshold the input satisfies wins. Rule ladders that used to be
// nested conditionals (readiness adjustments, suitability bands, performance
// classes) are expressed as tables so their boundary semantics can be read
// and tested in one place.
package bracket

// Op is the comparison applied between the input and a row threshold.
type Op int

const (
	AtLeast Op = iota // x >= threshold
	Above             // x >  threshold
	AtMost            // x <= threshold
	Below             // x <  threshold
)

func (o Op) match(x, threshold float64) bool {
	switch o {
	case AtLeast:
		return x >= threshold
	case Above:
		return x > threshold
	case AtMost:
		return x <= threshold
	case Below:
		return x < threshold
	}
	return false
}

// Row is one bracket of a Table.
type Row[V any] struct {
	Op        Op
	Threshold float64
	Value     V
}

// Table is an ordered list of rows with a fallback value for inputs no row
// matches.
type Table[V any] struct {
	Rows     []Row[V]
	Fallback V
}

// Lookup returns the value of the first row matching x, or the fallback.
func (t Table[V]) Lookup(x float64) V {
	v, _ := t.Find(x)
	return v
}

// Find is Lookup that also reports the index of the matching row, or -1 when
// the fallback was used.
func (t Table[V]) Find(x float64) (V, int) {
	for i, r := range t.Rows {
		if r.Op.match(x, r.Threshold) {
			return r.Value, i
		}
	}
	return t.Fallback, -1
}

// Descending builds a table of "x >= threshold" rows. Thresholds must be
// given highest first; the last value is the fallback for anything below
// the lowest threshold.
func Descending[V any](thresholds []float64, values []V) Table[V] {
	if len(values) != len(thresholds)+1 {
		panic("bracket: Descending needs one more value than thresholds")
	}
	rows := make([]Row[V], len(thresholds))
	for i, th := range thresholds {
		rows[i] = Row[V]{Op: AtLeast, Threshold: th, Value: values[i]}
	}
	return Table[V]{Rows: rows, Fallback: values[len(values)-1]}
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
