package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/claude/fitrec/internal/features"
)

// WriteBranchA writes the Branch A matrix with its targets as CSV.
func WriteBranchA(w io.Writer, examples []Example) error {
	cols, _ := features.Columns()
	header := append(append([]string{"line"}, cols...), "target_intensity")
	return writeMatrix(w, header, examples, func(ex Example) []float64 {
		return append(ex.A.Slice(), ex.Intensity)
	})
}

// WriteBranchB writes the Branch B matrix with its targets as CSV.
func WriteBranchB(w io.Writer, examples []Example) error {
	_, cols := features.Columns()
	header := append(append([]string{"line"}, cols...), "target_suitability", "target_readiness")
	return writeMatrix(w, header, examples, func(ex Example) []float64 {
		return append(ex.B.Slice(), ex.Suitability, ex.Readiness)
	})
}

func writeMatrix(w io.Writer, header []string, examples []Example, row func(Example) []float64) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	rec := make([]string, len(header))
	for _, ex := range examples {
		rec[0] = strconv.Itoa(ex.Line)
		for i, v := range row(ex) {
			rec[i+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing line %d: %w", ex.Line, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStats writes run statistics as indented JSON.
func WriteStats(w io.Writer, s *Stats) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		RowsRead    int              `json:"rows_read"`
		RowsLabeled int              `json:"rows_labeled"`
		CacheHits   int              `json:"cache_hits"`
		CacheErrors int              `json:"cache_errors"`
		DurationMS  int64            `json:"duration_ms"`
		Quality     features.Quality `json:"quality"`
	}{s.RowsRead, s.RowsLabeled, s.CacheHits, s.CacheErrors, s.Duration.Milliseconds(), s.Quality})
}
