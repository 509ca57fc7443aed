package features

import "maps"

// Quality counts non-fatal corrections made while building features. Every
// method is safe on a nil receiver so callers that do not care can pass nil.
type Quality struct {
	Fallbacks       int            `json:"fallbacks"`
	FallbackFields  map[string]int `json:"fallback_fields,omitempty"`
	DroppedSegments int            `json:"dropped_segments"`
	Clamps          int            `json:"clamps"`
	ClampFields     map[string]int `json:"clamp_fields,omitempty"`
	Defaulted       map[string]int `json:"defaulted,omitempty"`
}

// Fallback records that field was replaced by its documented default.
func (q *Quality) Fallback(field string) {
	if q == nil {
		return
	}
	q.Fallbacks++
	if q.FallbackFields == nil {
		q.FallbackFields = make(map[string]int)
	}
	q.FallbackFields[field]++
}

// Dropped records n discarded workout segments.
func (q *Quality) Dropped(n int) {
	if q == nil {
		return
	}
	q.DroppedSegments += n
}

// Clamp records that a computed value for field was out of bounds.
func (q *Quality) Clamp(field string) {
	if q == nil {
		return
	}
	q.Clamps++
	if q.ClampFields == nil {
		q.ClampFields = make(map[string]int)
	}
	q.ClampFields[field]++
}

// Default records a feature that carries a placeholder value because it is
// not modeled from real data.
func (q *Quality) Default(field string) {
	if q == nil {
		return
	}
	if q.Defaulted == nil {
		q.Defaulted = make(map[string]int)
	}
	q.Defaulted[field]++
}

// Merge adds o's counts into q.
func (q *Quality) Merge(o Quality) {
	if q == nil {
		return
	}
	q.Fallbacks += o.Fallbacks
	q.DroppedSegments += o.DroppedSegments
	q.Clamps += o.Clamps
	q.FallbackFields = mergeCounts(q.FallbackFields, o.FallbackFields)
	q.ClampFields = mergeCounts(q.ClampFields, o.ClampFields)
	q.Defaulted = mergeCounts(q.Defaulted, o.Defaulted)
}

func mergeCounts(dst, src map[string]int) map[string]int {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		return maps.Clone(src)
	}
	for k, v := range src {
		dst[k] += v
	}
	return dst
}
