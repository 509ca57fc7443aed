package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Ordinal is a rating supplied either as a label ("Very Good") or as a
// number. JSON accepts both forms.
type Ordinal struct {
	Text   string
	Number *float64
}

// Text returns a label ordinal.
func Text(s string) Ordinal { return Ordinal{Text: s} }

// Number returns a numeric ordinal.
func Number(f float64) Ordinal { return Ordinal{Number: &f} }

// IsZero reports whether nothing was supplied.
func (o Ordinal) IsZero() bool {
	return o.Number == nil && strings.TrimSpace(o.Text) == ""
}

// Float returns the numeric value, parsing Text when it holds a number.
func (o Ordinal) Float() (float64, bool) {
	if o.Number != nil {
		return *o.Number, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(o.Text), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (o Ordinal) String() string {
	if o.Number != nil {
		return strconv.FormatFloat(*o.Number, 'f', -1, 64)
	}
	return o.Text
}

func (o *Ordinal) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*o = Ordinal{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*o = Ordinal{Text: s}
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("ordinal must be a string or number: %w", err)
	}
	*o = Ordinal{Number: &f}
	return nil
}

func (o Ordinal) MarshalJSON() ([]byte, error) {
	if o.Number != nil {
		return json.Marshal(*o.Number)
	}
	if o.Text == "" {
		return []byte("null"), nil
	}
	return json.Marshal(o.Text)
}
