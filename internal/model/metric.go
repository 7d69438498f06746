// Package model defines the row, decision, and result types shared across the
// optimization engine, the report loader, and the run store.
package model

import (
	"encoding/json"
	"fmt"
)

// Metric is a tri-state numeric value: either known or missing. A missing
// metric means a ratio could not be derived (zero or absent denominator) and
// must never be conflated with a literal zero.
type Metric struct {
	value float64
	known bool
}

// Known returns a Metric carrying the given value.
func Known(v float64) Metric {
	return Metric{value: v, known: true}
}

// Missing returns the missing-value sentinel.
func Missing() Metric {
	return Metric{}
}

// Ratio divides num by den, returning a missing Metric when den is zero.
func Ratio(num, den float64) Metric {
	if den == 0 {
		return Missing()
	}
	return Known(num / den)
}

// IsKnown reports whether the metric holds a value.
func (m Metric) IsKnown() bool {
	return m.known
}

// Value returns the underlying value, or 0 if the metric is missing.
// Callers that must distinguish a true zero check IsKnown first.
func (m Metric) Value() float64 {
	return m.value
}

// OrZero returns the value for known metrics and 0 otherwise. It exists to
// make the intentional zero-coercion sites (bid adjustment) greppable.
func (m Metric) OrZero() float64 {
	return m.value
}

// FormatPct renders the metric as a percentage with one decimal, or "N/A"
// when missing. Internal metrics are fractions; the ×100 happens here.
func (m Metric) FormatPct() string {
	if !m.known {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", m.value*100)
}

// MarshalJSON encodes a missing metric as null.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.known {
		return []byte("null"), nil
	}
	return json.Marshal(m.value)
}

// UnmarshalJSON decodes null as missing.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Missing()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = Known(v)
	return nil
}

// MarshalYAML encodes a missing metric as null.
func (m Metric) MarshalYAML() (any, error) {
	if !m.known {
		return nil, nil
	}
	return m.value, nil
}

// UnmarshalYAML decodes null as missing.
func (m *Metric) UnmarshalYAML(unmarshal func(any) error) error {
	var v *float64
	if err := unmarshal(&v); err != nil {
		return err
	}
	if v == nil {
		*m = Missing()
		return nil
	}
	*m = Known(*v)
	return nil
}
