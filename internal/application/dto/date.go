package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/mrp-planner/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// Date fecha calendario (vencimiento de lotes). Acepta "2006-01-02" o RFC3339 y
// siempre queda en medianoche UTC; se serializa como "2006-01-02".
type Date struct {
	time.Time
}

// NewDate envuelve t normalizado a fecha. nil -> nil.
func NewDate(t *time.Time) *Date {
	if t == nil {
		return nil
	}
	return &Date{Time: entity.DateOnly(*t)}
}

// Ptr devuelve la fecha como *time.Time; nil si d es nil.
func (d *Date) Ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// UnmarshalJSON implementa json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("fecha inválida: %w", err)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("fecha inválida %q: use YYYY-MM-DD o RFC3339", s)
		}
	}
	d.Time = entity.DateOnly(t)
	return nil
}

// MarshalJSON implementa json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayout))
}
