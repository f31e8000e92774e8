package health

import (
	"encoding/json"
	"errors"
	"time"
)

// MarshalJSON encodes the status as its string form.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON decodes a status string. Unknown strings map to unhealthy,
// matching ParseStatus.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = ParseStatus(str)
	return nil
}

// resultWire is the JSON shape of a Result. Error travels as its message;
// the concrete error value does not survive a round trip.
type resultWire struct {
	Name      string         `json:"name"`
	Status    Status         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Duration  time.Duration  `json:"duration"`
	Timestamp time.Time      `json:"timestamp"`
	Error     string         `json:"error,omitempty"`
}

// MarshalJSON encodes the result with the error flattened to its message.
func (r Result) MarshalJSON() ([]byte, error) {
	w := resultWire{
		Name:      r.Name,
		Status:    r.Status,
		Message:   r.Message,
		Details:   r.Details,
		Duration:  r.Duration,
		Timestamp: r.Timestamp,
	}
	if r.Error != nil {
		w.Error = r.Error.Error()
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a result. A non-empty error message becomes an
// opaque error value.
func (r *Result) UnmarshalJSON(data []byte) error {
	var w resultWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*r = Result{
		Name:      w.Name,
		Status:    w.Status,
		Message:   w.Message,
		Details:   w.Details,
		Duration:  w.Duration,
		Timestamp: w.Timestamp,
	}
	if w.Error != "" {
		r.Error = errors.New(w.Error)
	}
	return nil
}
