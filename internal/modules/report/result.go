package report

import (
	"encoding/json"

	"github.com/yungbote/tgdash-backend/internal/domain/chatlog"
	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
)

// Result is a finished report. A persona report carries Persona and Data;
// a flat report carries the embedded summary fields at the top level.
type Result struct {
	Date     string                  `json:"date"`
	ChatID   string                  `json:"chatId,omitempty"`
	ThreadID string                  `json:"threadId,omitempty"`
	Metrics  chatlog.ActivityMetrics `json:"metrics"`
	Persona  personas.Key            `json:"persona,omitempty"`
	Data     any                     `json:"data,omitempty"`

	*personas.FlatReport
}

// UnmarshalJSON decodes data into the persona's typed shape so reports sent
// back by the dashboard render the same way freshly built ones do.
func (r *Result) UnmarshalJSON(b []byte) error {
	type plain Result
	var aux struct {
		plain
		Data json.RawMessage `json:"data,omitempty"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = Result(aux.plain)
	r.Data = nil
	if r.Persona == "" || len(aux.Data) == 0 || string(aux.Data) == "null" {
		return nil
	}
	out := personas.Lookup(r.Persona).NewData()
	if err := json.Unmarshal(aux.Data, out); err != nil {
		return err
	}
	r.Data = out
	return nil
}

// Outcome is one persona's share of a fan-out.
type Outcome struct {
	Persona personas.Key
	Report  *Result
	Err     error
}
