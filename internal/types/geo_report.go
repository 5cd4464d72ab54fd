package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// GeoReport summarizes cross-scenario site/domain extraction results.
type GeoReport struct {
	CreatedAt time.Time     `json:"createdAt"`
	RunID     string        `json:"runId,omitempty"`
	Scenarios []GeoScenario `json:"scenarios"`
	Sources   []GeoSource   `json:"sources"`
}

// GeoScenario is one scenario/adapter execution of the GEO run.
type GeoScenario struct {
	ScenarioID   string    `json:"scenarioId"`
	ScenarioName string    `json:"scenarioName,omitempty"`
	AdapterID    string    `json:"adapterId"`
	AdapterName  string    `json:"adapterName,omitempty"`
	Status       string    `json:"status"`
	Steps        []GeoStep `json:"steps,omitempty"`
}

// ScenarioLabel returns the scenario name, falling back to its id.
func (s GeoScenario) ScenarioLabel() string {
	if s.ScenarioName != "" {
		return s.ScenarioName
	}
	return s.ScenarioID
}

// AdapterLabel returns the adapter name, falling back to its id.
func (s GeoScenario) AdapterLabel() string {
	if s.AdapterName != "" {
		return s.AdapterName
	}
	return s.AdapterID
}

// GeoStep is one step of a GEO scenario with the domains it extracted.
type GeoStep struct {
	StepID           string   `json:"stepId"`
	Status           string   `json:"status"`
	Preview          string   `json:"preview,omitempty"`
	ExtractedDomains []string `json:"extractedDomains,omitempty"`
}

// GeoSource is a cited source with its review priority.
type GeoSource struct {
	Priority string  `json:"priority,omitempty"`
	Domain   string  `json:"domain,omitempty"`
	URL      string  `json:"url"`
	Count    FlexInt `json:"count"`
	Notes    string  `json:"notes,omitempty"`
}

// FlexInt decodes from a JSON number or a numeric string.
// Anything else (null, non-numeric text, objects) decodes as 0.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = FlexInt(f)
	return nil
}
