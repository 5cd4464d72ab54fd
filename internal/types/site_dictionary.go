package types

import "encoding/json"

// SiteDictionary lists every site seen across runs with its impact.
type SiteDictionary struct {
	Sites []SiteImpact `json:"sites"`
}

// SiteImpact is one site with its mention count and the questions it touched.
// Question payloads are kept raw; the viewer only lists their ids.
type SiteImpact struct {
	Site      string                     `json:"site"`
	Count     int                        `json:"count"`
	Questions map[string]json.RawMessage `json:"questions,omitempty"`
}

// ResumeQuestion is one entry of the resume question list.
type ResumeQuestion struct {
	ID     string `json:"id"`
	Prompt string `json:"prompt"`
}

// QuestionPrompts indexes questions by id.
func QuestionPrompts(questions []ResumeQuestion) map[string]string {
	prompts := make(map[string]string, len(questions))
	for _, q := range questions {
		prompts[q.ID] = q.Prompt
	}
	return prompts
}
