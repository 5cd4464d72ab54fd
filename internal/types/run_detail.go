package types

// RunDetail is the per-run document containing nested step-level results.
type RunDetail struct {
	Runs []Run `json:"runs"`
}

// Run is one adapter/scenario execution inside a run detail document.
type Run struct {
	AdapterID    string    `json:"adapterId"`
	AdapterName  string    `json:"adapterName,omitempty"`
	ScenarioID   string    `json:"scenarioId"`
	ScenarioName string    `json:"scenarioName,omitempty"`
	Result       RunResult `json:"result"`
}

// AdapterLabel returns the adapter name, falling back to its id.
func (r Run) AdapterLabel() string {
	if r.AdapterName != "" {
		return r.AdapterName
	}
	return r.AdapterID
}

// ScenarioLabel returns the scenario name, falling back to its id.
func (r Run) ScenarioLabel() string {
	if r.ScenarioName != "" {
		return r.ScenarioName
	}
	return r.ScenarioID
}

// RunResult holds the ordered steps of a run.
type RunResult struct {
	Steps []Step `json:"steps"`
}

// Step is a single prompt/response exchange with optional analysis metadata.
type Step struct {
	StepID       string       `json:"stepId"`
	Status       string       `json:"status"`
	ResponseText string       `json:"responseText,omitempty"`
	Metadata     StepMetadata `json:"metadata"`
}

// StepMetadata carries the analyses attached to a step by the report producer.
type StepMetadata struct {
	KeywordSummary      *KeywordSummary      `json:"keywordSummary,omitempty"`
	ResumeImpactSummary *ResumeImpactSummary `json:"resumeImpactSummary,omitempty"`
}

// KeywordSummary records expected vs. hit vs. missed keywords for one step.
// The producer guarantees hits and missed are disjoint subsets of expected; nothing here checks it.
type KeywordSummary struct {
	Expected []string `json:"expected"`
	Hits     []string `json:"hits"`
	Missed   []string `json:"missed"`
	AllHit   bool     `json:"allHit"`
}

// ResumeImpactSummary is the resume/site impact analysis of a step.
// Structured is preferred; Text is the raw fallback.
type ResumeImpactSummary struct {
	Structured *ImpactInsights `json:"structured,omitempty"`
	Text       string          `json:"text,omitempty"`
}

// ImpactInsights is the structured form of a resume impact summary.
type ImpactInsights struct {
	OverallInsights  []string           `json:"overallInsights,omitempty"`
	SiteInsights     []SiteInsight      `json:"siteInsights,omitempty"`
	ActionItems      []string           `json:"actionItems,omitempty"`
	QuestionCoverage []QuestionCoverage `json:"questionCoverage,omitempty"`
}

// IsEmpty reports whether none of the insight lists has content.
func (i *ImpactInsights) IsEmpty() bool {
	return i == nil || (len(i.OverallInsights) == 0 && len(i.SiteInsights) == 0 &&
		len(i.ActionItems) == 0 && len(i.QuestionCoverage) == 0)
}

// SiteInsight summarizes how one site presents the subject.
type SiteInsight struct {
	Site              string   `json:"site"`
	Mentions          int      `json:"mentions"`
	AudienceFit       []string `json:"audienceFit,omitempty"`
	Positioning       []string `json:"positioning,omitempty"`
	FeatureHighlights []string `json:"featureHighlights,omitempty"`
	Citations         []string `json:"citations,omitempty"`
}

// QuestionCoverage records whether a resume question was answered by any site.
type QuestionCoverage struct {
	QuestionID string   `json:"questionId"`
	Covered    bool     `json:"covered"`
	Sites      []string `json:"sites,omitempty"`
	Note       string   `json:"note,omitempty"`
}
