package narrative

// PrepBrief is a per-chronicle contextual summary fed into era-level
// narrative generation. Briefs are supplied by the caller and are
// read-only to the workflow.
type PrepBrief struct {
	ChronicleID     string  `json:"chronicleId" yaml:"chronicle_id"`
	Title           string  `json:"title" yaml:"title"`
	EraYear         int     `json:"eraYear" yaml:"era_year"`
	NarrativeWeight float64 `json:"narrativeWeight" yaml:"narrative_weight"`
	PrepText        string  `json:"prepText" yaml:"prep_text"`
}

// WorldContext is resolved cross-era continuity data. It is constructed
// once per workflow start and never mutated during the run.
type WorldContext struct {
	FocalEraSummary    string            `json:"focalEraSummary" yaml:"focal_era_summary"`
	PreviousEraSummary string            `json:"previousEraSummary" yaml:"previous_era_summary"`
	NextEraSummary     string            `json:"nextEraSummary" yaml:"next_era_summary"`
	PreviousThesis     string            `json:"previousThesis" yaml:"previous_thesis"`
	WorldDynamics      []string          `json:"worldDynamics" yaml:"world_dynamics"`
	CulturalIdentities map[string]string `json:"culturalIdentities" yaml:"cultural_identities"`
}
