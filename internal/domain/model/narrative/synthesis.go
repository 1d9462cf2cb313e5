package narrative

// ThreadSynthesis is the structured output of the threads step.
// It is produced once by the generation backend and is read-only
// reference data for the generate and edit steps.
type ThreadSynthesis struct {
	Thesis            string     `json:"thesis"`
	Threads           []Thread   `json:"threads"`
	Movements         []Movement `json:"movements"`
	Counterweight     string     `json:"counterweight,omitempty"`
	StrategicDynamics []string   `json:"strategicDynamics,omitempty"`
	Quotes            []string   `json:"quotes,omitempty"`
	Motifs            []string   `json:"motifs,omitempty"`
}

// Thread is a named narrative through-line spanning multiple movements
type Thread struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Register       string   `json:"register,omitempty"`
	CulturalActors []string `json:"culturalActors,omitempty"`
	Material       string   `json:"material,omitempty"`
}

// Movement is a bounded sub-section of the narrative plan with a year
// range and thread focus
type Movement struct {
	Index       int      `json:"index"`
	YearStart   int      `json:"yearStart"`
	YearEnd     int      `json:"yearEnd"`
	ThreadFocus []string `json:"threadFocus"`
	Beats       []string `json:"beats"`
	WorldState  string   `json:"worldState,omitempty"`
}
