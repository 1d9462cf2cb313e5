package repository

import (
	"context"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// NarrativeRepository manages Narrative entities.
// Save is called after every state transition so an interrupted run can
// be recovered by resume.
type NarrativeRepository interface {
	// Find retrieves a narrative by its ID.
	// Returns narrative.ErrNotFound for an unknown ID.
	Find(ctx context.Context, id model.NarrativeID) (*narrative.Narrative, error)

	// Save persists a narrative (upsert, full replace)
	Save(ctx context.Context, n *narrative.Narrative) error

	// Delete removes a narrative
	Delete(ctx context.Context, id model.NarrativeID) error

	// ListByEra retrieves all narratives for an era of a simulation run
	ListByEra(ctx context.Context, simulationID, eraID string) ([]*narrative.Narrative, error)

	// List retrieves narratives by filter
	List(ctx context.Context, filter NarrativeFilter) ([]*narrative.Narrative, error)
}

// NarrativeFilter defines criteria for filtering narratives
type NarrativeFilter struct {
	SimulationID string
	EraID        string
	Statuses     []model.Status
	Limit        int
	Offset       int
}
