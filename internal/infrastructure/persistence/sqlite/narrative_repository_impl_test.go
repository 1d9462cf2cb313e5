package sqlite

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
	"github.com/chris-arsenault/illuminator/internal/domain/repository"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, NewMigrator(db).Migrate())
	return db
}

func newTestNarrative(t *testing.T, simulationID, eraID string) *narrative.Narrative {
	t.Helper()
	n, err := narrative.NewNarrative(simulationID, eraID, "The Long Thaw", model.ToneWitty, "")
	require.NoError(t, err)
	return n
}

func TestNarrativeRepository_SaveAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	n := newTestNarrative(t, "sim-1", "era-3")
	require.NoError(t, repo.Save(ctx, n))

	found, err := repo.Find(ctx, n.ID())
	require.NoError(t, err)
	assert.True(t, found.ID().Equals(n.ID()))
	assert.Equal(t, "sim-1", found.SimulationID())
	assert.Equal(t, "era-3", found.EraID())
	assert.Equal(t, "The Long Thaw", found.EraName())
	assert.Equal(t, model.ToneWitty, found.Tone())
	assert.Equal(t, model.StatusPending, found.Status())
	assert.Equal(t, model.StepThreads, found.CurrentStep())
	assert.Nil(t, found.Synthesis())
	assert.Empty(t, found.Versions())
}

func TestNarrativeRepository_Find_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)

	_, err := repo.Find(context.Background(), model.NewNarrativeID())
	assert.ErrorIs(t, err, narrative.ErrNotFound)
}

func TestNarrativeRepository_Save_Upsert(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	n := newTestNarrative(t, "sim-1", "era-3")
	require.NoError(t, repo.Save(ctx, n))

	require.NoError(t, n.BeginStep(model.StepThreads))
	require.NoError(t, n.ApplySynthesis(narrative.ThreadSynthesis{
		Thesis: "Scarcity became the era's organizing grievance",
		Threads: []narrative.Thread{
			{ID: "t1", Name: "Salt Roads", Register: "material"},
		},
	}, 0.12))
	require.NoError(t, repo.Save(ctx, n))

	found, err := repo.Find(ctx, n.ID())
	require.NoError(t, err)
	assert.Equal(t, model.StatusStepComplete, found.Status())
	require.NotNil(t, found.Synthesis())
	assert.Equal(t, "Scarcity became the era's organizing grievance", found.Synthesis().Thesis)
	require.Len(t, found.Synthesis().Threads, 1)
	assert.Equal(t, "Salt Roads", found.Synthesis().Threads[0].Name)
	assert.InDelta(t, 0.12, found.TotalActualCost(), 1e-9)
}

func TestNarrativeRepository_Save_ContentVersionsRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	n := newTestNarrative(t, "sim-1", "era-3")
	require.NoError(t, n.BeginStep(model.StepThreads))
	require.NoError(t, n.ApplySynthesis(narrative.ThreadSynthesis{Thesis: "thesis"}, 0))
	require.NoError(t, n.BeginStep(model.StepGenerate))
	require.NoError(t, n.ApplyDraft("The century opened quietly.", 0.5))
	require.NoError(t, repo.Save(ctx, n))

	found, err := repo.Find(ctx, n.ID())
	require.NoError(t, err)
	require.Len(t, found.Versions(), 1)
	v := found.Versions()[0]
	assert.Equal(t, model.StepGenerate, v.Step)
	assert.Equal(t, "The century opened quietly.", v.Content)
	assert.Equal(t, 4, v.WordCount)
	assert.Equal(t, v.VersionID, found.ActiveVersionID())
}

func TestNarrativeRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	n := newTestNarrative(t, "sim-1", "era-3")
	require.NoError(t, repo.Save(ctx, n))
	require.NoError(t, repo.Delete(ctx, n.ID()))

	_, err := repo.Find(ctx, n.ID())
	assert.ErrorIs(t, err, narrative.ErrNotFound)

	err = repo.Delete(ctx, n.ID())
	assert.ErrorIs(t, err, narrative.ErrNotFound)
}

func TestNarrativeRepository_ListByEra(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	a := newTestNarrative(t, "sim-1", "era-3")
	b := newTestNarrative(t, "sim-1", "era-3")
	other := newTestNarrative(t, "sim-1", "era-4")
	require.NoError(t, repo.Save(ctx, a))
	require.NoError(t, repo.Save(ctx, b))
	require.NoError(t, repo.Save(ctx, other))

	got, err := repo.ListByEra(ctx, "sim-1", "era-3")
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.ListByEra(ctx, "sim-2", "era-3")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNarrativeRepository_List_StatusFilter(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	pending := newTestNarrative(t, "sim-1", "era-1")
	cancelled := newTestNarrative(t, "sim-1", "era-2")
	cancelled.Cancel()
	require.NoError(t, repo.Save(ctx, pending))
	require.NoError(t, repo.Save(ctx, cancelled))

	got, err := repo.List(ctx, repository.NarrativeFilter{
		Statuses: []model.Status{model.StatusCancelled},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].ID().Equals(cancelled.ID()))
}

func TestNarrativeRepository_List_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewNarrativeRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		n := newTestNarrative(t, "sim-1", "era-1")
		require.NoError(t, repo.Save(ctx, n))
		time.Sleep(2 * time.Millisecond)
	}

	got, err := repo.List(ctx, repository.NarrativeFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	rest, err := repo.List(ctx, repository.NarrativeFilter{Limit: 10, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 3)
}
