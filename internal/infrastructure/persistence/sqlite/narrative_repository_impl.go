package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
	"github.com/chris-arsenault/illuminator/internal/domain/repository"
	"github.com/chris-arsenault/illuminator/internal/infrastructure/transaction"
)

// dbExecutor is an interface for executing database queries
// Both *sql.DB and *sql.Tx implement this interface
type dbExecutor interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// NarrativeRepositoryImpl implements repository.NarrativeRepository with SQLite
type NarrativeRepositoryImpl struct {
	db *sql.DB
}

// NewNarrativeRepository creates a new SQLite-based narrative repository
func NewNarrativeRepository(db *sql.DB) repository.NarrativeRepository {
	return &NarrativeRepositoryImpl{db: db}
}

// getDB returns the appropriate database executor from context
func (r *NarrativeRepositoryImpl) getDB(ctx context.Context) dbExecutor {
	if tx, ok := transaction.GetTxFromContext(ctx); ok {
		return tx
	}
	return r.db
}

const narrativeColumns = `id, simulation_id, era_id, era_name, tone, arc_direction_override,
	       status, current_step, thread_synthesis, content_versions, active_version_id,
	       total_actual_cost, error, created_at, updated_at`

// Find retrieves a narrative by its ID
func (r *NarrativeRepositoryImpl) Find(ctx context.Context, id model.NarrativeID) (*narrative.Narrative, error) {
	query := `SELECT ` + narrativeColumns + ` FROM narratives WHERE id = ?`

	db := r.getDB(ctx)
	row := db.QueryRowContext(ctx, query, id.String())
	n, err := scanNarrativeRow(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", narrative.ErrNotFound, id)
	}
	return n, err
}

// Save persists a narrative entity (upsert, full replace)
func (r *NarrativeRepositoryImpl) Save(ctx context.Context, n *narrative.Narrative) error {
	versionsJSON, err := json.Marshal(n.Versions())
	if err != nil {
		return fmt.Errorf("marshal content versions failed: %w", err)
	}

	var synthesisJSON interface{}
	if ts := n.Synthesis(); ts != nil {
		b, err := json.Marshal(ts)
		if err != nil {
			return fmt.Errorf("marshal thread synthesis failed: %w", err)
		}
		synthesisJSON = string(b)
	}

	query := `
		INSERT INTO narratives (id, simulation_id, era_id, era_name, tone, arc_direction_override,
		                        status, current_step, thread_synthesis, content_versions, active_version_id,
		                        total_actual_cost, error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			current_step = excluded.current_step,
			thread_synthesis = excluded.thread_synthesis,
			content_versions = excluded.content_versions,
			active_version_id = excluded.active_version_id,
			total_actual_cost = excluded.total_actual_cost,
			error = excluded.error,
			updated_at = excluded.updated_at
	`

	db := r.getDB(ctx)
	_, err = db.ExecContext(ctx, query,
		n.ID().String(), n.SimulationID(), n.EraID(), n.EraName(),
		string(n.Tone()), n.ArcDirectionOverride(),
		string(n.Status()), string(n.CurrentStep()),
		synthesisJSON, string(versionsJSON), n.ActiveVersionID(),
		n.TotalActualCost(), n.Error(),
		n.CreatedAt().UTC().Format(time.RFC3339Nano),
		n.UpdatedAt().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save narrative failed: %w", err)
	}

	return nil
}

// Delete removes a narrative
func (r *NarrativeRepositoryImpl) Delete(ctx context.Context, id model.NarrativeID) error {
	db := r.getDB(ctx)
	result, err := db.ExecContext(ctx, "DELETE FROM narratives WHERE id = ?", id.String())
	if err != nil {
		return fmt.Errorf("delete narrative failed: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected failed: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", narrative.ErrNotFound, id)
	}

	return nil
}

// ListByEra retrieves all narratives for an era of a simulation run
func (r *NarrativeRepositoryImpl) ListByEra(ctx context.Context, simulationID, eraID string) ([]*narrative.Narrative, error) {
	return r.List(ctx, repository.NarrativeFilter{SimulationID: simulationID, EraID: eraID})
}

// List retrieves narratives by filter
func (r *NarrativeRepositoryImpl) List(ctx context.Context, filter repository.NarrativeFilter) ([]*narrative.Narrative, error) {
	query := `SELECT ` + narrativeColumns + ` FROM narratives WHERE 1=1`
	args := []interface{}{}

	if filter.SimulationID != "" {
		query += " AND simulation_id = ?"
		args = append(args, filter.SimulationID)
	}
	if filter.EraID != "" {
		query += " AND era_id = ?"
		args = append(args, filter.EraID)
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += " AND status IN (" + strings.Join(placeholders, ", ") + ")"
	}

	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	db := r.getDB(ctx)
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list narratives failed: %w", err)
	}
	defer rows.Close()

	var narratives []*narrative.Narrative
	for rows.Next() {
		n, err := scanNarrativeRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		narratives = append(narratives, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate narratives failed: %w", err)
	}

	return narratives, nil
}

// scanNarrativeRow scans one narrative from a row scan function and
// reconstructs the aggregate
func scanNarrativeRow(scan func(dest ...interface{}) error) (*narrative.Narrative, error) {
	var (
		id              string
		simulationID    string
		eraID           string
		eraName         string
		tone            string
		arcOverride     sql.NullString
		status          string
		currentStep     string
		synthesisJSON   sql.NullString
		versionsJSON    sql.NullString
		activeVersionID sql.NullString
		totalActualCost float64
		errMsg          sql.NullString
		createdAt       string
		updatedAt       string
	)

	err := scan(
		&id, &simulationID, &eraID, &eraName, &tone, &arcOverride,
		&status, &currentStep, &synthesisJSON, &versionsJSON, &activeVersionID,
		&totalActualCost, &errMsg, &createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan narrative failed: %w", err)
	}

	var synthesis *narrative.ThreadSynthesis
	if synthesisJSON.Valid && synthesisJSON.String != "" {
		synthesis = &narrative.ThreadSynthesis{}
		if err := json.Unmarshal([]byte(synthesisJSON.String), synthesis); err != nil {
			return nil, fmt.Errorf("unmarshal thread synthesis failed: %w", err)
		}
	}

	var versions []narrative.ContentVersion
	if versionsJSON.Valid && versionsJSON.String != "" {
		if err := json.Unmarshal([]byte(versionsJSON.String), &versions); err != nil {
			return nil, fmt.Errorf("unmarshal content versions failed: %w", err)
		}
	}

	narrativeID, err := model.NewNarrativeIDFromString(id)
	if err != nil {
		return nil, fmt.Errorf("invalid narrative ID: %w", err)
	}

	createdAtTime, err := parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at failed: %w", err)
	}
	updatedAtTime, err := parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at failed: %w", err)
	}

	return narrative.ReconstructNarrative(
		narrativeID,
		simulationID, eraID, eraName,
		model.Tone(tone),
		arcOverride.String,
		model.Status(status),
		model.Step(currentStep),
		synthesis,
		versions,
		activeVersionID.String,
		totalActualCost,
		errMsg.String,
		createdAtTime,
		updatedAtTime,
	), nil
}

// parseTime parses a time string in RFC3339 format
func parseTime(timeStr string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, timeStr)
	if err != nil {
		// Try SQLite datetime format
		t, err = time.Parse("2006-01-02 15:04:05", timeStr)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse time failed: %w", err)
		}
	}
	return t, nil
}
