package diagram

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/genomeviz/exonview/internal/db"
)

// ErrNotFound is returned when a diagram id does not exist in the store.
var ErrNotFound = errors.New("diagram: not found")

// Store provides CRUD operations for diagrams and their interaction audit.
type Store struct {
	db *db.DB
}

// NewStore creates a new diagram store.
func NewStore(d *db.DB) *Store {
	return &Store{db: d}
}

// Create inserts a new diagram record.
func (s *Store) Create(ctx context.Context, d *Diagram) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now

	labelIDs, err := json.Marshal(d.LabelIDs)
	if err != nil {
		return fmt.Errorf("encoding label ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO diagrams (id, name, description, svg, label_ids, holder_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Description, d.SVG, string(labelIDs), d.HolderID, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("creating diagram: %w", err)
	}
	return nil
}

// Get retrieves a diagram by id, including its SVG source.
func (s *Store) Get(ctx context.Context, id string) (*Diagram, error) {
	d := &Diagram{}
	var labelIDs string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, svg, label_ids, holder_id, created_at, updated_at
		 FROM diagrams WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.Description, &d.SVG, &labelIDs, &d.HolderID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("getting diagram: %w", err)
	}
	if err := json.Unmarshal([]byte(labelIDs), &d.LabelIDs); err != nil {
		return nil, fmt.Errorf("decoding label ids: %w", err)
	}
	return d, nil
}

// List returns all diagrams, newest first, without SVG sources.
func (s *Store) List(ctx context.Context) ([]Diagram, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, label_ids, holder_id, created_at, updated_at
		 FROM diagrams ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("listing diagrams: %w", err)
	}
	defer rows.Close()

	var diagrams []Diagram
	for rows.Next() {
		var d Diagram
		var labelIDs string
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &labelIDs, &d.HolderID, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning diagram: %w", err)
		}
		if err := json.Unmarshal([]byte(labelIDs), &d.LabelIDs); err != nil {
			return nil, fmt.Errorf("decoding label ids: %w", err)
		}
		diagrams = append(diagrams, d)
	}
	return diagrams, rows.Err()
}

// Delete removes a diagram and, via cascade, its interaction events.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM diagrams WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting diagram: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return nil
}

// RecordEvent appends one interaction to the diagram's audit trail.
func (s *Store) RecordEvent(ctx context.Context, ev *InteractionEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ev.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO interaction_events (id, diagram_id, kind, target, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		ev.ID, ev.DiagramID, ev.Kind, ev.Target, ev.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("recording event: %w", err)
	}
	return nil
}

// ListEvents returns a diagram's interactions, oldest first.
func (s *Store) ListEvents(ctx context.Context, diagramID string) ([]InteractionEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, diagram_id, kind, target, created_at
		 FROM interaction_events WHERE diagram_id = ? ORDER BY created_at`, diagramID)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []InteractionEvent
	for rows.Next() {
		var ev InteractionEvent
		if err := rows.Scan(&ev.ID, &ev.DiagramID, &ev.Kind, &ev.Target, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
