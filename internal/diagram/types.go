// Package diagram manages stored diagram documents and their live
// interactive state. A stored diagram is the SVG the external layout
// generator produced, plus metadata; opening it yields a Document whose
// labels have been boxed and whose overlays respond to pointer events.
package diagram

import "time"

// Diagram is a stored diagram record.
type Diagram struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"` // markdown
	SVG         string    `json:"-"`
	LabelIDs    []string  `json:"label_ids"`
	HolderID    string    `json:"holder_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InteractionEvent is one recorded pointer interaction on a diagram.
type InteractionEvent struct {
	ID        string    `json:"id"`
	DiagramID string    `json:"diagram_id"`
	Kind      string    `json:"kind"`
	Target    string    `json:"target,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
