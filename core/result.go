package core

import "time"

// Result is one successful run's bundle. It is immutable once built
// and replaced wholesale by the next successful run.
type Result struct {
	HTML    string `json:"html"`
	CSS     string `json:"css"`
	JS      string `json:"js"`
	Archive []byte `json:"-"`

	GraphDot string `json:"graph_dot"`
	// DiagramPNG is nil when rendering failed; DiagramNote then carries
	// the warning shown instead of the image.
	DiagramPNG  []byte    `json:"diagram_png,omitempty"`
	DiagramNote string    `json:"diagram_note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
