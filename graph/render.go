package graph

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const DefaultDotPath = "dot"

// Renderer rasterizes DOT text by shelling out to the Graphviz dot
// binary. A missing or broken binary surfaces as an error from
// RenderPNG; callers decide how to degrade.
type Renderer struct {
	dotPath string
	timeout time.Duration
}

func NewRenderer(dotPath string) *Renderer {
	if dotPath == "" {
		dotPath = DefaultDotPath
	}
	return &Renderer{
		dotPath: dotPath,
		timeout: 30 * time.Second,
	}
}

// RenderPNG runs dot -Tpng over the given DOT text and returns the image bytes.
func (r *Renderer) RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	if _, err := exec.LookPath(r.dotPath); err != nil {
		return nil, fmt.Errorf("graphviz binary not found: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.dotPath, "-Tpng")
	cmd.Stdin = strings.NewReader(dot)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return nil, fmt.Errorf("dot failed: %s: %w", msg, err)
		}
		return nil, fmt.Errorf("dot failed: %w", err)
	}

	if stdout.Len() == 0 {
		return nil, fmt.Errorf("dot produced no output")
	}

	return stdout.Bytes(), nil
}
