package core

import (
	"context"
	"fmt"

	"sitesmith/fs"
	"sitesmith/graph"
	"sitesmith/llm"
)

type StepManager interface {
	GetSteps() []StepType
	GetStep(StepType) Step
	Client() llm.LlmClient
	Renderer() *graph.Renderer
}

type DefaultStepManager struct {
	client   llm.LlmClient
	renderer *graph.Renderer
	steps    []StepType
	stepMap  map[StepType]Step
}

func NewDefaultStepManager(client llm.LlmClient, renderer *graph.Renderer) *DefaultStepManager {
	return &DefaultStepManager{
		client:   client,
		renderer: renderer,
		steps: []StepType{
			GenerateMarkup,
			GenerateStylesheet,
			GenerateScript,
			PackageSite,
			RenderDiagram,
			Done,
		},
		stepMap: map[StepType]Step{
			GenerateMarkup:     &GenerateMarkupStep{},
			GenerateStylesheet: &GenerateStylesheetStep{},
			GenerateScript:     &GenerateScriptStep{},
			PackageSite:        &PackageSiteStep{},
			RenderDiagram:      &RenderDiagramStep{},
			Done:               &DoneStep{},
		},
	}
}

func (m *DefaultStepManager) GetSteps() []StepType      { return m.steps }
func (m *DefaultStepManager) GetStep(t StepType) Step   { return m.stepMap[t] }
func (m *DefaultStepManager) Client() llm.LlmClient     { return m.client }
func (m *DefaultStepManager) Renderer() *graph.Renderer { return m.renderer }

type GenerateMarkupStep struct{}

func (s *GenerateMarkupStep) Execute(ctx context.Context, state *State) error {
	state.Logger.Debug("Generating markup.")
	markup, err := llm.GenerateMarkup(ctx, state.Llm, state.Request.Description)
	if err != nil {
		state.Logger.Error("Failed to generate markup")
		return err
	}
	state.Markup = markup
	state.Logger.Debug("Markup generated successfully")
	return nil
}

type GenerateStylesheetStep struct{}

func (s *GenerateStylesheetStep) Execute(ctx context.Context, state *State) error {
	state.Logger.Debug("Generating stylesheet.")
	stylesheet, err := llm.GenerateStylesheet(ctx, state.Llm, state.Markup)
	if err != nil {
		state.Logger.Error("Failed to generate stylesheet")
		return err
	}
	state.Stylesheet = stylesheet
	state.Logger.Debug("Stylesheet generated successfully")
	return nil
}

type GenerateScriptStep struct{}

func (s *GenerateScriptStep) Execute(ctx context.Context, state *State) error {
	state.Logger.Debug("Generating script.")
	// The script prompt takes the raw markup, not the styled page; the
	// stylesheet is never an input to any later step. Kept as-is for
	// compatibility with existing generations.
	script, err := llm.GenerateScript(ctx, state.Llm, state.Markup)
	if err != nil {
		state.Logger.Error("Failed to generate script")
		return err
	}
	state.Script = script
	state.Logger.Debug("Script generated successfully")
	return nil
}

type PackageSiteStep struct{}

func (s *PackageSiteStep) Execute(ctx context.Context, state *State) error {
	state.Logger.Debug("Packaging site files.")
	memFS := fs.NewMemoryFileSystem()
	if err := memFS.WriteSite(state.Markup, state.Stylesheet, state.Script); err != nil {
		state.Logger.Error("Failed to write site files")
		return fmt.Errorf("failed to write site files: %w", err)
	}
	archive, err := memFS.ZipBytes()
	if err != nil {
		state.Logger.Error("Failed to package site archive")
		return fmt.Errorf("failed to package site archive: %w", err)
	}
	state.Archive = archive
	state.GraphDot = graph.FileStructureDot()
	state.Logger.Debug("Site packaged successfully")
	return nil
}

type RenderDiagramStep struct{}

// Execute never fails the run: a broken Graphviz install only degrades
// the diagram to its textual description.
func (s *RenderDiagramStep) Execute(ctx context.Context, state *State) error {
	state.Logger.Debug("Rendering file structure diagram.")
	if state.Renderer == nil {
		state.DiagramNote = "Could not render file structure graph: no renderer configured"
		return nil
	}
	png, err := state.Renderer.RenderPNG(ctx, state.GraphDot)
	if err != nil {
		state.Logger.Warn(fmt.Sprintf("Could not render file structure graph: %v", err))
		state.DiagramNote = fmt.Sprintf("Could not render file structure graph: %v", err)
		return nil
	}
	state.DiagramPNG = png
	state.Logger.Debug("Diagram rendered successfully")
	return nil
}

type DoneStep struct{}

func (s *DoneStep) Execute(ctx context.Context, state *State) error {
	return nil
}
