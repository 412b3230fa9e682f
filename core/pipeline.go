package core

import (
	"context"
	"fmt"
	"time"

	"sitesmith/graph"
	"sitesmith/llm"
	"sitesmith/logger"
)

type Step interface {
	Execute(ctx context.Context, state *State) error
}

type StepType int

const (
	GenerateMarkup StepType = iota
	GenerateStylesheet
	GenerateScript
	PackageSite
	RenderDiagram
	Done
)

func (s StepType) String() string {
	switch s {
	case GenerateMarkup:
		return "GenerateMarkup"
	case GenerateStylesheet:
		return "GenerateStylesheet"
	case GenerateScript:
		return "GenerateScript"
	case PackageSite:
		return "PackageSite"
	case RenderDiagram:
		return "RenderDiagram"
	case Done:
		return "Done"
	default:
		return fmt.Sprintf("StepType(%d)", int(s))
	}
}

// State carries one run's artifacts between steps.
type State struct {
	Markup      string
	Stylesheet  string
	Script      string
	Archive     []byte
	GraphDot    string
	DiagramPNG  []byte
	DiagramNote string

	Request  *Request
	Llm      llm.LlmClient
	Renderer *graph.Renderer
	Logger   logger.Logger
}

type Pipeline struct {
	stepManager StepManager
	state       *State
	publisher   StepPublisher
	completed   bool
}

func NewPipeline(r *Request, sm StepManager, pub StepPublisher, l logger.Logger) *Pipeline {
	if l == nil {
		l = logger.NewNullLogger()
	}
	if pub == nil {
		pub = &DefaultStepPublisher{}
	}
	return &Pipeline{
		state: &State{
			Request:  r,
			Llm:      sm.Client(),
			Renderer: sm.Renderer(),
			Logger:   l,
		},
		publisher:   pub,
		stepManager: sm,
	}
}

// Execute runs every step in order. The first failing step aborts the
// run; no partial result survives it.
func (p *Pipeline) Execute(ctx context.Context) error {
	steps := p.stepManager.GetSteps()
	p.state.Logger.Info("Starting pipeline execution")
	for i, stepType := range steps {
		select {
		case <-ctx.Done():
			p.state.Logger.Info("Pipeline execution cancelled")
			return context.Canceled
		default:
			p.state.Logger.Info(fmt.Sprintf("Attempting to execute step %d: %v", i, stepType))
			step := p.stepManager.GetStep(stepType)
			if step == nil {
				p.state.Logger.Error(fmt.Sprintf("Step %v not found", stepType))
				p.publisher.Error(stepType, fmt.Errorf("step %v not found", stepType))
				return fmt.Errorf("step %v not found", stepType)
			}

			startTime := time.Now()
			if err := step.Execute(ctx, p.state); err != nil {
				p.state.Logger.Error(fmt.Sprintf("Error executing step %v", stepType))
				p.publisher.Error(stepType, err)
				return err
			}
			duration := time.Since(startTime)
			p.state.Logger.Info(fmt.Sprintf("Step %v completed in %v", stepType, duration))
			p.publisher.PublishStep(stepType)
		}
	}

	p.completed = true
	p.state.Logger.Info("Pipeline execution completed")
	return nil
}

// Result returns the run's bundle, or nil while no run has completed.
func (p *Pipeline) Result() *Result {
	if !p.completed {
		return nil
	}
	return &Result{
		HTML:        p.state.Markup,
		CSS:         p.state.Stylesheet,
		JS:          p.state.Script,
		Archive:     p.state.Archive,
		GraphDot:    p.state.GraphDot,
		DiagramPNG:  p.state.DiagramPNG,
		DiagramNote: p.state.DiagramNote,
		CreatedAt:   time.Now(),
	}
}

type StepPublisher interface {
	PublishStep(step StepType)
	Error(step StepType, err error)
}

type DefaultStepPublisher struct{}

func (p *DefaultStepPublisher) PublishStep(step StepType) {}

func (p *DefaultStepPublisher) Error(step StepType, err error) {}
