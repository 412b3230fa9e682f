package cli

import (
	"context"
	"sync"
	"time"

	"sitesmith/core"
	"sitesmith/graph"
	"sitesmith/llm"
	"sitesmith/logger"
)

type ExecutionResult struct {
	Result *core.Result
	Err    error
}

type ExecutionRequest struct {
	Request    *core.Request
	ResultChan chan ExecutionResult
	CreatedAt  time.Time
}

type Engine struct {
	pub          core.StepPublisher
	logger       logger.Logger
	requests     chan ExecutionRequest
	workers      int
	workerWG     sync.WaitGroup
	shutdownChan chan struct{}
	renderer     *graph.Renderer
	tellmURL     string
}

func NewEngine(pub core.StepPublisher, l logger.Logger, workers int, renderer *graph.Renderer, tellmURL string) *Engine {
	if l == nil {
		l = logger.NewNullLogger()
	}
	return &Engine{
		pub:          pub,
		logger:       l,
		requests:     make(chan ExecutionRequest, 1000),
		workers:      workers,
		shutdownChan: make(chan struct{}),
		renderer:     renderer,
		tellmURL:     tellmURL,
	}
}

func (e *Engine) Start(ctx context.Context) {
	for i := 0; i < e.workers; i++ {
		e.workerWG.Add(1)
		go e.worker(ctx)
	}
}

func (e *Engine) worker(ctx context.Context) {
	defer e.workerWG.Done()
	for {
		select {
		case req := <-e.requests:
			r := req.Request
			llmCfg := llm.LlmConfig{
				APIKey:      r.APIKey,
				ModelName:   r.ModelName,
				Temperature: r.Temperature,
				MaxTokens:   r.MaxTokens,
				BatchID:     llm.EnsureBatchID(""),
				TellmURL:    e.tellmURL,
			}
			client, err := llm.NewOpenAIClient(&llmCfg, e.logger)
			if err != nil {
				req.ResultChan <- ExecutionResult{Err: err}
				close(req.ResultChan)
				continue
			}

			stepManager := core.NewDefaultStepManager(client, e.renderer)
			pipeline := core.NewPipeline(r, stepManager, e.pub, e.logger)
			err = pipeline.Execute(ctx)
			req.ResultChan <- ExecutionResult{Result: pipeline.Result(), Err: err}
			close(req.ResultChan)
		case <-ctx.Done():
			return
		case <-e.shutdownChan:
			return
		}
	}
}

func (e *Engine) AddRequest(request *core.Request) chan ExecutionResult {
	resultChan := make(chan ExecutionResult, 1)
	e.requests <- ExecutionRequest{
		Request:    request,
		ResultChan: resultChan,
		CreatedAt:  time.Now(),
	}
	return resultChan
}

func (e *Engine) Shutdown(timeout time.Duration) {
	close(e.shutdownChan)

	done := make(chan struct{})
	go func() {
		e.workerWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("All workers shut down gracefully")
	case <-time.After(timeout):
		e.logger.Warn("Shutdown timed out, some workers may still be running")
	}
}
