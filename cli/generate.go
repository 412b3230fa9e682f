package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"

	"sitesmith/config"
	"sitesmith/core"
	"sitesmith/graph"
	"sitesmith/logger"
	"sitesmith/utils"
)

type state int

const (
	Input state = iota
	Initializing
	Processing
	Finished
)

const (
	archiveFileName = "website_files.zip"
	diagramPNGName  = "file_structure.png"
	diagramDotName  = "file_structure.dot"
)

type generateCmdModel struct {
	textInput      textinput.Model
	spinner        spinner.Model
	state          state
	request        *core.Request
	completedSteps []core.StepType
	engine         *Engine
	engineCtx      context.Context
	engineCancel   context.CancelFunc
	publisher      *CliStepPublisher
	logger         logger.Logger
	diagramNote    string
}

func newGenerateModel(f genFlags) (*generateCmdModel, error) {
	ti := textinput.New()
	ti.Placeholder = "Describe your website..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 80

	logger.InitLogger()
	log := logger.GetLogger()
	log.Debug("Initializing sitesmith CLI")

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("202"))

	cfg, err := config.LoadConfig(f.config)
	if err != nil {
		return nil, err
	}

	req := core.DefaultRequest()
	req.ModelName = cfg.ModelName
	if f.key != "" {
		req.APIKey = f.key
	}
	req.Temperature = f.temperature
	req.MaxTokens = f.maxTokens
	req.Clamp()

	publisher := NewCliStepPublisher(log)
	renderer := graph.NewRenderer(cfg.DotPath)
	engine := NewEngine(publisher, log, 1, renderer, cfg.TellmURL)

	ctx, cancel := context.WithCancel(context.Background())

	m := &generateCmdModel{
		textInput:    ti,
		spinner:      s,
		state:        Input,
		logger:       log,
		request:      req,
		engine:       engine,
		engineCtx:    ctx,
		engineCancel: cancel,
		publisher:    publisher,
	}
	engine.Start(ctx)
	return m, nil
}

func (m *generateCmdModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *generateCmdModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.state {
	case Finished:
		return m, tea.Quit
	case Initializing:
		m.state = Processing
		return m, tea.Batch(m.spinner.Tick, m.handleGeneration())
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case core.StepType:
		return m.handleStep(msg)
	case ExecutionResult:
		return m.handleResult(msg)
	case error:
		return m, tea.Sequence(tea.Printf("Error: %s", msg), tea.Quit)
	default:
		if m.state == Processing {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *generateCmdModel) View() string {
	switch m.state {
	case Input:
		return fmt.Sprintf(
			"Welcome to sitesmith!\n\n%s\n\n%s",
			m.textInput.View(),
			"(press enter to generate the website or esc to quit)",
		)
	case Initializing:
		return fmt.Sprintf("%s Initializing", m.spinner.View())
	case Processing:
		steps := []struct {
			present string
			past    string
		}{
			{"Generating HTML.", "Generated HTML."},
			{"Generating CSS.", "Generated CSS."},
			{"Generating JavaScript.", "Generated JavaScript."},
			{"Packaging site files.", "Packaged site files."},
			{"Rendering file structure diagram.", "Rendered file structure diagram."},
			{"Done.", "Done."},
		}

		enumerator := func(l list.Items, i int) string {
			var e string
			if i < len(m.completedSteps) {
				checkStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
				e = checkStyle.Render("✓")
			} else if i == len(m.completedSteps) {
				e = m.spinner.View()
			}
			return e
		}

		l := list.New().Enumerator(enumerator)
		for i, step := range steps {
			if i < len(m.completedSteps) {
				l.Item(step.past)
			} else if i == len(m.completedSteps) {
				l.Item(step.present)
			}
		}
		return fmt.Sprint(l)
	case Finished:
		return "Website generated successfully!"
	default:
		m.logger.Error("An error occurred")
		return "An error occurred."
	}
}

func (m *generateCmdModel) Shutdown() {
	m.engineCancel()
	m.engine.Shutdown(5 * time.Second)
}

func (m *generateCmdModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.state != Input {
		return m.handleQuit(msg)
	}
	switch msg.Type {
	case tea.KeyEnter:
		return m.handleKeyEnter()
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m *generateCmdModel) handleKeyEnter() (tea.Model, tea.Cmd) {
	v := m.textInput.Value()

	// No input, quit.
	if v == "" {
		placeholderStyle := lipgloss.NewStyle().Faint(true)
		message := placeholderStyle.Render("No website description entered. Exiting...")
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}

	m.textInput.SetValue("")
	m.request.Description = utils.SanitizeInput(v)
	if err := m.request.Validate(); err != nil {
		errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
		return m, tea.Sequence(tea.Printf("%s", errorStyle.Render(err.Error())), tea.Quit)
	}

	m.state = Initializing
	placeholderStyle := lipgloss.NewStyle().Faint(true).Width(80)
	message := placeholderStyle.Render(fmt.Sprintf("> %s", v))
	return m, tea.Printf("%s", message)
}

func (m *generateCmdModel) listenForNextStep() tea.Msg {
	select {
	case step := <-m.publisher.stepChan:
		return step
	case err := <-m.publisher.errorChan:
		m.logger.Error(fmt.Sprintf("Error received during website generation: %v", err))
		return err
	}
}

func (m *generateCmdModel) handleGeneration() tea.Cmd {
	resultChan := m.engine.AddRequest(m.request)
	listenForResult := func() tea.Msg {
		select {
		case res := <-resultChan:
			if res.Err != nil {
				return res.Err
			}
			return res
		case <-time.After(10 * time.Minute):
			m.logger.Error("Website generation timed out")
			return fmt.Errorf("website generation timed out")
		}
	}
	return tea.Batch(m.listenForNextStep, listenForResult)
}

func (m *generateCmdModel) handleStep(step core.StepType) (tea.Model, tea.Cmd) {
	m.logger.Debug(fmt.Sprintf("Received step: %v", step))
	m.completedSteps = append(m.completedSteps, step)
	return m, tea.Batch(m.spinner.Tick, m.listenForNextStep)
}

func (m *generateCmdModel) handleResult(res ExecutionResult) (tea.Model, tea.Cmd) {
	m.logger.Info("Saving generated website.")
	m.state = Finished

	r := res.Result
	if r == nil {
		return m, tea.Sequence(tea.Printf("Error: generation produced no result"), tea.Quit)
	}

	if err := os.WriteFile(archiveFileName, r.Archive, 0644); err != nil {
		m.logger.Error(fmt.Sprintf("Failed to write archive: %v", err))
		return m, tea.Sequence(tea.Printf("Error: %s", err), tea.Quit)
	}

	diagramFile := diagramPNGName
	if r.DiagramPNG != nil {
		if err := os.WriteFile(diagramPNGName, r.DiagramPNG, 0644); err != nil {
			m.logger.Error(fmt.Sprintf("Failed to write diagram: %v", err))
			return m, tea.Sequence(tea.Printf("Error: %s", err), tea.Quit)
		}
	} else {
		diagramFile = diagramDotName
		if err := os.WriteFile(diagramDotName, []byte(r.GraphDot), 0644); err != nil {
			m.logger.Error(fmt.Sprintf("Failed to write diagram description: %v", err))
			return m, tea.Sequence(tea.Printf("Error: %s", err), tea.Quit)
		}
		m.diagramNote = r.DiagramNote
	}

	nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	finalMsg := fmt.Sprintf("Website written to %s, diagram to %s",
		nameStyle.Render(archiveFileName), nameStyle.Render(diagramFile))
	if m.diagramNote != "" {
		warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFBA08"))
		finalMsg += "\n" + warnStyle.Render(m.diagramNote)
	}
	return m, tea.Printf("%s", finalMsg)
}

func (m *generateCmdModel) handleQuit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
		m.logger.Debug("User exited the application")
		style := lipgloss.NewStyle().Faint(true)
		message := style.Render("Interrupted. Exiting application...")
		return m, tea.Sequence(tea.Printf("%s", message), tea.Quit)
	}
	return m, nil
}
