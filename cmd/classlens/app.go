package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"classlens/internal/config"
	"classlens/internal/history"
	"classlens/internal/observability"
	"classlens/internal/pipeline"
	"classlens/internal/report"
	"classlens/internal/util"
	"classlens/internal/watcher"
)

type App struct {
	Config     *config.Config
	store      *history.Store
	obsServer  *observability.Server
	teaProgram *tea.Program

	shutdownTracing func(context.Context) error

	mu        sync.Mutex
	lastRunID string
	lastRunAt time.Time
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	if cfg.History.Path != "" {
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		app.store = store
	}

	if cfg.Observability.OTLPEndpoint != "" {
		shutdown, err := observability.SetupTracing(ctx, cfg.Observability.OTLPEndpoint)
		if err != nil {
			return nil, err
		}
		app.shutdownTracing = shutdown
	}

	if cfg.Observability.ListenAddr != "" {
		app.obsServer = observability.NewServer(cfg.Observability.ListenAddr, app.healthStatus)
		if err := app.obsServer.Start(ctx); err != nil {
			return nil, err
		}
	}

	return app, nil
}

func (a *App) Close(ctx context.Context) {
	if a.obsServer != nil {
		if err := a.obsServer.Stop(ctx); err != nil {
			slog.Warn("observability server shutdown failed", "error", err)
		}
	}
	if a.shutdownTracing != nil {
		if err := a.shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			slog.Warn("history store close failed", "error", err)
		}
	}
}

func (a *App) healthStatus(ctx context.Context) observability.Health {
	a.mu.Lock()
	defer a.mu.Unlock()

	status := "up"
	if a.lastRunID == "" {
		status = "starting"
	}
	return observability.Health{
		Status:    status,
		LastRunID: a.lastRunID,
		LastRunAt: a.lastRunAt,
	}
}

// RunOnce executes one full analysis and writes every configured output.
func (a *App) RunOnce(ctx context.Context) (*pipeline.Result, error) {
	result, err := pipeline.Run(ctx, pipeline.OptionsFromConfig(a.Config))
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.lastRunID = result.RunID
	a.lastRunAt = result.StartedAt
	a.mu.Unlock()

	if err := a.GenerateOutputs(result); err != nil {
		slog.Error("failed to generate outputs", "error", err)
	}
	a.saveHistory(result)

	if a.teaProgram != nil {
		a.teaProgram.Send(resultMsg{result: result})
	}
	return result, nil
}

func (a *App) GenerateOutputs(result *pipeline.Result) error {
	mermaid := report.NewMermaidGenerator(result.Dependencies, result.CycleGroups)

	if a.Config.Output.Markdown != "" {
		componentDiagram, err := mermaid.GenerateComponent(result.Components, result.ComponentDeps)
		if err != nil {
			return err
		}
		md, err := report.NewMarkdownGenerator().Generate(report.FromResult(result), report.Options{
			ProjectName:      strings.Join(a.Config.Input.Paths, ", "),
			Version:          VERSION,
			TableOfContents:  true,
			ComponentDiagram: componentDiagram,
			FlowDiagram:      result.FlowDiagram,
		})
		if err != nil {
			return err
		}
		if err := util.WriteStringWithDirs(a.Config.Output.Markdown, md, 0o644); err != nil {
			return err
		}
	}

	if a.Config.Output.Diagram != "" || a.Config.Output.InjectInto != "" {
		diagram, err := mermaid.GenerateDependencies()
		if err != nil {
			return err
		}
		if a.Config.Output.Diagram != "" {
			if err := util.WriteStringWithDirs(a.Config.Output.Diagram, diagram, 0o644); err != nil {
				return err
			}
		}
		if a.Config.Output.InjectInto != "" {
			block := "```mermaid\n" + diagram + "\n```"
			if err := report.InjectDiagram(a.Config.Output.InjectInto, "dependencies", block); err != nil {
				return err
			}
		}
	}

	if a.Config.Output.JSON != "" {
		data, err := report.MarshalSummary(result)
		if err != nil {
			return err
		}
		if err := util.WriteFileWithDirs(a.Config.Output.JSON, data, 0o644); err != nil {
			return err
		}
	}

	return nil
}

func (a *App) saveHistory(result *pipeline.Result) {
	if a.store == nil {
		return
	}
	run := history.Run{
		RunID:           result.RunID,
		Timestamp:       result.StartedAt.UTC(),
		ClassCount:      result.Index.Len(),
		EdgeCount:       result.Dependencies.EdgeCount(),
		CycleGroupCount: len(result.CycleGroups),
		ComponentCount:  len(result.Components),
		EntryPointCount: len(result.EntryPoints),
		DiagnosticCount: len(result.Diagnostics),
		Duration:        result.Duration,
	}
	if err := a.store.SaveRun(run); err != nil {
		slog.Warn("failed to save run history", "error", err)
	}
}

func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))
	if _, err := a.RunOnce(context.Background()); err != nil {
		slog.Error("re-analysis failed", "error", err)
	}
}

func (a *App) StartWatcher() error {
	limiter := util.NewLimiter(a.Config.Watch.RatePerSec, a.Config.Watch.Burst)
	w, err := watcher.NewWatcher(a.Config.Watch.Debounce, limiter, a.HandleChanges)
	if err != nil {
		return err
	}
	// The watcher runs for the lifetime of the process.
	return w.Watch(a.Config.Input.Paths)
}

func (a *App) PrintSummary(result *pipeline.Result) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Analyzed %d classes (%d dependency edges) in %v\n",
		result.Index.Len(), result.Dependencies.EdgeCount(), result.Duration)

	if len(result.CycleGroups) > 0 {
		fmt.Printf("⚠️  FOUND %d DEPENDENCY CYCLES:\n", len(result.CycleGroups))
		for _, group := range result.CycleGroups {
			fmt.Printf("   %s\n", strings.Join(group, " -> "))
		}
	} else {
		fmt.Println("✅ No dependency cycles found.")
	}

	if len(result.Components) > 0 {
		fmt.Printf("🧩 %d components detected:\n", len(result.Components))
		for _, c := range result.Components {
			fmt.Printf("   %-13s %s\n", c.Type, c.Class)
		}
	}

	if len(result.EntryPoints) > 0 {
		fmt.Printf("🚪 %d entry points:\n", len(result.EntryPoints))
		for _, entry := range result.EntryPoints {
			fmt.Printf("   %s\n", entry)
		}
	}

	if len(result.Versions) > 0 {
		fmt.Print("📦 Platform versions: ")
		parts := make([]string, 0, len(result.Versions))
		for _, label := range util.SortedStringKeys(result.Versions) {
			parts = append(parts, fmt.Sprintf("%s (%d)", label, result.Versions[label]))
		}
		fmt.Println(strings.Join(parts, ", "))
	}

	if len(result.Diagnostics) > 0 {
		fmt.Printf("🧹 %d records skipped:\n", len(result.Diagnostics))
		for _, d := range result.Diagnostics {
			fmt.Printf("   %s!%s: %s\n", d.Archive, d.Entry, d.Message)
		}
	}

	if line := a.trendLine(); line != "" {
		fmt.Println(line)
	}
	fmt.Println(strings.Repeat("-", 40))
}

// trendLine compares the latest persisted run against the one before it.
// Empty without a history store or a previous run to compare with.
func (a *App) trendLine() string {
	if a.store == nil {
		return ""
	}
	runs, err := a.store.LoadRuns(time.Time{})
	if err != nil {
		slog.Warn("failed to load run history", "error", err)
		return ""
	}
	points := history.BuildTrend(runs)
	if len(points) < 2 {
		return ""
	}
	p := points[len(points)-1]
	return fmt.Sprintf("📈 Since previous run: classes %+d, edges %+d, cycles %+d, components %+d",
		p.DeltaClasses, p.DeltaEdges, p.DeltaCycleGroups, p.DeltaComponents)
}

func (a *App) RunUI(initial *pipeline.Result) error {
	m := initialModel()
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	go func() {
		a.teaProgram.Send(resultMsg{result: initial})
	}()

	_, err := p.Run()
	return err
}
