// Package pipeline runs one full analysis: load raw class records, decode
// them on a bounded worker pool, merge the results, then derive graphs,
// flows and components from the complete set. Publication is all or
// nothing; a cancelled run returns an error and no partial result.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"classlens/internal/archive"
	"classlens/internal/callgraph"
	"classlens/internal/classfile"
	"classlens/internal/components"
	"classlens/internal/depgraph"
	"classlens/internal/errors"
	"classlens/internal/flow"
	"classlens/internal/metadata"
	"classlens/internal/observability"
)

// Options selects inputs and bounds for one run.
type Options struct {
	Paths          []string
	ExcludeEntries []string
	ExternalTypes  []string
	PoolSize       int
	FlowMaxDepth   int
	FlowMaxEdges   int
	Catalog        components.Catalog
}

// Diagnostic records one skipped class record. Skips are per record and
// never abort the run.
type Diagnostic struct {
	Archive string
	Entry   string
	Code    errors.ErrorCode
	Message string
}

// Result is the published outcome of one complete run.
type Result struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Index            *metadata.Index
	Dependencies     *depgraph.Graph
	CycleGroups      [][]string
	InheritanceDepth map[string]int
	Calls            *callgraph.Graph
	EntryPoints      []string
	ParameterStats   callgraph.ParameterStats
	Flows            []flow.TypeFlow
	Chains           []flow.Chain
	FlowDiagram      string
	Components       []components.Component
	Beans            []components.Bean
	ComponentDeps    []components.Dependency
	Versions         map[string]int
	Diagnostics      []Diagnostic
}

type sourceRecord struct {
	archive string
	entry   string
	data    []byte
}

// outcome is one worker's slot. Exactly one of class/diag is set.
type outcome struct {
	class   *metadata.Class
	version string
	diag    *Diagnostic
}

// Run executes the pipeline. Per-record parsing and analysis failures are
// collected as diagnostics; archive-level failures and cancellation are
// fatal.
func Run(ctx context.Context, opts Options) (*Result, error) {
	ctx, span := observability.Tracer.Start(ctx, "pipeline.Run")
	defer span.End()

	started := time.Now()
	runID := uuid.NewString()
	log := slog.With("run_id", runID)

	records, err := loadRecords(ctx, opts)
	if err != nil {
		return nil, err
	}
	log.Info("records loaded", "count", len(records))
	span.SetAttributes(attribute.Int("records", len(records)))

	outcomes, err := extractAll(ctx, records, opts.PoolSize)
	if err != nil {
		return nil, err
	}

	// Single-writer merge, in stable input order.
	var classes []*metadata.Class
	versions := make(map[string]int)
	var diags []Diagnostic
	for _, out := range outcomes {
		switch {
		case out.diag != nil:
			diags = append(diags, *out.diag)
			observability.RecordDiagnostics.WithLabelValues(string(out.diag.Code)).Inc()
		case out.class != nil:
			classes = append(classes, out.class)
			versions[out.version]++
		}
	}

	result, err := analyze(ctx, classes, opts)
	if err != nil {
		return nil, err
	}

	result.RunID = runID
	result.StartedAt = started
	result.Duration = time.Since(started)
	result.Versions = versions
	result.Diagnostics = diags

	log.Info("analysis complete",
		"classes", result.Index.Len(),
		"edges", result.Dependencies.EdgeCount(),
		"cycle_groups", len(result.CycleGroups),
		"diagnostics", len(diags),
		"duration", result.Duration)
	return result, nil
}

func loadRecords(ctx context.Context, opts Options) ([]sourceRecord, error) {
	_, span := observability.Tracer.Start(ctx, "pipeline.loadRecords")
	defer span.End()

	exclude, err := archive.NewMatcher(opts.ExcludeEntries)
	if err != nil {
		return nil, err
	}

	var records []sourceRecord
	for _, path := range opts.Paths {
		loaded, err := archive.Read(path, exclude)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxArchive, path)
		}
		for _, r := range loaded {
			records = append(records, sourceRecord{archive: path, entry: r.Name, data: r.Data})
		}
	}
	return records, nil
}

// extractAll decodes every record on a bounded pool. Each task owns its
// result slot, so no locking happens until the join barrier has passed.
func extractAll(ctx context.Context, records []sourceRecord, poolSize int) ([]outcome, error) {
	ctx, span := observability.Tracer.Start(ctx, "pipeline.extract")
	defer span.End()

	if poolSize <= 0 {
		poolSize = 1
	}
	outcomes := make([]outcome, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(poolSize)
	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			outcomes[i] = extractOne(records[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("extraction aborted: %w", err)
	}
	return outcomes, nil
}

func extractOne(rec sourceRecord) outcome {
	timer := time.Now()
	defer func() {
		observability.ExtractionDuration.Observe(time.Since(timer).Seconds())
	}()

	diag := func(code errors.ErrorCode, err error) outcome {
		return outcome{diag: &Diagnostic{
			Archive: rec.archive,
			Entry:   rec.entry,
			Code:    code,
			Message: err.Error(),
		}}
	}

	if !classfile.Validate(rec.data) {
		return diag(errors.CodeParsing, errors.Newf(errors.CodeParsing, "not a class record"))
	}
	header, err := classfile.ParseHeader(rec.data)
	if err != nil {
		return diag(errors.CodeParsing, err)
	}
	c, err := classfile.Extract(rec.data)
	if err != nil {
		code := errors.CodeAnalysis
		if errors.IsCode(err, errors.CodeParsing) {
			code = errors.CodeParsing
		}
		return diag(code, err)
	}

	observability.ClassesExtracted.Inc()
	return outcome{class: c, version: classfile.FormatVersion(int(header.Major))}
}

// analyze derives every downstream structure from the merged class set.
func analyze(ctx context.Context, classes []*metadata.Class, opts Options) (*Result, error) {
	_, span := observability.Tracer.Start(ctx, "pipeline.analyze")
	defer span.End()

	idx := metadata.NewIndex(classes)

	exclude, err := depgraph.NewExcluder(opts.ExternalTypes)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeValidationError, "external type patterns")
	}

	stage := func(name string) func() {
		start := time.Now()
		return func() {
			observability.AnalysisDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		}
	}

	done := stage("dependency_graph")
	deps := depgraph.Build(idx, exclude)
	cycles := deps.CircularGroups()
	depths := depgraph.InheritanceDepth(idx)
	done()

	observability.GraphNodes.Set(float64(deps.NodeCount()))
	observability.GraphEdges.Set(float64(deps.EdgeCount()))
	observability.CycleGroups.Set(float64(len(cycles)))

	done = stage("call_graph")
	calls := callgraph.Build(idx)
	entryPoints := calls.FindEntryPoints()
	paramStats := callgraph.AnalyzeParameters(idx)
	done()

	done = stage("data_flow")
	flows := flow.AnalyzeFlow(idx)
	chains := flow.AnalyzeCallChains(calls, entryPoints, opts.FlowMaxDepth)
	diagram := flow.GenerateFlowDiagram(flows, opts.FlowMaxEdges)
	done()

	done = stage("components")
	comps := components.DetectComponents(idx, opts.Catalog)
	beans := components.DetectBeans(idx, opts.Catalog)
	compDeps := components.DetectDependencies(idx, opts.Catalog)
	done()

	return &Result{
		Index:            idx,
		Dependencies:     deps,
		CycleGroups:      cycles,
		InheritanceDepth: depths,
		Calls:            calls,
		EntryPoints:      entryPoints,
		ParameterStats:   paramStats,
		Flows:            flows,
		Chains:           chains,
		FlowDiagram:      diagram,
		Components:       comps,
		Beans:            beans,
		ComponentDeps:    compDeps,
	}, nil
}
