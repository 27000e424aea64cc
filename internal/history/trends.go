package history

// TrendPoint is one persisted run annotated with deltas against the run
// before it. The oldest run carries zero deltas.
type TrendPoint struct {
	Run
	DeltaClasses     int
	DeltaEdges       int
	DeltaCycleGroups int
	DeltaComponents  int
	DeltaEntryPoints int
	DeltaDiagnostics int
}

// BuildTrend annotates runs with run-over-run deltas. The input must be
// ordered oldest first, as LoadRuns returns it.
func BuildTrend(runs []Run) []TrendPoint {
	points := make([]TrendPoint, 0, len(runs))
	for i, run := range runs {
		p := TrendPoint{Run: run}
		if i > 0 {
			prev := runs[i-1]
			p.DeltaClasses = run.ClassCount - prev.ClassCount
			p.DeltaEdges = run.EdgeCount - prev.EdgeCount
			p.DeltaCycleGroups = run.CycleGroupCount - prev.CycleGroupCount
			p.DeltaComponents = run.ComponentCount - prev.ComponentCount
			p.DeltaEntryPoints = run.EntryPointCount - prev.EntryPointCount
			p.DeltaDiagnostics = run.DiagnosticCount - prev.DiagnosticCount
		}
		points = append(points, p)
	}
	return points
}
