package metrics

// Prometheus metric namespaces
const (
	namespaceBenchmark = "benchmark"
)

// Prometheus metric subsystems
const (
	subsystemAnalysis   = "analysis"
	subsystemTimeline   = "timeline"
	subsystemSegmenter  = "segmenter"
	subsystemReconciler = "reconciler"
)
