package metrics

const (
	LabelReplica = "replica"
	LabelKind    = "kind"
	LabelResult  = "result"
)
