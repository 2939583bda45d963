package hooks

// Log field names.
const (
	FieldRunID    = "run_id"
	FieldStage    = "stage"
	FieldDuration = "duration"
	FieldContext  = "context"
	FieldPipeline = "pipeline"
)

// Span attribute keys.
const (
	AttrStage  = "pipes.stage"
	AttrRunID  = "pipes.run_id"
	AttrHalted = "pipes.halted"
	AttrStatus = "pipes.status"
)
