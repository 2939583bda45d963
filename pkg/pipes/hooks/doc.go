// Package hooks provides pipes.Hooks implementations that run around every
// stage of a pipeline.
//
// Key operations:
// - Logging: zerolog records for stage start, finish, halt and error
// - Tracing: one OpenTelemetry span per stage
// - Metrics: OpenTelemetry stage counters and duration histograms
// - ContinueOn/Tolerate: swallow selected stage errors so the run continues
// - Multi: combine several hooks into one
// - NewLogger/FromConfig: build the above from config.Config
//
// Example:
//
//	cfg, _ := config.Load()
//	log := hooks.NewLogger(cfg.Logging, os.Stderr)
//	h, _ := hooks.FromConfig(*cfg, log, nil, nil)
//	ctx := pipes.WithContextOptions(context.Background(), pipes.WithHooks(h))
//	pc, err := pipes.Run(ctx, pipeline, pipes.Fields{"user": "ann"})
package hooks
