package hooks

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ib-77/pipes/pkg/pipes"
	"github.com/ib-77/pipes/pkg/pipes/config"
)

// NewLogger creates a zerolog logger from cfg writing to w (stdout if nil).
func NewLogger(cfg config.LoggingConfig, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var zl zerolog.Logger
	if strings.ToLower(cfg.Format) == "console" {
		zl = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: "15:04:05",
			NoColor:    cfg.NoColor,
			FormatLevel: func(i interface{}) string {
				return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprintf("%s", i)))
			},
		})
	} else {
		zl = zerolog.New(w)
	}
	zl = zl.Level(level)

	if cfg.Timestamp {
		zl = zl.With().Timestamp().Logger()
	}
	return zl
}

// FromConfig assembles hooks from cfg: logging always, tracing and metrics
// when enabled, tolerance for the configured stage names. A nil tracer or
// meter falls back to the global provider.
func FromConfig(cfg config.Config, log zerolog.Logger, tracer trace.Tracer, meter metric.Meter) (pipes.Hooks, error) {
	hooks := []pipes.Hooks{Logging(log.With().Str(FieldPipeline, cfg.Name).Logger())}
	if cfg.Tracing.Enabled {
		if tracer == nil {
			tracer = otel.Tracer(cfg.Name)
		}
		hooks = append(hooks, Tracing(tracer, cfg.Tracing.Prefix))
	}
	if cfg.Metrics.Enabled {
		if meter == nil {
			meter = otel.Meter(cfg.Name)
		}
		m, err := Metrics(meter)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, m)
	}
	if len(cfg.Tolerate) > 0 {
		hooks = append(hooks, Tolerate(cfg.Tolerate...))
	}
	return Multi(hooks...), nil
}
