package kit

import "go.uber.org/zap"

func NewLogger(service string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}
	l, _ := cfg.Build()
	return l
}

// NewFileLogger logs to a file instead of stderr. The terminal UI owns the
// screen, so its logs must stay off stdout/stderr entirely.
func NewFileLogger(service, path string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.InitialFields = map[string]any{"service": service}
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}
