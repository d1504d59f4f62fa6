// Package observability wires the application logger: console output,
// a newest-first log file, and an optional sink feeding the in-app
// console pane.
package observability

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogConfig selects logger behavior
type LogConfig struct {
	Level       string
	Development bool
	FilePath    string
}

// NewLogger builds the application logger. Console and file cores are
// always attached; extra sinks (the UI console pane) are optional.
func NewLogger(cfg LogConfig, extraSinks ...zapcore.WriteSyncer) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Level); err != nil {
		level = zapcore.InfoLevel
	}
	if cfg.Development {
		level = zapcore.DebugLevel
	}

	var encoderCfg zapcore.EncoderConfig
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	} else {
		encoderCfg = zap.NewProductionEncoderConfig()
	}
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewConsoleEncoder(encoderCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.FilePath != "" {
		fileWriter, err := NewReverseFileWriter(cfg.FilePath)
		if err != nil {
			return nil, err
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(fileWriter), level))
	}

	for _, sink := range extraSinks {
		cores = append(cores, zapcore.NewCore(encoder, sink, level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// ReverseFileWriter prepends each log entry to a file so the latest
// entries appear at the top. Matches the historical app.log layout
// that operators expect to read newest-first.
type ReverseFileWriter struct {
	mu   sync.Mutex
	path string
}

// NewReverseFileWriter creates the writer and the file if absent
func NewReverseFileWriter(path string) (*ReverseFileWriter, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return nil, err
		}
	}
	return &ReverseFileWriter{path: path}, nil
}

// Write implements io.Writer. Rewriting the whole file per entry is
// acceptable at interactive logging volume.
func (w *ReverseFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	existing, err := os.ReadFile(w.path)
	if err != nil && !os.IsNotExist(err) {
		return 0, err
	}

	combined := make([]byte, 0, len(p)+len(existing))
	combined = append(combined, p...)
	combined = append(combined, existing...)

	if err := os.WriteFile(w.path, combined, 0o644); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (w *ReverseFileWriter) Sync() error {
	return nil
}

// PaneSink forwards log lines to a UI console pane. The pane attaches
// after the window exists, so the sink buffers nothing and drops lines
// written before attachment.
type PaneSink struct {
	mu     sync.Mutex
	append func(line string)
}

// NewPaneSink creates an unattached sink
func NewPaneSink() *PaneSink {
	return &PaneSink{}
}

// Attach sets the pane append function
func (s *PaneSink) Attach(append func(line string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append = append
}

// Write implements io.Writer
func (s *PaneSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	appendFn := s.append
	s.mu.Unlock()

	if appendFn != nil {
		appendFn(string(p))
	}
	return len(p), nil
}

// Sync implements zapcore.WriteSyncer
func (s *PaneSink) Sync() error {
	return nil
}
