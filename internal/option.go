package internal

import (
	"errors"
	"io"
	"log/slog"
)

// Option configures Run and RunMCP.
type Option func(*application)

type application struct {
	config    *Config
	logOutput io.Writer
}

// WithConfig sets the application configuration. It is required.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLogOutput sends the JSON log stream to w instead of the transport's
// default (stdout for HTTP, stderr for MCP).
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

func newApplication(defaultLog io.Writer, opts ...Option) (*application, error) {
	app := &application{logOutput: defaultLog}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, errors.New("config is required")
	}
	return app, nil
}

// logger builds the process logger and installs it as the slog default.
func (a *application) logger() *slog.Logger {
	l := newLogger(a.logOutput, a.config.App.LogLevel)
	slog.SetDefault(l)
	return l
}
