package application

import (
	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch"
	"github.com/gridlot/mastermatch/internal/server"
	"github.com/gridlot/mastermatch/pkg/errors"
)

var _ Application = (*Mock)(nil)

// Mock is an Application for command tests. Nil funcs fall back to zero
// values; ClientFunc must be set by tests that touch the client.
type Mock struct {
	ClientFunc       func(opts ...mastermatch.Option) (mastermatch.Client, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	ServerConfigFunc func() server.Config

	VersionValue string
	CommitValue  string
	DateValue    string
	BuiltByValue string
}

// Client implements Application.
func (m *Mock) Client(opts ...mastermatch.Option) (mastermatch.Client, error) {
	if m.ClientFunc == nil {
		return nil, errors.ErrIndexNotLoaded
	}
	return m.ClientFunc(opts...)
}

// Logger implements Application.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc == nil {
		logger := zerolog.Nop()
		return &logger
	}
	return m.LoggerFunc()
}

// OutputFormat implements Application.
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc == nil {
		return ""
	}
	return m.OutputFormatFunc()
}

// ServerConfig implements Application.
func (m *Mock) ServerConfig() server.Config {
	if m.ServerConfigFunc == nil {
		return server.DefaultConfig()
	}
	return m.ServerConfigFunc()
}

// Version implements Application.
func (m *Mock) Version() string { return m.VersionValue }

// Commit implements Application.
func (m *Mock) Commit() string { return m.CommitValue }

// Date implements Application.
func (m *Mock) Date() string { return m.DateValue }

// BuiltBy implements Application.
func (m *Mock) BuiltBy() string { return m.BuiltByValue }
