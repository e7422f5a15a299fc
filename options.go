package mastermatch

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/gridlot/mastermatch/pkg/constants"
	"github.com/gridlot/mastermatch/pkg/errors"
	"github.com/gridlot/mastermatch/pkg/logging"
	"github.com/gridlot/mastermatch/pkg/matcher"
	"github.com/gridlot/mastermatch/pkg/sources"
)

// options holds the client configuration.
type options struct {
	sources       []sources.Source
	matcherConfig matcher.Config
	workers       int
	maxRows       int

	autoRefreshEnabled  bool
	autoRefreshInterval time.Duration
	refreshTimeout      time.Duration
	lazyLoad            bool

	logger *zerolog.Logger
	now    func() time.Time
}

func defaults() *options {
	return &options{
		matcherConfig:       matcher.DefaultConfig(),
		workers:             constants.DefaultWorkers,
		maxRows:             constants.MaxBatchRows,
		autoRefreshInterval: constants.DefaultRefreshInterval,
		refreshTimeout:      constants.RefreshTimeout,
		logger:              logging.Default(),
		now:                 time.Now,
	}
}

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if len(o.sources) == 0 {
		o.sources = []sources.Source{sources.NewEmbedded()}
	}
	if err := o.matcherConfig.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// Option is a function that configures a Client.
type Option func(*options) error

// WithSources sets the sources each refresh loads, in order. The bundled
// catalog is used when no source is given.
func WithSources(srcs ...sources.Source) Option {
	return func(o *options) error {
		o.sources = append(o.sources, srcs...)
		return nil
	}
}

// WithMatcherConfig sets the thresholds and suggestion count.
func WithMatcherConfig(cfg matcher.Config) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.matcherConfig = cfg
		return nil
	}
}

// WithWorkers sets how many rows of a batch are resolved concurrently.
func WithWorkers(n int) Option {
	return func(o *options) error {
		if n < 1 {
			return errors.NewConfigError("client", "workers must be at least 1", nil)
		}
		o.workers = n
		return nil
	}
}

// WithMaxRows sets the largest batch Validate accepts. Zero disables the limit.
func WithMaxRows(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return errors.NewConfigError("client", "maxRows must not be negative", nil)
		}
		o.maxRows = n
		return nil
	}
}

// WithAutoRefresh configures whether periodic refreshes start with the client.
func WithAutoRefresh(enabled bool) Option {
	return func(o *options) error {
		o.autoRefreshEnabled = enabled
		return nil
	}
}

// WithAutoRefreshInterval sets the refresh period and enables auto refresh.
func WithAutoRefreshInterval(interval time.Duration) Option {
	return func(o *options) error {
		o.autoRefreshInterval = interval
		o.autoRefreshEnabled = true
		return nil
	}
}

// WithRefreshTimeout bounds a single load and build.
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(o *options) error {
		if timeout <= 0 {
			return errors.NewConfigError("client", "refresh timeout must be positive", nil)
		}
		o.refreshTimeout = timeout
		return nil
	}
}

// WithLazyLoad defers the first load until Refresh is called.
func WithLazyLoad() Option {
	return func(o *options) error {
		o.lazyLoad = true
		return nil
	}
}

// WithLogger sets the logger for refresh and batch events.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}
