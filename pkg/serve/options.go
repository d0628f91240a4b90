package serve

import (
	"log/slog"

	"github.com/askiada/go-evalflow/pkg/logging"
)

const defaultHost = "localhost"

type settings struct {
	host            string
	port            int
	init            map[string]any
	env             map[string]string
	skipOpenBrowser bool
	log             *slog.Logger
}

func newSettings(opts ...Option) *settings {
	set := &settings{
		host: defaultHost,
		log:  logging.Nop(),
	}

	for _, opt := range opts {
		opt(set)
	}

	return set
}

// Option configures an AppHelper.
type Option func(s *settings)

// WithHost sets the host the app binds to. Defaults to localhost.
func WithHost(host string) Option {
	return func(s *settings) {
		s.host = host
	}
}

// WithPort sets the port the app binds to. Zero picks a free port.
func WithPort(port int) Option {
	return func(s *settings) {
		s.port = port
	}
}

// WithInit passes an init configuration to the flow.
func WithInit(init map[string]any) Option {
	return func(s *settings) {
		s.init = init
	}
}

// WithEnv adds environment variables to the serve app process.
func WithEnv(env map[string]string) Option {
	return func(s *settings) {
		s.env = env
	}
}

// WithSkipOpenBrowser disables opening the system browser when the app
// starts in the foreground.
func WithSkipOpenBrowser(skip bool) Option {
	return func(s *settings) {
		s.skipOpenBrowser = skip
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) {
		if log != nil {
			s.log = log
		}
	}
}
