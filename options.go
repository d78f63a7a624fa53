package schooldb

import (
	"log/slog"
	"net/http"
	"time"
)

// IdentifierMode controls how caller-supplied table names reach SQL text.
type IdentifierMode int

const (
	// IdentifierStrict binds table names as parameters where the engine allows it
	// and otherwise requires them to match [A-Za-z_][A-Za-z0-9_]*.
	IdentifierStrict IdentifierMode = iota
	// IdentifierRaw interpolates table names into metadata statements verbatim.
	// The caller is trusted completely; injected SQL is executed.
	IdentifierRaw
)

// String returns the configuration name of the mode.
func (m IdentifierMode) String() string {
	if m == IdentifierRaw {
		return "raw"
	}
	return "strict"
}

// ErrorPolicy controls how the canned analytics operation reports failures.
type ErrorPolicy int

const (
	// SwallowErrors logs failures and returns an empty result instead.
	SwallowErrors ErrorPolicy = iota
	// ReturnErrors returns failures to the caller.
	ReturnErrors
)

// String returns the configuration name of the policy.
func (p ErrorPolicy) String() string {
	if p == ReturnErrors {
		return "return"
	}
	return "swallow"
}

// DefaultHTTPTimeout bounds a single URL fetch when no client is supplied.
const DefaultHTTPTimeout = 60 * time.Second

// Option configures a Database.
type Option func(*Database)

// WithLogger sets the sink for status messages.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Database) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithIdentifierMode sets how table names are placed into SQL.
func WithIdentifierMode(mode IdentifierMode) Option {
	return func(d *Database) {
		d.identifierMode = mode
	}
}

// WithAnalyticsErrorPolicy sets how DifferenceStudentsVsTestTakers reports failures.
func WithAnalyticsErrorPolicy(policy ErrorPolicy) Option {
	return func(d *Database) {
		d.analyticsPolicy = policy
	}
}

// WithHTTPClient sets the client used to fetch http and https sources.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Database) {
		if client != nil {
			d.httpClient = client
		}
	}
}
