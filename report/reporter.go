package report

import "sync"

// Reporter is responsible for reporting errors, warnings, and other kinds of
// messages to the user while IR generation runs.  The reporter respects the
// set log level.  Lowering itself is strictly single-threaded, but display is
// still synchronized so the reporter can be shared with other compiler stages.
type Reporter struct {
	// The mutex used to synchronize different display calls.
	m *sync.Mutex

	// The selected log level of the reporter.  This must be one of the
	// enumerated log levels below.
	logLevel int

	// Indicates whether or not an error has been detected.
	isErr bool
}

// Enumeration of the different possible log levels.
const (
	LogLevelSilent  = iota // Displays no output.
	LogLevelError          // Displays only errors to the user.
	LogLevelWarn           // Displays warnings and errors to the user.
	LogLevelVerbose        // Displays all messages including lowering traces.
)

// rep is the global reporter instance.
var rep *Reporter

// InitReporter initializes the global error reporter to the given log level.
// If the reporter has already been initialized, this function does nothing.
func InitReporter(logLevel int) {
	if rep == nil {
		rep = &Reporter{
			m:        &sync.Mutex{},
			logLevel: logLevel,
			isErr:    false,
		}
	}
}

// ensureReporter lazily initializes the reporter so that library callers which
// never configure logging still get sane behavior.
func ensureReporter() {
	InitReporter(LogLevelWarn)
}
