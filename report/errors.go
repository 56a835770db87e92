package report

import (
	"fmt"
	"os"
)

// InternalError is the payload panicked with by ThrowICE.  It represents an
// internal consistency failure inside the compiler: a bug in an earlier pass
// or in IR generation itself, never erroneous user input.
type InternalError struct {
	// The error message.
	Message string
}

func (ie *InternalError) Error() string {
	return ie.Message
}

// ThrowICE throws an internal compiler error.  These are errors that result
// from a bug or unexpected condition occurring within the compiler: they are
// not intended to ever happen, and they abort the entire compilation run when
// they reach a CatchErrors boundary.  ThrowICE panics rather than exiting
// directly so that the condition remains observable to tests and so cleanup
// logic deferred along the unwind path still runs.
func ThrowICE(message string, args ...interface{}) {
	panic(&InternalError{Message: fmt.Sprintf(message, args...)})
}

// ReportFatal reports a fatal error and exits.  These are expected errors that
// should cause all compilation to stop immediately: invalid configuration,
// missing profile files, etc.
func ReportFatal(message string, args ...interface{}) {
	ensureReporter()

	if rep.logLevel > LogLevelSilent {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayFatal(fmt.Sprintf(message, args...))
	}

	os.Exit(1)
}

// ReportWarning reports a warning attached to a span of source text.  The span
// may be nil in which case no position information is printed.
func ReportWarning(span *TextSpan, message string, args ...interface{}) {
	ensureReporter()

	if rep.logLevel >= LogLevelWarn {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayWarning(span, fmt.Sprintf(message, args...))
	}
}

// Trace reports a verbose-only message describing the progress of lowering.
// It is purely informational: correctness never depends on trace output.
func Trace(message string, args ...interface{}) {
	ensureReporter()

	if rep.logLevel >= LogLevelVerbose {
		rep.m.Lock()
		defer rep.m.Unlock()

		displayTrace(fmt.Sprintf(message, args...))
	}
}

// AnyErrors returns whether or not any errors were detected.
func AnyErrors() bool {
	ensureReporter()
	return rep.isErr
}

// CatchErrors catches internal errors thrown by ThrowICE during a stage of
// compilation, displays them and aborts the run.  Any other panic is
// propagated unchanged.
// NB: This function must ALWAYS be deferred.
func CatchErrors() {
	if x := recover(); x != nil {
		if ierr, ok := x.(*InternalError); ok {
			ensureReporter()

			rep.m.Lock()
			rep.isErr = true
			displayICE(ierr.Message)
			rep.m.Unlock()

			os.Exit(-1)
		}

		panic(x)
	}
}
