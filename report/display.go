package report

import (
	"fmt"

	"github.com/pterm/pterm"
)

var (
	errorStyleBG = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnStyleBG  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	warnColorFG  = pterm.FgYellow
	traceColorFG = pterm.FgGray
)

// displayICE displays an internal compiler error message.
func displayICE(message string) {
	errorStyleBG.Print("Internal Error")
	fmt.Printf(" %s\n", message)
	fmt.Print("This error was not supposed to happen: please open an issue on the Sable repository\n\n")
}

// displayFatal displays a fatal error message.
func displayFatal(message string) {
	errorStyleBG.Print("Fatal Error")
	fmt.Printf(" %s\n\n", message)
}

// displayWarning displays a warning message with optional position info.
func displayWarning(span *TextSpan, message string) {
	warnStyleBG.Print("Warning")

	if span == nil {
		warnColorFG.Printf(" %s\n", message)
	} else {
		warnColorFG.Printf(" %d:%d: %s\n", span.StartLine+1, span.StartCol+1, message)
	}
}

// displayTrace displays a lowering trace message.
func displayTrace(message string) {
	traceColorFG.Printf("[lower] %s\n", message)
}
