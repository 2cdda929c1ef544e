package obslog

import (
	"fmt"
	"io"
	"os"
)

// traceOutput is the destination for low-level trace output used inside
// hot loops (element dispatch, table walks) where the structured
// Logger's formatting cost isn't worth paying by default.
var traceOutput io.Writer = os.Stdout

var traceEnabled = false

func SetTraceOutput(w io.Writer) {
	traceOutput = w
	traceEnabled = true
}

func EnableTrace()  { traceEnabled = true }
func DisableTrace() { traceEnabled = false }

func Tracef(format string, args ...interface{}) {
	if traceEnabled && traceOutput != nil {
		fmt.Fprintf(traceOutput, format, args...)
	}
}

func Traceln(args ...interface{}) {
	if traceEnabled && traceOutput != nil {
		fmt.Fprintln(traceOutput, args...)
	}
}
