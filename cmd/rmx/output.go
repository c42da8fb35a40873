package main

import (
	"fmt"

	"github.com/fatih/color"
)

var (
	okMark   = color.New(color.FgGreen)
	warnMark = color.New(color.FgYellow)
	failMark = color.New(color.FgRed)
	dimText  = color.New(color.FgHiBlack)
	addLine  = color.New(color.FgGreen)
	delLine  = color.New(color.FgRed)
)

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.out, "%s %s\n", okMark.Sprint("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.out, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(a.out, "%s %s\n", warnMark.Sprint("⚠"), fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func (a *app) errorMsg(format string, args ...any) {
	fmt.Fprintf(a.out, "%s %s\n", failMark.Sprint("✗"), fmt.Sprintf(format, args...))
}
