package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/antoKeinanen/novarum/pkg/lint"
	"github.com/antoKeinanen/novarum/pkg/schema"
	"github.com/antoKeinanen/novarum/pkg/script"
)

// printError reports a failed command. Script errors name the failing line.
func printError(err error) {
	writeError(os.Stderr, err)
}

func writeError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold).Sprint("error:")
	var serr *script.Error
	if errors.As(err, &serr) && errors.Is(err, script.ErrPromptAborted) {
		fmt.Fprintf(w, "%s aborted at line %d\n", label, serr.Line)
		return
	}
	fmt.Fprintf(w, "%s %v\n", label, err)
}

// printDiagnostics prints lint findings for a script in line order.
func printDiagnostics(path string, diags []*lint.Diagnostic) {
	writeDiagnostics(os.Stderr, path, diags)
}

func writeDiagnostics(w io.Writer, path string, diags []*lint.Diagnostic) {
	for _, d := range diags {
		sev := color.YellowString("⚠")
		if d.Severity == lint.SeverityError {
			sev = color.RedString("✗")
		}
		fmt.Fprintf(w, "  %s %s:%d: %s\n", sev, path, d.Line, d.Message)
	}
}

// printScenarioErrors prints scenario validation findings.
func printScenarioErrors(path string, errs []*schema.ValidationError) {
	for _, e := range errs {
		sev := color.RedString("✗")
		if e.Severity == "warning" {
			sev = color.YellowString("⚠")
		}
		fmt.Fprintf(os.Stderr, "  %s %s [%s] %s\n", sev, path, e.Phase, e.Message)
		if e.Path != "" {
			fmt.Fprintf(os.Stderr, "      at: %s\n", e.Path)
		}
	}
}
