package main

import (
	"fmt"
	"os"

	"docpulse/internal/errors"
	"docpulse/internal/logging"
)

func main() {
	logger := logging.NewLogger(logging.Config{
		Format: logging.HumanFormat,
		Level:  logging.InfoLevel,
	})

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command execution failed", map[string]interface{}{
			"error": err.Error(),
		})
		printSuggestedFixes(err)
		os.Exit(1)
	}
}

// printSuggestedFixes shows the fix actions attached to a run error
func printSuggestedFixes(err error) {
	runErr, ok := err.(*errors.RunError)
	if !ok || len(runErr.SuggestedFixes) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "\nSuggested fixes:")
	for _, fix := range runErr.SuggestedFixes {
		if fix.Command != "" {
			fmt.Fprintf(os.Stderr, "  %s\n", fix.Command)
		}
		if fix.Description != "" {
			fmt.Fprintf(os.Stderr, "      %s\n", fix.Description)
		}
	}
}
