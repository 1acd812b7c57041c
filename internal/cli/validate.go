// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"themeforge/internal/engine"
)

// ValidationResult is the JSON payload of the validate command.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <theme-file>",
		Short: "Check that a theme fixture is fit to publish",
		Long: `Validate runs the publish checks on a theme fixture: required name,
known status, price and currency rules, all four default colors, and unique
section names. Enabled sections outside the section vocabulary are reported
as warnings.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	theme, err := LoadTheme(path)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err)
	}
	formatter.VerboseLog("Validating theme %q with %d section(s)", theme.Name, len(theme.TemplateStructure.Sections))

	result := ValidationResult{Warnings: unrenderableWarnings(engine.UnrenderableSections(theme))}

	verr := engine.ValidateTheme(theme)
	if verr == nil {
		result.Valid = true
		if formatter.JSON() {
			return formatter.Success(result)
		}
		fmt.Fprintln(formatter.Writer, "✓ Theme valid")
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
		}
		return nil
	}

	result.Errors = problems(verr)
	code := ErrCodeInvalidTheme
	if engine.IsIncompleteStyle(verr) {
		code = ErrCodeIncompleteStyle
	}

	if formatter.JSON() {
		if err := formatter.encode(Response{
			Status: "error",
			Data:   result,
			Error:  &ResponseError{Code: code, Message: result.Errors[0]},
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, "✗ Validation failed")
		for _, p := range result.Errors {
			fmt.Fprintf(formatter.Writer, "  %s: %s\n", code, p)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(formatter.Writer, "  warning: %s\n", w)
		}
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}

// problems flattens the joined error ValidateTheme returns into one
// message per problem.
func problems(err error) []string {
	joined, ok := errors.Unwrap(err).(interface{ Unwrap() []error })
	if !ok {
		return []string{err.Error()}
	}
	var out []string
	for _, e := range joined.Unwrap() {
		out = append(out, e.Error())
	}
	return out
}

func unrenderableWarnings(names []string) []string {
	var out []string
	for _, n := range names {
		out = append(out, fmt.Sprintf("section %q is enabled but has no renderer", n))
	}
	return out
}
