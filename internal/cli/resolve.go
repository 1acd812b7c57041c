// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"themeforge/internal/engine"
	"themeforge/internal/models"
	"themeforge/internal/sections"
)

// ResolveOptions holds the fixture paths of the resolve command.
type ResolveOptions struct {
	Theme    string
	Branding string
	Event    string
	Content  string
	HTML     bool
}

// ResolveResult is the JSON payload of a successful resolve.
type ResolveResult struct {
	Fingerprint string       `json:"fingerprint"`
	Plan        *engine.Plan `json:"plan"`
	Skipped     []string     `json:"skipped,omitempty"`
	HTML        string       `json:"html,omitempty"`
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a theme with branding and event layers into a render plan",
		Long: `Resolve merges a theme fixture with optional tenant branding, event
overrides and ad-hoc preview content, and prints the resulting plan.

With --html the page is also rendered with the built-in section templates.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme fixture (YAML or JSON)")
	cmd.Flags().StringVar(&opts.Branding, "branding", "", "tenant branding fixture")
	cmd.Flags().StringVar(&opts.Event, "event", "", "event fixture")
	cmd.Flags().StringVar(&opts.Content, "content", "", "ad-hoc section content fixture")
	cmd.Flags().BoolVar(&opts.HTML, "html", false, "render the page")
	_ = cmd.MarkFlagRequired("theme")

	return cmd
}

func runResolve(rootOpts *RootOptions, opts *ResolveOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	in, content, err := loadResolveInputs(opts)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err)
	}
	formatter.VerboseLog("Loaded theme %s (%s, version %d)", in.Theme.Name, in.Theme.ID, in.Theme.Version)

	fp, err := engine.Fingerprint(in, content)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeResolve, err)
	}

	registry, err := sections.NewRegistry()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRender, err)
	}
	layout, err := sections.NewLayout()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRender, err)
	}
	eng := engine.New(registry, layout, 1)

	var (
		plan *engine.Plan
		page []byte
	)
	if content != nil {
		formatter.VerboseLog("Applying ad-hoc content for %d section(s)", len(content))
		plan, page, err = eng.Preview(in, content)
	} else {
		plan, _, err = eng.Plan(in)
		if err == nil && opts.HTML {
			page, err = eng.RenderPage(in)
		}
	}
	if err != nil {
		return formatter.Fail(ExitFailure, resolveErrorCode(err), err)
	}

	result := ResolveResult{
		Fingerprint: fp,
		Plan:        plan,
		Skipped:     engine.UnrenderableSections(in.Theme),
	}
	if opts.HTML {
		result.HTML = string(page)
	}

	if formatter.JSON() {
		return formatter.Success(result)
	}
	if opts.HTML {
		_, err := formatter.Writer.Write(page)
		return err
	}
	writePlan(formatter.Writer, result)
	return nil
}

func loadResolveInputs(opts *ResolveOptions) (engine.Inputs, map[string]models.Content, error) {
	theme, err := LoadTheme(opts.Theme)
	if err != nil {
		return engine.Inputs{}, nil, err
	}
	branding, err := LoadBranding(opts.Branding)
	if err != nil {
		return engine.Inputs{}, nil, err
	}
	event, err := LoadEvent(opts.Event)
	if err != nil {
		return engine.Inputs{}, nil, err
	}
	content, err := LoadContent(opts.Content)
	if err != nil {
		return engine.Inputs{}, nil, err
	}
	return engine.Inputs{Theme: theme, Branding: branding, Event: event}, content, nil
}

func resolveErrorCode(err error) string {
	switch {
	case engine.IsIncompleteStyle(err):
		return ErrCodeIncompleteStyle
	case errors.Is(err, engine.ErrThemeNotActive):
		return ErrCodeThemeNotActive
	}
	return ErrCodeResolve
}

// writePlan prints a human-readable plan summary.
func writePlan(w io.Writer, r ResolveResult) {
	p := r.Plan
	fmt.Fprintf(w, "theme %s v%d (%s)\n", p.ThemeID, p.ThemeVersion, p.Category)
	fmt.Fprintf(w, "fingerprint %s\n", r.Fingerprint)
	fmt.Fprintf(w, "layout %q, light background: %t\n", p.Layout, p.IsLight)
	fmt.Fprintf(w, "colors: primary=%s secondary=%s background=%s text=%s\n",
		p.Colors.Primary, p.Colors.Secondary, p.Colors.Background, p.Colors.Text)
	fmt.Fprintf(w, "fonts: heading=%q body=%q\n", p.Fonts.Heading, p.Fonts.Body)

	fmt.Fprintln(w, "sections:")
	for i, s := range p.Sections {
		marker := ""
		if !s.Kind.Orderable() {
			marker = " (not rendered)"
		}
		fmt.Fprintf(w, "  %d. %s [order %d, %d key(s)]%s\n", i+1, s.Name, s.Order, len(s.Content), marker)
	}
	fmt.Fprintln(w, "  -. footer")
}
