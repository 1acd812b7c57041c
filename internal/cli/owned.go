// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"themeforge/internal/entitlement"
)

// OwnedOptions holds the flags of the owned command.
type OwnedOptions struct {
	Theme        string
	Tenant       string
	Entitlements string
}

// OwnedResult is the JSON payload of the owned command.
type OwnedResult struct {
	TenantID uuid.UUID `json:"tenant_id"`
	ThemeID  uuid.UUID `json:"theme_id"`
	Owned    bool      `json:"owned"`
	Free     bool      `json:"free"`
}

// NewOwnedCommand creates the owned command.
func NewOwnedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OwnedOptions{}

	cmd := &cobra.Command{
		Use:   "owned",
		Short: "Check whether a tenant may use a theme",
		Long: `Owned runs the entitlement gate against a ledger fixture. Free themes
are always owned; premium themes need an active record for the tenant.
The command exits with status 1 when the theme is not owned.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOwned(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Theme, "theme", "", "theme fixture (YAML or JSON)")
	cmd.Flags().StringVar(&opts.Tenant, "tenant", "", "tenant ID")
	cmd.Flags().StringVar(&opts.Entitlements, "entitlements", "", "entitlement ledger fixture")
	_ = cmd.MarkFlagRequired("theme")
	_ = cmd.MarkFlagRequired("tenant")

	return cmd
}

func runOwned(rootOpts *RootOptions, opts *OwnedOptions, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd)

	tenantID, err := uuid.Parse(opts.Tenant)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, fmt.Errorf("tenant: %w", err))
	}
	theme, err := LoadTheme(opts.Theme)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err)
	}
	ents, err := LoadEntitlements(opts.Entitlements)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err)
	}
	formatter.VerboseLog("Loaded %d entitlement record(s)", len(ents))

	guard := entitlement.NewGuard(entitlement.NewMemoryStore(ents...))
	owned, err := guard.Owned(cmd.Context(), theme, tenantID)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeLoad, err)
	}

	result := OwnedResult{TenantID: tenantID, ThemeID: theme.ID, Owned: owned, Free: theme.IsFree()}
	if formatter.JSON() {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else {
		state := "not owned"
		switch {
		case result.Free:
			state = "owned (free theme)"
		case owned:
			state = "owned"
		}
		fmt.Fprintf(formatter.Writer, "theme %s for tenant %s: %s\n", theme.ID, tenantID, state)
	}

	if !owned {
		return NewExitError(ExitFailure, ErrCodeNotOwned)
	}
	return nil
}
