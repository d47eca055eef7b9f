package controllers

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// QuotaController handles the "quota" subcommand.
type QuotaController struct {
	command commands.Quota
}

// NewQuotaController creates a new QuotaController.
func NewQuotaController(command commands.Quota) *QuotaController {
	return &QuotaController{command: command}
}

// GetBind returns the Cobra command metadata for the quota controller.
func (it *QuotaController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "quota",
		Short: "Show the remaining API request quota",
		Args:  cobra.NoArgs,
	}
}

// Execute prints the current quota snapshot.
func (it *QuotaController) Execute(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	quota, err := it.command.Execute(commandContext(cmd), settings)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if quota.Remaining == entities.UnknownQuota {
		_, err = fmt.Fprintf(out, "%s does not report a request quota\n", settings.Provider.Type)
		return err
	}
	_, err = fmt.Fprintf(out, "%s: %d of %d requests remaining", settings.Provider.Type, quota.Remaining, quota.Limit)
	if err == nil && !quota.ResetAt.IsZero() {
		_, err = fmt.Fprintf(out, ", resets at %s", quota.ResetAt.Format(time.RFC3339))
	}
	if err == nil {
		_, err = fmt.Fprintln(out)
	}
	return err
}

// AddFlags adds no flags; quota only uses the global ones.
func (it *QuotaController) AddFlags(_ *cobra.Command) {}
