package controllers

import (
	"fmt"
	"io"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// FetchController handles the "fetch" subcommand (batch mode).
type FetchController struct {
	command commands.Fetch
}

// NewFetchController creates a new FetchController.
func NewFetchController(command commands.Fetch) *FetchController {
	return &FetchController{command: command}
}

// GetBind returns the Cobra command metadata for the fetch controller.
func (it *FetchController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "fetch <owner/repo>",
		Short: "Fetch every file of a repository branch",
		Long: `Fetch the whole file tree of a repository branch and print it once
every file has been retrieved.

Files listed in the repository's ignore file are skipped unless
--no-exclusions is given. Requests are throttled to the configured
concurrency and rate, and transient failures are retried.`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute runs the batch fetch and writes the rendered output.
func (it *FetchController) Execute(cmd *cobra.Command, args []string) error {
	opts, err := parseFetchOptions(cmd, args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out, err := it.command.Execute(commandContext(cmd), settings, opts)
	if err != nil {
		return err
	}

	outputPath, _ := cmd.Flags().GetString("output")
	var writer io.Writer = cmd.OutOrStdout()
	if outputPath != "" {
		file, createErr := os.Create(outputPath)
		if createErr != nil {
			return fmt.Errorf("failed to create output file: %w", createErr)
		}
		defer file.Close()
		writer = file
	}

	if _, writeErr := out.WriteTo(writer); writeErr != nil {
		return fmt.Errorf("failed to write output: %w", writeErr)
	}
	if outputPath != "" {
		logger.Infof("Wrote %d files to %s", out.Count, outputPath)
	}
	return nil
}

// AddFlags adds the fetch-specific flags to the given Cobra command.
func (it *FetchController) AddFlags(cmd *cobra.Command) {
	addFetchFlags(cmd, entities.FormatJSON)
	cmd.Flags().StringP("output", "o", "", "Write the output to this file instead of stdout")
}
