package controllers

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rios0rios0/repofetch/internal/domain/commands"
	"github.com/rios0rios0/repofetch/internal/domain/entities"
)

// StreamController handles the "stream" subcommand.
type StreamController struct {
	command commands.Stream
}

// NewStreamController creates a new StreamController.
func NewStreamController(command commands.Stream) *StreamController {
	return &StreamController{command: command}
}

// GetBind returns the Cobra command metadata for the stream controller.
func (it *StreamController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "stream <owner/repo>",
		Short: "Print the files of a repository branch as they are fetched",
		Long: `Fetch the file tree of a repository branch and print each file as
soon as it has been retrieved, one at a time.

With --format json every file is written as one JSON object per line.
The string and buffer formats print the same blocks as "fetch".`,
		Args: cobra.ExactArgs(1),
	}
}

// Execute runs the streaming fetch.
func (it *StreamController) Execute(cmd *cobra.Command, args []string) error {
	opts, err := parseFetchOptions(cmd, args)
	if err != nil {
		return err
	}
	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	return it.command.Execute(commandContext(cmd), settings, opts, newStreamWriter(cmd.OutOrStdout()))
}

// AddFlags adds the stream-specific flags to the given Cobra command.
func (it *StreamController) AddFlags(cmd *cobra.Command) {
	addFetchFlags(cmd, entities.FormatString)
}

// newStreamWriter writes json outputs as JSON lines and text outputs as
// blocks separated like the batch string rendering.
func newStreamWriter(w io.Writer) func(entities.Output) error {
	encoder := json.NewEncoder(w)
	first := true
	return func(out entities.Output) error {
		if out.Format == entities.FormatJSON {
			for _, file := range out.Files {
				if err := encoder.Encode(file); err != nil {
					return err
				}
			}
			return nil
		}

		if !first {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		first = false
		_, err := out.WriteTo(w)
		return err
	}
}
