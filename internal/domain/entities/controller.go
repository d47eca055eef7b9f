package entities

import "github.com/spf13/cobra"

// ControllerBind is the Cobra metadata a controller exposes for its subcommand.
type ControllerBind struct {
	Use   string
	Short string
	Long  string
	Args  cobra.PositionalArgs
}

// Controller is a CLI entry point backed by a domain command.
type Controller interface {
	GetBind() ControllerBind
	AddFlags(command *cobra.Command)
	Execute(command *cobra.Command, arguments []string) error
}
