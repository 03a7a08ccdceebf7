package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim/process"
)

// exampleCmd prints the embedded call-centre model
var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print the built-in call-centre model as a starting point",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := cmd.OutOrStdout().Write(process.CallCentreJSON()); err != nil {
			logrus.Fatalf("writing example: %v", err)
		}
	},
}
