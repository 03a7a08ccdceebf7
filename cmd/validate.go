package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/procsim/procsim/sim"
	"github.com/procsim/procsim/sim/process"
)

// validateCmd compiles a model without running it
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a process model and print its compiled nodes",
	Run: func(cmd *cobra.Command, args []string) {
		if err := validateModel(cmd.OutOrStdout()); err != nil {
			logrus.Fatalf("%v", err)
		}
	},
}

func validateModel(out io.Writer) error {
	m, err := loadModel()
	if err != nil {
		return err
	}
	net, err := sim.Compile(m)
	if err != nil {
		return fmt.Errorf("compiling process model: %w", err)
	}
	_, err = fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s: %d nodes, entry %v", modelTitle(m), net.NumNodes(), net.EntryNodes())))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, renderTable(
		[]string{"Node", "Activity", "Resource", "Servers", "Service", "Mean service", "Exit prob."},
		nodeRows(m, net),
	))
	return err
}

func nodeRows(m *process.Model, net *sim.Network) [][]string {
	rows := make([][]string, net.NumNodes())
	for i, a := range m.Activities {
		rows[i] = []string{
			strconv.Itoa(i),
			a.Name,
			a.Resource.Name,
			a.Resource.Capacity().String(),
			a.Service.String(),
			fmt.Sprintf("%.3f", net.Service(i).Mean()),
			fmt.Sprintf("%.3f", net.ExitProbability(i)),
		}
	}
	return rows
}

func init() {
	validateCmd.Flags().StringVar(&modelPath, "model", "", "Process model file (YAML or JSON)")
	validateCmd.Flags().BoolVar(&exampleModel, "example", false, "Validate the built-in call-centre model")
}
