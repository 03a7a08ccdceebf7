package cmd

import (
	"github.com/procsim/procsim/sim/experiment"
	"github.com/procsim/procsim/sim/process"
)

func experimentTable() *experiment.SummaryTable {
	rows := []experiment.ReplicationRow{
		{Replication: 0, Activity: "A", Resource: "R", Capacity: process.Servers(1), Arrivals: 2, MeanWait: 2},
		{Replication: 1, Activity: "A", Resource: "R", Capacity: process.Servers(1), Arrivals: 3, MeanWait: 3},
	}
	return experiment.Summarise(rows)
}
