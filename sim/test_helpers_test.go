package sim

import (
	"github.com/procsim/procsim/sim/dist"
	"github.com/procsim/procsim/sim/process"
)

func expSpec(rate float64) dist.Spec {
	return dist.Spec{Type: dist.Exponential, Params: map[string]float64{"rate": rate}}
}

func detSpec(v float64) dist.Spec {
	return dist.Spec{Type: dist.Deterministic, Params: map[string]float64{"value": v}}
}

func capacity(n int) *process.Capacity {
	c := process.Servers(n)
	return &c
}

// twoNodeModel is A -> B with probability pAB; B always exits.
func twoNodeModel(pAB float64) *process.Model {
	arr := expSpec(1.0)
	return &process.Model{
		Activities: []process.Activity{
			{Name: "A", Service: expSpec(5.0), Resource: process.Resource{Name: "Desk", Number: capacity(1)}},
			{Name: "B", Service: detSpec(0.1), Resource: process.Resource{Name: "Pool", Type: "infinite"}},
		},
		Transitions: []process.Transition{
			{From: "A", To: "B", Probability: pAB},
			{From: "B", To: process.ExitNode, Probability: 1},
		},
		InterArrival: &arr,
	}
}
