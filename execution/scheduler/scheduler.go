// Package scheduler orders the nodes of an ExecutionPlan so that every node
// comes after the nodes it depends on.
package scheduler

import (
	mapset "github.com/deckarep/golang-set/v2"
	pair "github.com/notEpsilon/go-pair"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/planner"
	"golang.org/x/exp/slices"
)

// ReadyNodes returns every node which is not in completed and whose
// dependencies all are. Each call rescans the whole plan.
//
// The result is the same kind of set as completed, so the two can be
// combined with Union and friends. Cycles and dependencies on missing nodes
// are not detected: such nodes are simply never ready.
func ReadyNodes(plan *planner.ExecutionPlan, completed mapset.Set[planner.NodeID]) mapset.Set[planner.NodeID] {
	ready := completed.Clone()
	ready.Clear()
	for _, node := range plan.Nodes() {
		if completed.Contains(node.GetID()) {
			continue
		}
		// true for a node without dependencies
		if completed.Contains(node.GetDependencies()...) {
			ready.Add(node.GetID())
		}
	}
	return ready
}

// Step is one visited node and the wave it became ready in.
type Step = pair.Pair[int, planner.NodeID]

// Drain repeatedly asks for the ready nodes, marks them completed and
// stops when nothing is ready. Nodes of one wave are visited in id order.
// visit may be nil.
func Drain(plan *planner.ExecutionPlan, visit func(wave int, node *planner.PlanNode)) []Step {
	completed := mapset.NewThreadUnsafeSet[planner.NodeID]()
	steps := make([]Step, 0, plan.Len())
	for wave := 0; ; wave++ {
		ready := ReadyNodes(plan, completed).ToSlice()
		if len(ready) == 0 {
			break
		}
		slices.Sort(ready)
		for _, id := range ready {
			if visit != nil {
				node, _ := plan.GetNode(id)
				visit(wave, node)
			}
			completed.Add(id)
			steps = append(steps, Step{First: wave, Second: id})
		}
	}
	if completed.Cardinality() != plan.Len() {
		common.ShPrintf(common.WARN, "Drain: %d of %d nodes never became ready\n", plan.Len()-completed.Cardinality(), plan.Len())
	}
	return steps
}

// Order is Drain without a visitor, returning node ids only.
func Order(plan *planner.ExecutionPlan) []planner.NodeID {
	steps := Drain(plan, nil)
	ret := make([]planner.NodeID, len(steps))
	for i, s := range steps {
		ret[i] = s.Second
	}
	return ret
}
