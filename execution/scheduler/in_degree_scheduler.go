package scheduler

import (
	"github.com/golang-collections/collections/queue"
	"github.com/ryogrid/QueryCore/planner"
)

// InDegreeScheduler keeps a count of unfinished dependencies per node, so
// finishing a node costs only the number of its dependents instead of a
// rescan of the plan.
type InDegreeScheduler struct {
	plan       *planner.ExecutionPlan
	inDegree   []int
	dependents [][]planner.NodeID
	ready      *queue.Queue
	completed  int
}

func NewInDegreeScheduler(plan *planner.ExecutionPlan) *InDegreeScheduler {
	s := &InDegreeScheduler{
		plan:       plan,
		inDegree:   make([]int, plan.Len()),
		dependents: make([][]planner.NodeID, plan.Len()),
		ready:      queue.New(),
	}
	for _, node := range plan.Nodes() {
		s.inDegree[node.GetID()] = len(node.GetDependencies())
		for _, dep := range node.GetDependencies() {
			s.dependents[dep] = append(s.dependents[dep], node.GetID())
		}
	}
	for _, node := range plan.Nodes() {
		if s.inDegree[node.GetID()] == 0 {
			s.ready.Enqueue(node.GetID())
		}
	}
	return s
}

// Next returns a node whose dependencies have all completed, or false when
// no node is ready.
func (s *InDegreeScheduler) Next() (planner.NodeID, bool) {
	if s.ready.Len() == 0 {
		return 0, false
	}
	return s.ready.Dequeue().(planner.NodeID), true
}

// Complete marks id as finished and enqueues the dependents it unblocks.
// id must have been returned by Next and not completed before.
func (s *InDegreeScheduler) Complete(id planner.NodeID) {
	s.completed++
	for _, dependent := range s.dependents[id] {
		s.inDegree[dependent]--
		if s.inDegree[dependent] == 0 {
			s.ready.Enqueue(dependent)
		}
	}
}

func (s *InDegreeScheduler) Done() bool {
	return s.completed == s.plan.Len()
}

// Run completes nodes as they become ready and returns them in the
// order they were completed.
func (s *InDegreeScheduler) Run() []planner.NodeID {
	ret := make([]planner.NodeID, 0, s.plan.Len())
	for {
		id, ok := s.Next()
		if !ok {
			return ret
		}
		s.Complete(id)
		ret = append(ret, id)
	}
}
