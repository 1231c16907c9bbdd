package planner

import (
	"fmt"
	"strings"

	"github.com/golang-collections/collections/stack"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/parser"
	"github.com/ryogrid/QueryCore/types"
	"golang.org/x/exp/slices"
)

type NodeID int

type OperationType int32

const (
	SCAN OperationType = iota
	FILTER
	PROJECT
)

func (t OperationType) String() string {
	switch t {
	case SCAN:
		return "Scan"
	case FILTER:
		return "Filter"
	case PROJECT:
		return "Project"
	}
	return "Unknown"
}

// Operation is what a plan node does: ScanOp, FilterOp or ProjectOp.
type Operation interface {
	GetType() OperationType
	String() string
}

// ScanOp reads the table named by a FROM clause. The reference is kept as
// written; resolving it to a table is left to whoever executes the plan.
type ScanOp struct {
	TableRef parser.TableRef
}

// FilterOp is reserved for WHERE clauses. No plan contains one yet.
type FilterOp struct {
	Predicate Expr
}

type ProjectOp struct {
	Columns []ProjectionColumn
}

func (ScanOp) GetType() OperationType    { return SCAN }
func (FilterOp) GetType() OperationType  { return FILTER }
func (ProjectOp) GetType() OperationType { return PROJECT }

func (op ScanOp) String() string   { return "Scan(" + op.TableRef.String() + ")" }
func (op FilterOp) String() string { return "Filter(" + op.Predicate.String() + ")" }

func (op ProjectOp) String() string {
	cols := make([]string, len(op.Columns))
	for i, c := range op.Columns {
		cols[i] = c.String()
	}
	return "Project([" + strings.Join(cols, ", ") + "])"
}

// Expr is an expression evaluated by an operation. Only literal values
// exist for now.
type Expr interface {
	String() string
	isExpr()
}

type ValueExpr struct {
	Value types.Value
}

func (ValueExpr) isExpr() {}

func (e ValueExpr) String() string { return "Value(" + e.Value.String() + ")" }

type ProjectionKind int32

const (
	PROJECT_ALL ProjectionKind = iota
	PROJECT_EXPR
	PROJECT_COLUMN
)

// ProjectionColumn is one output of a projection: every input column,
// an expression, or the input column with the given name.
type ProjectionColumn struct {
	Kind ProjectionKind
	Expr Expr
	Name string
}

func (c ProjectionColumn) String() string {
	switch c.Kind {
	case PROJECT_ALL:
		return "All"
	case PROJECT_EXPR:
		return "Expr(" + c.Expr.String() + ")"
	}
	return fmt.Sprintf("Column(%q)", c.Name)
}

type PlanNode struct {
	id           NodeID
	operation    Operation
	dependencies []NodeID
}

func (n *PlanNode) GetID() NodeID {
	return n.id
}

func (n *PlanNode) GetOperation() Operation {
	return n.operation
}

// GetDependencies returns the ids of the nodes whose output this node reads.
func (n *PlanNode) GetDependencies() []NodeID {
	return n.dependencies
}

func (n *PlanNode) String() string {
	return fmt.Sprintf("%d: %s deps=%v", n.id, n.operation, n.dependencies)
}

// ExecutionPlan is a DAG of plan nodes stored densely by id. Ids are handed
// out from 0 in insertion order and a node may only depend on nodes
// inserted before it, so the graph can not have cycles.
type ExecutionPlan struct {
	nodes []*PlanNode
	root  NodeID
}

func NewExecutionPlan() *ExecutionPlan {
	return &ExecutionPlan{nodes: make([]*PlanNode, 0)}
}

func (p *ExecutionPlan) AddNode(op Operation, dependencies []NodeID) NodeID {
	id := NodeID(len(p.nodes))
	for _, dep := range dependencies {
		common.SH_Assert(dep >= 0 && dep < id, fmt.Sprintf("node %d can not depend on node %d", id, dep))
	}
	p.nodes = append(p.nodes, &PlanNode{id, op, slices.Clone(dependencies)})
	return id
}

func (p *ExecutionPlan) SetRoot(id NodeID) {
	common.SH_Assert(p.hasNode(id), fmt.Sprintf("root %d is not a node of the plan", id))
	p.root = id
}

func (p *ExecutionPlan) Root() NodeID {
	return p.root
}

func (p *ExecutionPlan) GetNode(id NodeID) (*PlanNode, bool) {
	if !p.hasNode(id) {
		return nil, false
	}
	return p.nodes[id], true
}

// Nodes returns the nodes in id order.
func (p *ExecutionPlan) Nodes() []*PlanNode {
	return p.nodes
}

func (p *ExecutionPlan) Len() int {
	return len(p.nodes)
}

// MaxNodeID returns the largest id, or false for an empty plan.
func (p *ExecutionPlan) MaxNodeID() (NodeID, bool) {
	if len(p.nodes) == 0 {
		return 0, false
	}
	return NodeID(len(p.nodes) - 1), true
}

func (p *ExecutionPlan) hasNode(id NodeID) bool {
	return id >= 0 && int(id) < len(p.nodes)
}

// Explain renders the plan as a tree hanging from the root.
func (p *ExecutionPlan) Explain() string {
	if len(p.nodes) == 0 {
		return "(empty plan)\n"
	}
	type frame struct {
		id    NodeID
		depth int
	}
	var sb strings.Builder
	st := stack.New()
	st.Push(frame{p.root, 0})
	for st.Len() > 0 {
		f := st.Pop().(frame)
		node := p.nodes[f.id]
		sb.WriteString(strings.Repeat("  ", f.depth))
		sb.WriteString(fmt.Sprintf("#%d %s\n", node.id, node.operation))
		// pushed in reverse so the first dependency is printed first
		for i := len(node.dependencies) - 1; i >= 0; i-- {
			st.Push(frame{node.dependencies[i], f.depth + 1})
		}
	}
	return sb.String()
}

func (p *ExecutionPlan) String() string {
	nodes := make([]string, len(p.nodes))
	for i, n := range p.nodes {
		nodes[i] = n.String()
	}
	return fmt.Sprintf("ExecutionPlan{root: %d, nodes: [%s]}", p.root, strings.Join(nodes, "; "))
}
