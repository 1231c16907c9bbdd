// Package planner compiles a parsed query into an ExecutionPlan.
package planner

import (
	"fmt"

	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/parser"
)

type Planner interface {
	MakePlan(parser.Query) *ExecutionPlan
}

type SimplePlanner struct{}

func NewSimplePlanner() *SimplePlanner {
	return &SimplePlanner{}
}

func (pner *SimplePlanner) MakePlan(q parser.Query) *ExecutionPlan {
	switch query := q.(type) {
	case *parser.SelectQuery:
		return pner.MakeSelectPlan(query)
	default:
		panic(fmt.Sprintf("unknown query type %T", q))
	}
}

// MakeSelectPlan inserts a Scan when the query reads a table and a Project
// over it. The Project is the root. Translation is total: every well formed
// query has a plan.
func (pner *SimplePlanner) MakeSelectPlan(q *parser.SelectQuery) *ExecutionPlan {
	plan := NewExecutionPlan()
	projectOp := makeProjectOp(q.SelectExprs)

	if q.TableRef != nil {
		scanID := plan.AddNode(ScanOp{*q.TableRef}, nil)
		plan.SetRoot(plan.AddNode(projectOp, []NodeID{scanID}))
	} else {
		// without FROM the projection stands alone
		plan.SetRoot(plan.AddNode(projectOp, nil))
	}

	common.ShPrintf(common.DEBUG_INFO, "MakeSelectPlan: %s\n", plan)
	return plan
}

func makeProjectOp(exprs []parser.SelectExpr) ProjectOp {
	cols := make([]ProjectionColumn, len(exprs))
	for i, e := range exprs {
		switch expr := e.(type) {
		case parser.AllExpr:
			cols[i] = ProjectionColumn{Kind: PROJECT_ALL}
		case parser.ImmediateExpr:
			cols[i] = ProjectionColumn{Kind: PROJECT_EXPR, Expr: ValueExpr{expr.Value}}
		case parser.ColumnExpr:
			cols[i] = ProjectionColumn{Kind: PROJECT_COLUMN, Name: expr.Name}
		default:
			panic(fmt.Sprintf("unknown select expression %T", e))
		}
	}
	return ProjectOp{cols}
}

// Compile plans q with a SimplePlanner.
func Compile(q parser.Query) *ExecutionPlan {
	return NewSimplePlanner().MakePlan(q)
}
