package planner

import (
	"testing"

	"github.com/ryogrid/QueryCore/parser"
	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
	"github.com/ryogrid/QueryCore/types"
)

func compileSQL(t *testing.T, sql string) *ExecutionPlan {
	q, err := parser.ParseQuery(sql)
	testingpkg.Ok(t, err)
	return Compile(q)
}

func TestCompileSelectWithoutFrom(t *testing.T) {
	plan := compileSQL(t, "SELECT 5;")
	testingpkg.Equals(t, 1, plan.Len())

	root, ok := plan.GetNode(plan.Root())
	testingpkg.Assert(t, ok, "root must exist")
	testingpkg.Equals(t, NodeID(0), root.GetID())
	testingpkg.Equals(t, 0, len(root.GetDependencies()))
	project, ok := root.GetOperation().(ProjectOp)
	testingpkg.Assert(t, ok, "root must be a Project, got %v", root.GetOperation())
	testingpkg.Equals(t, []ProjectionColumn{{Kind: PROJECT_EXPR, Expr: ValueExpr{types.NewInteger(5)}}}, project.Columns)
}

func TestCompileSelectAllFromTable(t *testing.T) {
	plan := compileSQL(t, "SELECT * FROM users;")
	testingpkg.Equals(t, 2, plan.Len())

	scan, _ := plan.GetNode(0)
	testingpkg.Equals(t, SCAN, scan.GetOperation().GetType())
	testingpkg.Equals(t, ScanOp{parser.TableRef{Kind: parser.TableRefIdentifier, Name: "users"}}, scan.GetOperation())
	testingpkg.Equals(t, 0, len(scan.GetDependencies()))

	project, _ := plan.GetNode(1)
	testingpkg.Equals(t, ProjectOp{[]ProjectionColumn{{Kind: PROJECT_ALL}}}, project.GetOperation())
	testingpkg.Equals(t, []NodeID{scan.GetID()}, project.GetDependencies())
	testingpkg.Equals(t, project.GetID(), plan.Root())
}

func TestCompileColumnIsNotLiteral(t *testing.T) {
	plan := compileSQL(t, "SELECT column FROM users;")
	root, _ := plan.GetNode(plan.Root())
	project := root.GetOperation().(ProjectOp)
	testingpkg.Equals(t, 1, len(project.Columns))
	testingpkg.Equals(t, ProjectionColumn{Kind: PROJECT_COLUMN, Name: "column"}, project.Columns[0])

	plan = compileSQL(t, `SELECT "column";`)
	root, _ = plan.GetNode(plan.Root())
	project = root.GetOperation().(ProjectOp)
	testingpkg.Equals(t, PROJECT_EXPR, project.Columns[0].Kind)
}

func TestCompileKeepsProjectionOrderAndStringTable(t *testing.T) {
	plan := compileSQL(t, `SELECT name, *, 1.5, "x" FROM "data.csv";`)
	scan, _ := plan.GetNode(0)
	testingpkg.Equals(t, ScanOp{parser.TableRef{Kind: parser.TableRefString, Name: "data.csv"}}, scan.GetOperation())

	root, _ := plan.GetNode(plan.Root())
	testingpkg.Equals(t, `Project([Column("name"), All, Expr(Value(Float(1.5))), Expr(Value(Varchar("x")))])`, root.GetOperation().String())
}

func TestCompileIsDeterministic(t *testing.T) {
	a := compileSQL(t, "SELECT a, b FROM t;")
	b := compileSQL(t, "SELECT a, b FROM t;")
	testingpkg.Equals(t, a.String(), b.String())
	testingpkg.Equals(t, a, b)
}

func TestAddNodeAssignsDenseIDs(t *testing.T) {
	plan := NewExecutionPlan()
	_, ok := plan.MaxNodeID()
	testingpkg.AssertFalse(t, ok, "empty plan has no max id")

	a := plan.AddNode(ScanOp{parser.TableRef{Kind: parser.TableRefIdentifier, Name: "a"}}, nil)
	b := plan.AddNode(ScanOp{parser.TableRef{Kind: parser.TableRefIdentifier, Name: "b"}}, nil)
	c := plan.AddNode(ProjectOp{[]ProjectionColumn{{Kind: PROJECT_ALL}}}, []NodeID{a, b})
	testingpkg.Equals(t, []NodeID{0, 1, 2}, []NodeID{a, b, c})
	maxID, ok := plan.MaxNodeID()
	testingpkg.Assert(t, ok, "max id must exist")
	testingpkg.Equals(t, c, maxID)

	_, ok = plan.GetNode(3)
	testingpkg.AssertFalse(t, ok, "node 3 does not exist")
	_, ok = plan.GetNode(-1)
	testingpkg.AssertFalse(t, ok, "node -1 does not exist")
}

func TestAddNodeRejectsForwardDependency(t *testing.T) {
	plan := NewExecutionPlan()
	defer func() {
		testingpkg.Assert(t, recover() != nil, "dependency on a missing node must panic")
	}()
	plan.AddNode(ProjectOp{}, []NodeID{0})
}

func TestDependenciesAreCopied(t *testing.T) {
	plan := NewExecutionPlan()
	scan := plan.AddNode(ScanOp{parser.TableRef{Kind: parser.TableRefIdentifier, Name: "t"}}, nil)
	deps := []NodeID{scan}
	id := plan.AddNode(ProjectOp{}, deps)
	deps[0] = 42
	node, _ := plan.GetNode(id)
	testingpkg.Equals(t, []NodeID{scan}, node.GetDependencies())
}

func TestExplain(t *testing.T) {
	plan := compileSQL(t, "SELECT a FROM t;")
	testingpkg.Equals(t, "#1 Project([Column(\"a\")])\n  #0 Scan(Identifier(\"t\"))\n", plan.Explain())
	testingpkg.Equals(t, "(empty plan)\n", NewExecutionPlan().Explain())
}

func TestFilterOpIsRepresentable(t *testing.T) {
	op := FilterOp{ValueExpr{types.NewBoolean(true)}}
	testingpkg.Equals(t, FILTER, op.GetType())
	testingpkg.Equals(t, "Filter(Value(Boolean(true)))", op.String())
}
