package parser

import (
	"fmt"
	"strings"

	"github.com/ryogrid/QueryCore/types"
)

type QueryType int32

const (
	SELECT_QUERY QueryType = iota
)

// Query is a parsed statement. SelectQuery is the only kind.
type Query interface {
	QueryType() QueryType
	String() string
}

type SelectQuery struct {
	SelectExprs []SelectExpr
	// nil when the query has no FROM clause
	TableRef *TableRef
}

func (q *SelectQuery) QueryType() QueryType {
	return SELECT_QUERY
}

func (q *SelectQuery) String() string {
	exprs := make([]string, len(q.SelectExprs))
	for i, e := range q.SelectExprs {
		exprs[i] = e.String()
	}
	tableRef := "None"
	if q.TableRef != nil {
		tableRef = q.TableRef.String()
	}
	return fmt.Sprintf("Select(SelectQuery{SelectExprs: [%s], TableRef: %s})", strings.Join(exprs, ", "), tableRef)
}

// SelectExpr is one entry of a select list: AllExpr, ImmediateExpr or
// ColumnExpr.
type SelectExpr interface {
	isSelectExpr()
	String() string
}

// AllExpr is *
type AllExpr struct{}

// ImmediateExpr is a literal. Its value is an Integer, Float or Varchar.
type ImmediateExpr struct {
	Value types.Value
}

// ColumnExpr is a bare identifier.
type ColumnExpr struct {
	Name string
}

func (AllExpr) isSelectExpr()       {}
func (ImmediateExpr) isSelectExpr() {}
func (ColumnExpr) isSelectExpr()    {}

func (AllExpr) String() string         { return "All" }
func (e ImmediateExpr) String() string { return "Immediate(" + e.Value.String() + ")" }
func (e ColumnExpr) String() string    { return fmt.Sprintf("Column(%q)", e.Name) }

type TableRefKind int32

const (
	TableRefString TableRefKind = iota
	TableRefIdentifier
)

// TableRef is the operand of FROM, kept as written.
type TableRef struct {
	Kind TableRefKind
	Name string
}

func (r TableRef) String() string {
	if r.Kind == TableRefString {
		return fmt.Sprintf("String(%q)", r.Name)
	}
	return fmt.Sprintf("Identifier(%q)", r.Name)
}
