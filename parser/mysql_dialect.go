package parser

import (
	"math"

	"github.com/pingcap/errors"
	"github.com/pingcap/parser"
	"github.com/pingcap/parser/ast"
	tidbtypes "github.com/pingcap/tidb/types"
	driver "github.com/pingcap/tidb/types/parser_driver"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/types"
)

// ParseMySQL parses a statement written in the MySQL dialect. Anything
// outside the engine's grammar, such as WHERE, joins or expressions in the
// select list, is rejected.
func ParseMySQL(sql string) (Query, error) {
	p := parser.New()
	stmtNodes, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, errors.Trace(err)
	}
	if len(stmtNodes) != 1 {
		return nil, errors.Errorf("expected exactly one statement, got %d", len(stmtNodes))
	}
	stmt, ok := stmtNodes[0].(*ast.SelectStmt)
	if !ok {
		return nil, errors.Errorf("unsupported statement: %s", stmtNodes[0].Text())
	}

	v := NewSelectQueryVisitor()
	stmt.Accept(v)
	if v.err != nil {
		common.ShPrintf(common.DEBUG_INFO, "ParseMySQL: %v\n", v.err)
		return nil, v.err
	}
	return v.query, nil
}

type SelectQueryVisitor struct {
	query *SelectQuery
	err   error
}

func NewSelectQueryVisitor() *SelectQueryVisitor {
	return &SelectQueryVisitor{query: &SelectQuery{SelectExprs: make([]SelectExpr, 0)}}
}

func (v *SelectQueryVisitor) Enter(in ast.Node) (ast.Node, bool) {
	if v.err != nil {
		return in, true
	}

	switch node := in.(type) {
	case *ast.SelectStmt:
		if node.Where != nil {
			v.err = errors.New("WHERE is not supported")
		} else if node.GroupBy != nil || node.Having != nil || node.OrderBy != nil || node.Limit != nil || node.Distinct {
			v.err = errors.New("only plain projections are supported")
		}
	case *ast.FieldList:
	case *ast.SelectField:
		v.addSelectField(node)
		return in, true
	case *ast.TableRefsClause:
	case *ast.Join:
		if node.Right != nil {
			v.err = errors.New("joins are not supported")
		}
	case *ast.TableSource:
		if node.AsName.O != "" {
			v.err = errors.Errorf("table alias %s is not supported", node.AsName.O)
		}
	case *ast.TableName:
		if node.Schema.O != "" {
			v.err = errors.Errorf("qualified table name %s.%s is not supported", node.Schema.O, node.Name.O)
			break
		}
		v.query.TableRef = &TableRef{TableRefIdentifier, node.Name.O}
	default:
		v.err = errors.Errorf("unsupported clause %T", in)
	}
	return in, v.err != nil
}

func (v *SelectQueryVisitor) addSelectField(field *ast.SelectField) {
	if field.AsName.O != "" {
		v.err = errors.Errorf("column alias %s is not supported", field.AsName.O)
		return
	}
	// when specifed wildcard
	if field.WildCard != nil {
		if field.WildCard.Table.O != "" {
			v.err = errors.Errorf("qualified wildcard %s.* is not supported", field.WildCard.Table.O)
			return
		}
		v.query.SelectExprs = append(v.query.SelectExprs, AllExpr{})
		return
	}

	switch expr := field.Expr.(type) {
	case *ast.ColumnNameExpr:
		if expr.Name.Table.O != "" {
			v.err = errors.Errorf("qualified column %s.%s is not supported", expr.Name.Table.O, expr.Name.Name.O)
			return
		}
		v.query.SelectExprs = append(v.query.SelectExprs, ColumnExpr{expr.Name.Name.O})
	case *driver.ValueExpr:
		val, err := ValueExprToValue(expr)
		if err != nil {
			v.err = err
			return
		}
		v.query.SelectExprs = append(v.query.SelectExprs, ImmediateExpr{*val})
	default:
		v.err = errors.Errorf("unsupported select expression %T", field.Expr)
	}
}

func (v *SelectQueryVisitor) Leave(in ast.Node) (ast.Node, bool) {
	return in, v.err == nil
}

// ValueExprToValue converts a literal into an Integer, Float or Varchar
// value without widening: integers must fit in 32 bits.
func ValueExprToValue(expr *driver.ValueExpr) (*types.Value, error) {
	var ret types.Value
	switch expr.Kind() {
	case tidbtypes.KindInt64:
		i := expr.GetInt64()
		if i < math.MinInt32 || i > math.MaxInt32 {
			return nil, errors.Errorf("integer literal %d does not fit in 32 bits", i)
		}
		ret = types.NewInteger(int32(i))
	case tidbtypes.KindUint64:
		u := expr.GetUint64()
		if u > math.MaxInt32 {
			return nil, errors.Errorf("integer literal %d does not fit in 32 bits", u)
		}
		ret = types.NewInteger(int32(u))
	case tidbtypes.KindFloat32:
		ret = types.NewFloat(expr.GetFloat32())
	case tidbtypes.KindFloat64:
		ret = types.NewFloat(float32(expr.GetFloat64()))
	case tidbtypes.KindMysqlDecimal:
		f, err := expr.GetMysqlDecimal().ToFloat64()
		if err != nil {
			return nil, errors.Trace(err)
		}
		ret = types.NewFloat(float32(f))
	case tidbtypes.KindString, tidbtypes.KindBytes:
		ret = types.NewVarchar(expr.GetString())
	default:
		return nil, errors.Errorf("unsupported literal kind %d", expr.Kind())
	}
	return &ret, nil
}
