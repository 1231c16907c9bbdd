package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ryogrid/QueryCore/engine"
	"github.com/ryogrid/QueryCore/storage/foreign/native_csv"
	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
)

func TestPlanReport(t *testing.T) {
	r, err := makePlanReport(engine.NewQueryCore(), "SELECT a FROM t;")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, `Select(SelectQuery{SelectExprs: [Column("a")], TableRef: Identifier("t")})`, r.ast)
	testingpkg.Equals(t, "#1 Project([Column(\"a\")])\n  #0 Scan(Identifier(\"t\"))\n", r.plan)
	testingpkg.Equals(t, "wave 0: 0: Scan(Identifier(\"t\")) deps=[]\nwave 1: 1: Project([Column(\"a\")]) deps=[0]\n", r.order)
}

func TestPlanReportRejectsBadQuery(t *testing.T) {
	_, err := makePlanReport(engine.NewQueryCore(), "SELECT a FROM t")
	testingpkg.Nok(t, err)
}

func TestSummarizeTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.csv")
	testingpkg.Ok(t, os.WriteFile(path, []byte("name,score\nann,1.5\nbo,2\n"), 0644))

	qc := engine.NewQueryCore(engine.WithBoundary(native_csv.NewParser()))
	defer qc.Shutdown()
	tv, err := qc.LoadTable(path)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t,
		"2 columns, 2 rows\n"+
			"  name             Utf8String chunks=1 items=2\n"+
			"  score            Float32    chunks=1 items=2\n",
		summarizeTable(tv))
}
