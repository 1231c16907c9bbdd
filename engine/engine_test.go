package engine

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/pingcap/errors"
	"github.com/ryogrid/QueryCore/execution/scheduler"
	"github.com/ryogrid/QueryCore/parser"
	"github.com/ryogrid/QueryCore/planner"
	"github.com/ryogrid/QueryCore/storage/columnar"
	"github.com/ryogrid/QueryCore/storage/foreign"
	testingpkg "github.com/ryogrid/QueryCore/testing/testing_assert"
	"github.com/ryogrid/QueryCore/testing/testing_util"
)

func TestCompileSQLCachesPlans(t *testing.T) {
	qc := NewQueryCore()
	defer qc.Shutdown()

	p1, err := qc.CompileSQL("SELECT a FROM t;")
	testingpkg.Ok(t, err)
	p2, err := qc.CompileSQL("SELECT a FROM t;")
	testingpkg.Ok(t, err)
	testingpkg.Assert(t, p1 == p2, "second compile must return the cached plan")
	testingpkg.Equals(t, 1, qc.NumCachedPlans())

	p3, err := qc.CompileSQL("SELECT b FROM t;")
	testingpkg.Ok(t, err)
	testingpkg.Assert(t, p1 != p3, "different text must not share a plan")
	testingpkg.Equals(t, 2, qc.NumCachedPlans())
}

func TestCompileSQLErrorsAreNotCached(t *testing.T) {
	qc := NewQueryCore()
	_, err := qc.CompileSQL("SELECT FROM t;")
	testingpkg.Nok(t, err)
	_, ok := errors.Cause(err).(*parser.SyntaxError)
	testingpkg.Assert(t, ok, "native dialect must report a syntax error")
	testingpkg.Equals(t, 0, qc.NumCachedPlans())
}

func TestPlanCacheEvictsOldest(t *testing.T) {
	qc := NewQueryCore(WithPlanCacheCapacity(2))
	first, _ := qc.CompileSQL("SELECT 1;")
	qc.CompileSQL("SELECT 2;")
	qc.CompileSQL("SELECT 3;")
	testingpkg.Equals(t, 2, qc.NumCachedPlans())

	again, err := qc.CompileSQL("SELECT 1;")
	testingpkg.Ok(t, err)
	testingpkg.Assert(t, first != again, "evicted plan must be rebuilt")
}

func TestZeroCapacityDisablesCache(t *testing.T) {
	qc := NewQueryCore(WithPlanCacheCapacity(0))
	qc.CompileSQL("SELECT 1;")
	testingpkg.Equals(t, 0, qc.NumCachedPlans())
}

func TestMySQLDialect(t *testing.T) {
	qc := NewQueryCore(WithDialect(MYSQL))
	testingpkg.Equals(t, MYSQL, qc.Dialect())

	plan, err := qc.CompileSQL("select a, 5 from t")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, plan.Len())
	root, _ := plan.GetNode(plan.Root())
	testingpkg.Equals(t, planner.PROJECT, root.GetOperation().GetType())

	_, err = qc.CompileSQL("select a from t where a = 1")
	testingpkg.Nok(t, err)
}

func TestDialectsDoNotShareCacheEntries(t *testing.T) {
	testingpkg.Assert(t, cacheKey(NATIVE, "SELECT 1;") != cacheKey(MYSQL, "SELECT 1;"), "key must depend on the dialect")
}

func TestParseDialect(t *testing.T) {
	d, err := ParseDialect("mysql")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, MYSQL, d)
	d, err = ParseDialect("")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, NATIVE, d)
	_, err = ParseDialect("postgres")
	testingpkg.Nok(t, err)
}

func TestScheduleSQL(t *testing.T) {
	qc := NewQueryCore()
	plan, steps, err := qc.ScheduleSQL("SELECT a FROM t;")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, plan.Len())
	testingpkg.Equals(t, []scheduler.Step{{First: 0, Second: 0}, {First: 1, Second: 1}}, steps)

	_, _, err = qc.ScheduleSQL("SELECT a FROM t")
	testingpkg.Nok(t, err)
}

func TestConcurrentCompile(t *testing.T) {
	qc := NewQueryCore(WithPlanCacheCapacity(4), WithDeadlockDetection())
	queries := []string{"SELECT a FROM t;", "SELECT b FROM t;", "SELECT *;", "SELECT 1, 2;", "SELECT \"x\" FROM \"f.csv\";"}

	var wg sync.WaitGroup
	errs := make(chan error, 8*len(queries))
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, q := range queries {
				if _, err := qc.CompileSQL(q); err != nil {
					errs <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		testingpkg.Ok(t, err)
	}
	testingpkg.Assert(t, qc.NumCachedPlans() <= 4, "cache must respect its capacity")
}

func TestLoadTableThroughDefaultProducer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "people.csv")
	testingpkg.Ok(t, os.WriteFile(path, []byte("id,name\n1,alice\n2,bob\n"), 0644))

	qc := NewQueryCore()
	defer qc.Shutdown()
	tv, err := qc.LoadTable(path)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, tv.NumColumns())
	testingpkg.Equals(t, 2, tv.NumRows())
	testingpkg.Equals(t, foreign.Int, tv.Columns()[0].DataType())
	testingpkg.Equals(t, foreign.String, tv.Columns()[1].DataType())

	_, err = qc.LoadTable(filepath.Join(t.TempDir(), "missing.csv"))
	testingpkg.Nok(t, err)
}

func TestLoadTableWithCustomBoundary(t *testing.T) {
	b := &testing_util.RecordingBoundary{Table: testing_util.Table(
		testing_util.Column("n", foreign.Int, testing_util.Chunk(testing_util.IntSubChunk([]int32{1, 2, 3}))),
	)}
	qc := NewQueryCore(WithBoundary(b), WithLoadOptions(columnar.WithStrictContract()))
	tv, err := qc.LoadTable("numbers.csv")
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 3, tv.NumRows())
	testingpkg.Equals(t, []string{"numbers.csv"}, b.Paths)
}
