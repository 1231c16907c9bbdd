// Package engine ties the parser, planner, scheduler and ingestion layer
// together behind one object which can be shared between goroutines.
package engine

import (
	"github.com/pingcap/errors"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/execution/scheduler"
	"github.com/ryogrid/QueryCore/parser"
	"github.com/ryogrid/QueryCore/planner"
	"github.com/ryogrid/QueryCore/storage/columnar"
	"github.com/ryogrid/QueryCore/storage/foreign"
	"github.com/ryogrid/QueryCore/storage/foreign/native_csv"
	"github.com/spaolacci/murmur3"
)

type Dialect int32

const (
	NATIVE Dialect = iota
	MYSQL
)

func ParseDialect(s string) (Dialect, error) {
	switch s {
	case "native", "":
		return NATIVE, nil
	case "mysql":
		return MYSQL, nil
	}
	return NATIVE, errors.Errorf("unknown dialect %q", s)
}

type QueryCore struct {
	dialect  Dialect
	planner  planner.Planner
	boundary foreign.Boundary
	loadOpts []columnar.LoadOption
	cache    *planCache

	cacheCapacity int
	newLatch      func() common.ReaderWriterLatch
}

type Option func(*QueryCore)

func WithDialect(d Dialect) Option {
	return func(qc *QueryCore) { qc.dialect = d }
}

// WithBoundary sets the producer tables are loaded through. The default
// is a native_csv.Parser.
func WithBoundary(b foreign.Boundary) Option {
	return func(qc *QueryCore) { qc.boundary = b }
}

func WithPlanCacheCapacity(n int) Option {
	return func(qc *QueryCore) { qc.cacheCapacity = n }
}

// WithDeadlockDetection makes the plan cache and the default producer use
// go-deadlock latches regardless of common.EnableDebug.
func WithDeadlockDetection() Option {
	return func(qc *QueryCore) { qc.newLatch = common.NewRWLatchDeadlockDetect }
}

func WithLoadOptions(opts ...columnar.LoadOption) Option {
	return func(qc *QueryCore) { qc.loadOpts = append(qc.loadOpts, opts...) }
}

func NewQueryCore(opts ...Option) *QueryCore {
	qc := &QueryCore{
		dialect:       NATIVE,
		planner:       planner.NewSimplePlanner(),
		cacheCapacity: common.PlanCacheCapacity,
		newLatch:      common.NewRWLatch,
	}
	for _, opt := range opts {
		opt(qc)
	}
	qc.cache = newPlanCache(qc.cacheCapacity, qc.newLatch())
	if qc.boundary == nil {
		qc.boundary = native_csv.NewParser(native_csv.WithLatch(qc.newLatch()))
	}
	return qc
}

func (qc *QueryCore) Dialect() Dialect {
	return qc.dialect
}

func (qc *QueryCore) Parse(sql string) (parser.Query, error) {
	if qc.dialect == MYSQL {
		return parser.ParseMySQL(sql)
	}
	return parser.ParseQuery(sql)
}

// CompileSQL parses and plans sql. Plans are cached by query text and
// shared between callers, which is safe because plans are never modified
// after they are built.
func (qc *QueryCore) CompileSQL(sql string) (*planner.ExecutionPlan, error) {
	key := cacheKey(qc.dialect, sql)
	if plan, ok := qc.cache.get(key, sql); ok {
		common.ShPrintf(common.DEBUG_INFO, "CompileSQL: cache hit for %q\n", sql)
		return plan, nil
	}

	q, err := qc.Parse(sql)
	if err != nil {
		return nil, err
	}
	plan := qc.planner.MakePlan(q)
	qc.cache.put(key, sql, plan)
	return plan, nil
}

// ScheduleSQL compiles sql and returns its nodes in an order which
// respects every dependency.
func (qc *QueryCore) ScheduleSQL(sql string) (*planner.ExecutionPlan, []scheduler.Step, error) {
	plan, err := qc.CompileSQL(sql)
	if err != nil {
		return nil, nil, err
	}
	return plan, scheduler.Drain(plan, nil), nil
}

// LoadTable loads the file at path through the engine's boundary.
func (qc *QueryCore) LoadTable(path string) (*columnar.TableView, error) {
	return columnar.Load(qc.boundary, path, qc.loadOpts...)
}

func (qc *QueryCore) NumCachedPlans() int {
	return qc.cache.len()
}

// Shutdown drops cached plans and releases the tables of the default
// producer. Views returned by LoadTable must not be used afterwards.
func (qc *QueryCore) Shutdown() {
	qc.cache.clear()
	if p, ok := qc.boundary.(*native_csv.Parser); ok {
		p.Close()
	}
}

func cacheKey(d Dialect, sql string) uint64 {
	return murmur3.Sum64WithSeed([]byte(sql), uint32(d))
}
