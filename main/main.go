package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/devlights/gomy/output"
	"github.com/ryogrid/QueryCore/common"
	"github.com/ryogrid/QueryCore/engine"
	"github.com/ryogrid/QueryCore/execution/scheduler"
	"github.com/ryogrid/QueryCore/planner"
	"github.com/ryogrid/QueryCore/storage/columnar"
	"github.com/ryogrid/QueryCore/storage/foreign/native_csv"
	"github.com/spf13/cobra"
)

var (
	dialectName string
	strictLoad  bool
	chunkRows   int
	subRows     int
)

var rootCmd = &cobra.Command{
	Use:          "querycore",
	Short:        "QueryCore planner and CSV ingestion tool",
	SilenceUsage: true,
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Read one SELECT statement from stdin and print its parse tree, plan and execution order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, err := engine.ParseDialect(dialectName)
		if err != nil {
			return err
		}
		sql, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		r, err := makePlanReport(engine.NewQueryCore(engine.WithDialect(dialect)), string(sql))
		if err != nil {
			return err
		}
		output.Stdoutl("=== ast      ", r.ast)
		output.Stdoutl("=== plan     \n", r.plan)
		output.Stdoutl("=== order    \n", r.order)
		return nil
	},
}

var loadCmd = &cobra.Command{
	Use:   "load <csv>",
	Short: "Load a CSV file through the foreign boundary and print a column summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := []engine.Option{
			engine.WithBoundary(native_csv.NewParser(native_csv.WithChunkRows(chunkRows), native_csv.WithSubChunkRows(subRows))),
		}
		if strictLoad {
			opts = append(opts, engine.WithLoadOptions(columnar.WithStrictContract()))
		}
		qc := engine.NewQueryCore(opts...)
		defer qc.Shutdown()

		tv, err := qc.LoadTable(args[0])
		if err != nil {
			return err
		}
		output.Stdoutl("=== table    \n", summarizeTable(tv))
		return nil
	},
}

type planReport struct {
	ast   string
	plan  string
	order string
}

func makePlanReport(qc *engine.QueryCore, sql string) (*planReport, error) {
	q, err := qc.Parse(sql)
	if err != nil {
		return nil, err
	}
	plan, steps, err := qc.ScheduleSQL(sql)
	if err != nil {
		return nil, err
	}
	return &planReport{q.String(), plan.Explain(), formatSteps(plan, steps)}, nil
}

func formatSteps(plan *planner.ExecutionPlan, steps []scheduler.Step) string {
	var sb strings.Builder
	for _, s := range steps {
		node, _ := plan.GetNode(s.Second)
		fmt.Fprintf(&sb, "wave %d: %s\n", s.First, node)
	}
	return sb.String()
}

func summarizeTable(tv *columnar.TableView) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d columns, %d rows\n", tv.NumColumns(), tv.NumRows())
	for _, c := range tv.Columns() {
		fmt.Fprintf(&sb, "  %-16s %-10s chunks=%d items=%d\n", c.Name(), c.DataType(), c.Chunks().Len(), c.NumItems())
	}
	return sb.String()
}

func init() {
	planCmd.Flags().StringVar(&dialectName, "dialect", "native", "query dialect: native or mysql")
	loadCmd.Flags().BoolVar(&strictLoad, "strict", false, "validate the foreign descriptors before building views")
	loadCmd.Flags().IntVar(&chunkRows, "chunk-rows", common.CSVChunkRows, "rows per chunk")
	loadCmd.Flags().IntVar(&subRows, "sub-chunk-rows", common.CSVSubChunkRows, "rows per sub-chunk")
	rootCmd.AddCommand(planCmd, loadCmd)
}

func main() {
	if common.EnableDebug {
		defer func() {
			if r := recover(); r != nil {
				common.RuntimeStack()
				panic(r)
			}
		}()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
