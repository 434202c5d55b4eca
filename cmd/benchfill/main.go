// Command benchfill measures grouped fill throughput on a synthetic
// stratified frame.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	pprof "github.com/pkg/profile"

	j "github.com/wdm0006/stratafill/pkg/frame"
	"github.com/wdm0006/stratafill/pkg/group"
	imp "github.com/wdm0006/stratafill/pkg/transform/impute"
)

type genOptions struct {
	rows, groups, floatCols, stringCols int
	missing                             float64
	seed                                int64
}

func (o genOptions) validate() error {
	if o.groups < 1 || o.rows < o.groups {
		return fmt.Errorf("need 1 <= groups <= rows, got groups=%d rows=%d", o.groups, o.rows)
	}
	return nil
}

// generate builds a frame with a "group" key column and float columns that
// each miss a value with probability missing. The first row of every group
// is always complete so each group has an observed value per column.
func generate(o genOptions) *j.Frame {
	cols := []j.ColumnSchema{{Name: "group", Type: j.KindString}}
	for i := 0; i < o.floatCols; i++ {
		cols = append(cols, j.ColumnSchema{Name: fmt.Sprintf("f%d", i), Type: j.KindFloat, Nullable: true})
	}
	for i := 0; i < o.stringCols; i++ {
		cols = append(cols, j.ColumnSchema{Name: fmt.Sprintf("s%d", i), Type: j.KindString, Nullable: true})
	}
	schema := j.Schema{Columns: cols}
	rnd := rand.New(rand.NewSource(o.seed))
	f := j.NewFrame(schema)
	for r := 0; r < o.rows; r++ {
		f.AppendNullRow()
		g := r % o.groups
		first := r < o.groups
		_ = f.SetCell(r, "group", fmt.Sprintf("g%03d", g))
		for _, cs := range cols[1:] {
			if !first && rnd.Float64() < o.missing {
				continue
			}
			switch cs.Type {
			case j.KindFloat:
				_ = f.SetCell(r, cs.Name, float64(g)*10+rnd.Float64())
			case j.KindString:
				_ = f.SetCell(r, cs.Name, "Alpha")
			}
		}
	}
	return f
}

func main() {
	var (
		rows     = flag.Int("rows", 1_000_000, "total rows to generate")
		groups   = flag.Int("groups", 16, "number of distinct key values")
		fcols    = flag.Int("float-cols", 4, "number of float columns")
		scols    = flag.Int("string-cols", 2, "number of string columns")
		missp    = flag.Float64("missing", 0.05, "probability of a missing float or string cell")
		strategy = flag.String("strategy", "median", "mean or median")
		prof     = flag.String("profile", "", "cpu or mem profile written to the working directory")
		jsonOut  = flag.Bool("json", false, "emit JSON summary")
		seed     = flag.Int64("seed", 42, "random seed")
	)
	flag.Parse()

	s, err := imp.ParseStrategy(*strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	opts := genOptions{rows: *rows, groups: *groups, floatCols: *fcols, stringCols: *scols, missing: *missp, seed: *seed}
	if err := opts.validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	src := generate(opts)

	switch *prof {
	case "":
	case "cpu":
		defer pprof.Start(pprof.CPUProfile, pprof.ProfilePath("."), pprof.Quiet).Stop()
	case "mem":
		defer pprof.Start(pprof.MemProfile, pprof.ProfilePath("."), pprof.Quiet).Stop()
	default:
		fmt.Fprintf(os.Stderr, "unknown profile %q\n", *prof)
		os.Exit(2)
	}

	runtime.GC()
	var msBefore, msAfter runtime.MemStats
	runtime.ReadMemStats(&msBefore)
	start := time.Now()
	out, err := group.Fill(context.Background(), src, "group", s)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&msAfter)

	rowsPerSec := float64(out.Rows()) / elapsed.Seconds()
	summary := map[string]any{
		"rows":                  out.Rows(),
		"groups":                *groups,
		"strategy":              s.String(),
		"elapsed_ms":            elapsed.Milliseconds(),
		"rows_per_sec":          rowsPerSec,
		"mem_alloc_bytes":       msAfter.Alloc,
		"mem_total_alloc_bytes": msAfter.TotalAlloc - msBefore.TotalAlloc,
		"gc_num":                msAfter.NumGC - msBefore.NumGC,
		"cols":                  map[string]int{"float": *fcols, "string": *scols},
		"missing_prob":          *missp,
	}

	if *jsonOut {
		b, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(b))
		return
	}
	fmt.Printf("Rows: %d in %d groups (%s)\n", out.Rows(), *groups, s)
	fmt.Printf("Elapsed: %s\n", elapsed)
	fmt.Printf("Throughput: %.0f rows/s\n", rowsPerSec)
	fmt.Printf("Current Alloc: %d MB\n", msAfter.Alloc/1024/1024)
	fmt.Printf("Total Alloc (delta): %d MB\n", (msAfter.TotalAlloc-msBefore.TotalAlloc)/1024/1024)
	fmt.Printf("GC cycles (delta): %d\n", msAfter.NumGC-msBefore.NumGC)
}
