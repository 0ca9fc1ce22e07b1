package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/sugawarayuuta/sonnet"
	"golang.org/x/term"

	floatcheck "github.com/shabbyrobe/go-floatcheck"
	"github.com/shabbyrobe/go-floatcheck/internal/casedb"
)

const usage = `Floating point test case generator

Usage: floatgen -op <name> [options]

Writes one case per line: the operands, the expected result and the
expected exception flags, as hex. Use -list to see every operation.
`

// Cases are generated in chunks of this size so progress can be reported
// and memory stays bounded.
const chunkSize = 1 << 16

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatal(err)
	}
}

type config struct {
	op        string
	level     int
	seed      string
	rounding  string
	tininess  string
	precision int
	exact     bool
	start     uint64
	n         uint64
	workers   int
	json      bool
	db        string
	dump      int64
	list      bool
}

func (c *config) flags(fs *flag.FlagSet) {
	fs.StringVar(&c.op, "op", "", "Operation name, e.g. f32_add (see -list)")
	fs.IntVar(&c.level, "level", 1, "Coverage level (1 or 2)")
	fs.StringVar(&c.seed, "seed", "", "Seed for the random cases (empty uses the default key)")
	fs.StringVar(&c.rounding, "rounding", "near_even", "Rounding mode: near_even, minMag, min, max, near_maxMag, odd")
	fs.StringVar(&c.tininess, "tininess", "before", "Tininess detection: before or after")
	fs.IntVar(&c.precision, "precision", 80, "extF80 rounding precision: 32, 64 or 80")
	fs.BoolVar(&c.exact, "exact", false, "Raise inexact in roundToInt and integer conversions")
	fs.Uint64Var(&c.start, "start", 0, "First case index")
	fs.Uint64Var(&c.n, "n", 0, "Number of cases (0 == all)")
	fs.IntVar(&c.workers, "workers", runtime.NumCPU(), "Number of goroutines generating cases")
	fs.BoolVar(&c.json, "json", false, "Write JSON lines instead of hex")
	fs.StringVar(&c.db, "db", "", "Also store the cases in this sqlite database")
	fs.Int64Var(&c.dump, "dump", -1, "Dump the decoded operands and result of one case index and exit")
	fs.BoolVar(&c.list, "list", false, "List operations and exit")
}

func (c *config) context() (fctx floatcheck.Context, err error) {
	if fctx.Rounding, err = floatcheck.ParseRoundingMode(c.rounding); err != nil {
		return fctx, err
	}
	if fctx.Tininess, err = floatcheck.ParseTininess(c.tininess); err != nil {
		return fctx, err
	}
	fctx.Precision = c.precision
	fctx.Exact = c.exact
	return fctx, fctx.Validate()
}

func (c *config) key() floatcheck.Key {
	if c.seed == "" {
		return floatcheck.DefaultKey
	}
	return floatcheck.KeyFromSeed(c.seed)
}

func run(args []string, stdout, stderr io.Writer) error {
	var cfg config
	fs := flag.NewFlagSet("floatgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	cfg.flags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.list {
		return listOperations(stdout)
	}
	if cfg.op == "" {
		fs.Usage()
		return fmt.Errorf("floatgen: missing -op")
	}

	op, err := floatcheck.LookupOperation(cfg.op)
	if err != nil {
		return err
	}
	fctx, err := cfg.context()
	if err != nil {
		return err
	}
	if cfg.level != 1 && cfg.level != 2 {
		return fmt.Errorf("floatgen: -level must be 1 or 2, found %d", cfg.level)
	}

	if cfg.dump >= 0 {
		return dumpCase(stdout, op, cfg.level, cfg.key(), fctx, uint64(cfg.dump))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var db *casedb.DB
	if cfg.db != "" {
		if db, err = casedb.Open(cfg.db); err != nil {
			return err
		}
		defer db.Close()
	}

	return generate(ctx, stdout, stderr, db, op, cfg, fctx)
}

func generate(ctx context.Context, stdout, stderr io.Writer, db *casedb.DB, op *floatcheck.Operation, cfg config, fctx floatcheck.Context) error {
	total := floatcheck.TotalCount(op.In, op.Arity, cfg.level)
	if cfg.start > total {
		return fmt.Errorf("floatgen: -start %d beyond the %d cases of %s", cfg.start, total, op)
	}
	end := total
	if cfg.n > 0 && cfg.start+cfg.n < total {
		end = cfg.start + cfg.n
	}

	progress := false
	if f, ok := stderr.(*os.File); ok {
		progress = term.IsTerminal(int(f.Fd()))
	}

	out := bufio.NewWriter(stdout)
	defer out.Flush()

	for at := cfg.start; at < end; {
		n := end - at
		if n > chunkSize {
			n = chunkSize
		}
		cases, err := floatcheck.Batch(ctx, floatcheck.BatchConfig{
			Op: op, Level: cfg.level, Key: cfg.key(), Context: fctx,
			Start: at, Count: n, Workers: cfg.workers,
		})
		if err != nil {
			return err
		}

		for _, c := range cases {
			if cfg.json {
				err = writeJSON(out, op, c)
			} else {
				err = writeHex(out, op, c)
			}
			if err != nil {
				return err
			}
		}
		if db != nil {
			if err := db.Insert(ctx, op, fctx, cases); err != nil {
				return err
			}
		}

		at += n
		if progress {
			fmt.Fprintf(stderr, "\r%s: %d/%d", op, at-cfg.start, end-cfg.start)
		}
	}
	if progress {
		fmt.Fprintln(stderr)
	}
	return out.Flush()
}

func writeHex(w io.Writer, op *floatcheck.Operation, c floatcheck.Case) error {
	var sb strings.Builder
	for _, o := range c.Operands {
		sb.WriteString(o.Hex(int(op.In.Width())))
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Result.Hex(int(op.ResultWidth())))
	fmt.Fprintf(&sb, " %02X\n", uint8(c.Flags))
	_, err := io.WriteString(w, sb.String())
	return err
}

type jsonCase struct {
	Op       string   `json:"op"`
	Index    uint64   `json:"index"`
	Operands []string `json:"operands"`
	Result   string   `json:"result"`
	Flags    string   `json:"flags"`
}

func writeJSON(w io.Writer, op *floatcheck.Operation, c floatcheck.Case) error {
	jc := jsonCase{
		Op:     op.Name,
		Index:  c.Index,
		Result: c.Result.Hex(int(op.ResultWidth())),
		Flags:  c.Flags.String(),
	}
	for _, o := range c.Operands {
		jc.Operands = append(jc.Operands, o.Hex(int(op.In.Width())))
	}
	bts, err := sonnet.Marshal(&jc)
	if err != nil {
		return err
	}
	bts = append(bts, '\n')
	_, err = w.Write(bts)
	return err
}

func listOperations(w io.Writer) error {
	tw := bufio.NewWriter(w)
	for _, op := range floatcheck.Operations() {
		var uses []string
		if op.RoundingArg {
			uses = append(uses, "rounding-arg")
		}
		if op.UsesRounding {
			uses = append(uses, "rounding")
		}
		if op.UsesTininess {
			uses = append(uses, "tininess")
		}
		if op.UsesPrecision {
			uses = append(uses, "precision")
		}
		fmt.Fprintf(tw, "%-24s %d %s\n", op.Name, op.Arity, strings.Join(uses, ","))
	}
	return tw.Flush()
}

func decode(f floatcheck.Format, v floatcheck.U128) interface{} {
	if f.IsFloat() {
		return floatcheck.FromBits(f, v)
	}
	return floatcheck.FromInt(f, v)
}

func dumpCase(w io.Writer, op *floatcheck.Operation, level int, key floatcheck.Key, fctx floatcheck.Context, index uint64) error {
	total := floatcheck.TotalCount(op.In, op.Arity, level)
	if index >= total {
		return fmt.Errorf("floatgen: case %d beyond the %d cases of %s", index, total, op)
	}
	operands := floatcheck.Generate(op.In, op.Arity, level, index, key)
	result, flags := floatcheck.Evaluate(op, operands, fctx)

	cs := spew.ConfigState{Indent: "  ", DisableMethods: true, DisablePointerAddresses: true}
	for i, o := range operands {
		fmt.Fprintf(w, "operand %d: %s\n", i, o.Hex(int(op.In.Width())))
		cs.Fdump(w, decode(op.In, o))
	}
	fmt.Fprintf(w, "result: %s flags: %s\n", result.Hex(int(op.ResultWidth())), flags)
	if !op.Kind.IsComparison() {
		cs.Fdump(w, decode(op.Out, result))
	}
	return nil
}
