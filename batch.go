package floatcheck

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Case is one generated test case with its expected outcome.
type Case struct {
	Index    uint64
	Operands []U128
	Result   U128
	Flags    Flags
}

// BatchConfig selects the cases produced by Batch.
type BatchConfig struct {
	Op      *Operation
	Level   int
	Key     Key
	Context Context

	Start uint64
	Count uint64 // Zero means every case from Start to the end

	Workers int // Zero means 1
}

// Batch generates and evaluates a range of cases, spread over cfg.Workers
// goroutines. The result is in index order and does not depend on the number
// of workers.
func Batch(ctx context.Context, cfg BatchConfig) ([]Case, error) {
	if err := cfg.Context.Validate(); err != nil {
		return nil, err
	}
	if cfg.Level != 1 && cfg.Level != 2 {
		return nil, fmt.Errorf("floatcheck: invalid level %d", cfg.Level)
	}
	gen := NewGenerator(cfg.Op, cfg.Level, cfg.Key)
	total := gen.Total()
	if cfg.Start > total {
		return nil, fmt.Errorf("floatcheck: start %d beyond %d cases of %s", cfg.Start, total, cfg.Op)
	}

	n := total - cfg.Start
	if cfg.Count > 0 && cfg.Count < n {
		n = cfg.Count
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	out := make([]Case, n)
	grp, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		grp.Go(func() error {
			for i := uint64(w); i < n; i += uint64(workers) {
				if i%1024 == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				idx := cfg.Start + i
				operands := gen.Generate(idx)
				result, flags := Evaluate(cfg.Op, operands, cfg.Context)
				out[i] = Case{Index: idx, Operands: operands, Result: result, Flags: flags}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
