package ir

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"tinyjit/internal/ast"
)

// Config governs the fixed compilation pipeline: Build, PrunePhis,
// FindReachableBlocks, DeriveDominators, FindEffects always run; GVN, DCE,
// and GCM are skipped for functions whose instruction count exceeds
// MaxOptimizableSize, mirroring the policy bypass candor's JIT applies to
// pathologically large functions rather than spend compile time optimizing
// code that will run once.
type Config struct {
	MaxOptimizableSize int
	Logging            bool
	Out                io.Writer
}

// DefaultMaxOptimizableSize matches candor's kMaxOptimizableSize.
const DefaultMaxOptimizableSize = 25000

// DefaultConfig returns the pipeline's default policy.
func DefaultConfig() Config {
	return Config{MaxOptimizableSize: DefaultMaxOptimizableSize}
}

// Run drives the program through the fixed pipeline stage order and returns
// the resulting Program, ready for Print.
func Run(prog *ast.Program, cfg Config) *Program {
	p := Build(prog)
	for _, fn := range p.Functions {
		runStages(fn, cfg)
	}
	return p
}

func runStages(fn *Function, cfg Config) {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	log := func(stage string) {
		if !cfg.Logging {
			return
		}
		fmt.Fprintln(out, color.New(color.FgCyan, color.Bold).Sprintf("== %s: %s ==", fn.Name, stage))
		fmt.Fprintln(out, Print(fn))
	}

	PrunePhis(fn)
	log("PrunePhis")

	FindReachableBlocks(fn)
	log("FindReachableBlocks")

	DeriveDominators(fn)
	log("DeriveDominators")

	FindEffects(fn)
	log("FindEffects")

	limit := cfg.MaxOptimizableSize
	if limit <= 0 {
		limit = DefaultMaxOptimizableSize
	}
	if fn.InstrCount() > limit {
		if cfg.Logging {
			fmt.Fprintln(out, color.YellowString("skipping GVN/DCE/GCM for %s: %d instructions exceeds limit %d", fn.Name, fn.InstrCount(), limit))
		}
		return
	}

	GVN(fn)
	log("GVN")

	DCE(fn)
	log("DCE")

	GCM(fn)
	log("GCM")
}
