// Package lexgen is the public entry point: given an already-built DFA
// (consumed from the optimizer per spec.md §6 — construction itself is
// out of scope) and a set of options, it runs BlockCodegen then
// DirectiveExpander over every block and renders the result to a
// single Go source artifact. The shape mirrors the teacher's
// pkg/regengo.Compile: validate options, drive the compiler, write the
// output file.
package lexgen

import (
	"fmt"
	"go/format"
	"os"

	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/block"
	"github.com/gz83/lexgen/internal/codegenlog"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/directive"
	"github.com/gz83/lexgen/internal/dispatch"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/render"
	"github.com/gz83/lexgen/internal/scratch"
	"github.com/gz83/lexgen/internal/state"
	"github.com/gz83/lexgen/internal/tags"
	"github.com/gz83/lexgen/internal/transition"
)

// GenerateOptions wraps the codegen switches (opt_t, spec.md §6) with
// the one piece of information the reference renderer needs that isn't
// part of the original's options: where to write the result.
type GenerateOptions struct {
	Opts       *options.Options
	OutputFile string

	// Logger receives per-block progress and the condition-order
	// warning, if any; nil disables logging entirely (the default
	// codegenlog.Logger with enabled=false behaves the same way).
	Logger *codegenlog.Logger
}

// Validate checks both the embedded codegen options and the fields this
// package itself owns.
func (g GenerateOptions) Validate() error {
	if g.Opts == nil {
		return fmt.Errorf("lexgen: options cannot be nil")
	}
	if err := g.Opts.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	if g.OutputFile == "" {
		return fmt.Errorf("output file cannot be empty")
	}
	return nil
}

// Generate runs the full codegen pass over o's blocks and writes the
// rendered Go source to genOpts.OutputFile. o is expected to already
// hold every block's DFAs, tags and start conditions; Generate does not
// build or optimize a DFA, only emit code for one already built.
func Generate(genOpts GenerateOptions, o *dfa.Output) error {
	if err := genOpts.Validate(); err != nil {
		return err
	}

	opts := genOpts.Opts
	buf := scratch.New()
	tagEmitter := tags.New(opts, buf)
	transEmitter := transition.New(opts, buf, tagEmitter, nil)
	dispEmitter := dispatch.New(opts, buf, transEmitter)
	stateEmitter := &state.Emitter{
		Opts:     opts,
		Buf:      buf,
		Tags:     tagEmitter,
		Trans:    transEmitter,
		Dispatch: dispEmitter,
		AcceptOnEntry: func(entry dfa.AcceptTrans) []*arena.Code {
			return transEmitter.EmitGoto(nil, dfa.Jump{To: entry.State, Tags: entry.Tags})
		},
	}
	builder := block.New(opts, buf, stateEmitter, dispEmitter)

	log := genOpts.Logger
	if log == nil {
		log = codegenlog.New(false)
	}

	log.Section("codegen")
	for i, blk := range o.AllBlocks() {
		o.SetCurrentBlock(blk)
		builder.EmitBlock(blk)
		o.SetCurrentBlock(nil)
		log.Log("block %d: %d dfa(s), code model %s", i, len(blk.DFAs), opts.CodeModel)
	}

	if err := directive.Expand(o); err != nil {
		return fmt.Errorf("failed to expand directives: %w", err)
	}
	if warning := directive.ConditionOrderWarning(o); warning != "" {
		log.Log("warning: %s", warning)
	}

	r := render.New(opts.Package)
	for _, blk := range o.AllBlocks() {
		r.AddBlock(blk)
	}
	out, err := r.Render()
	if err != nil {
		return fmt.Errorf("failed to render output: %w", err)
	}

	// jennifer's own Render already gofmt's its output; this second pass
	// is the teacher's own formatFile belt-and-suspenders step
	// (internal/compiler/compiler.go), kept so a renderer that doesn't
	// format internally still produces clean source.
	formatted, err := format.Source([]byte(out))
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	if err := os.WriteFile(genOpts.OutputFile, formatted, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
