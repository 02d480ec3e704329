package dfa

import (
	"github.com/gz83/lexgen/internal/arena"
	"github.com/gz83/lexgen/internal/options"
	"github.com/gz83/lexgen/internal/scratch"
)

// Output is the top-level container BlockCodegen and DirectiveExpander
// share: two ordered block lists, a global options snapshot, a scratch
// buffer and an arena, plus the "current block" coordinate spec.md §5
// calls the only mutable global (set/cleared around each block).
type Output struct {
	CBlocks []*OutputBlock
	HBlocks []*OutputBlock

	Global *options.Options

	Scratch *scratch.Buffer
	Arena   *arena.Arena

	current *OutputBlock
}

// NewOutput returns an Output ready to accumulate blocks under the given
// global options.
func NewOutput(global *options.Options) *Output {
	return &Output{
		Global:  global,
		Scratch: scratch.New(),
		Arena:   arena.New(),
	}
}

// SetCurrentBlock sets (or, with nil, clears) the active block pointer.
// Every emitter reads the current block through Output.Block; BlockCodegen
// is the only caller that mutates this.
func (o *Output) SetCurrentBlock(b *OutputBlock) {
	o.current = b
}

// Block returns the active block. Panics if none is set — every codegen
// path that reaches an emitter runs inside SetCurrentBlock(b)/defer
// SetCurrentBlock(nil).
func (o *Output) Block() *OutputBlock {
	if o.current == nil {
		panic("dfa: Output.Block called with no current block set")
	}
	return o.current
}

// AllBlocks returns cblocks then hblocks, the fixed cross-block
// processing order spec.md §5 mandates.
func (o *Output) AllBlocks() []*OutputBlock {
	all := make([]*OutputBlock, 0, len(o.CBlocks)+len(o.HBlocks))
	all = append(all, o.CBlocks...)
	all = append(all, o.HBlocks...)
	return all
}

// FindBlocks resolves a directive's block-name list against all blocks,
// returning an error that names the missing block and the directive
// (spec.md §7 kind (a) / SPEC_FULL.md's find_blocks grounding).
func (o *Output) FindBlocks(names []string, directive string) ([]*OutputBlock, error) {
	if names == nil {
		return o.AllBlocks(), nil
	}
	named := make(map[string]*OutputBlock)
	for _, b := range o.AllBlocks() {
		named[blockName(b)] = b
	}
	out := make([]*OutputBlock, 0, len(names))
	for _, n := range names {
		b, ok := named[n]
		if !ok {
			return nil, &BlockNotFoundError{Name: n, Directive: directive}
		}
		out = append(out, b)
	}
	return out, nil
}

// blockName derives a stable name for a block from its first DFA's
// condition, or "" when it has none; callers that need named
// blocks are expected to track names alongside OutputBlock themselves in
// real deployments (the front end assigns block names at parse time,
// which is out of scope here). This fallback exists purely so
// FindBlocks has something deterministic to compare against in tests.
func blockName(b *OutputBlock) string {
	if len(b.DFAs) > 0 && b.DFAs[0].Cond != "" {
		return b.DFAs[0].Cond
	}
	return ""
}

// BlockNotFoundError is spec.md §7 error kind (a).
type BlockNotFoundError struct {
	Name      string
	Directive string
}

func (e *BlockNotFoundError) Error() string {
	return "cannot find block '" + e.Name + "' listed in `" + e.Directive + "` directive"
}
