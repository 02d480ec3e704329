package lexgen

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gz83/lexgen/internal/codegenlog"
	"github.com/gz83/lexgen/internal/dfa"
	"github.com/gz83/lexgen/internal/options"
)

func TestGenerateOptionsValidateRejectsNilOpts(t *testing.T) {
	g := GenerateOptions{OutputFile: "out.go"}
	assert.Error(t, g.Validate())
}

func TestGenerateOptionsValidateRejectsEmptyOutputFile(t *testing.T) {
	g := GenerateOptions{Opts: options.NewOptions()}
	assert.Error(t, g.Validate())
}

func smallDFA() *dfa.Adfa {
	l0 := &dfa.Label{Index: 0, Used: true}
	l1 := &dfa.Label{Index: 1, Used: true}
	rule := &dfa.Rule{SemAct: &dfa.SemAct{Text: "return TOKEN"}}
	s1 := &dfa.State{Label: l1, Action: dfa.Action{Kind: dfa.ActionRule, Rule: rule}}
	s0 := &dfa.State{
		Label:  l0,
		Action: dfa.Action{Kind: dfa.ActionMatch},
		Go:     dfa.Go{Spans: []dfa.Span{{Lb: 'a', Ub: 'b', To: s1}}},
		Next:   s1,
	}
	return &dfa.Adfa{Head: s0}
}

func TestGenerateWritesOutputFile(t *testing.T) {
	opts := options.NewOptions()
	o := dfa.NewOutput(opts)
	blk := dfa.NewOutputBlock(opts, dfa.BlockCode)
	blk.DFAs = []*dfa.Adfa{smallDFA()}
	o.CBlocks = []*dfa.OutputBlock{blk}

	dir := t.TempDir()
	outFile := filepath.Join(dir, "lexer.go")
	genOpts := GenerateOptions{Opts: opts, OutputFile: outFile}

	require.NoError(t, Generate(genOpts, o))

	contents, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "package lexgen")
}

func TestGenerateLogsConditionOrderWarning(t *testing.T) {
	opts := options.NewOptions()
	opts.NestedIfs = true
	o := dfa.NewOutput(opts)
	blk := dfa.NewOutputBlock(opts, dfa.BlockCode)
	blk.DFAs = []*dfa.Adfa{smallDFA()}
	blk.Conds = []dfa.StartCond{{Name: "A"}, {Name: "B"}}
	o.CBlocks = []*dfa.OutputBlock{blk}

	var buf bytes.Buffer
	log := codegenlog.New(true)
	log.SetOutput(&buf)

	dir := t.TempDir()
	genOpts := GenerateOptions{Opts: opts, OutputFile: filepath.Join(dir, "lexer.go"), Logger: log}

	require.NoError(t, Generate(genOpts, o))
	assert.Contains(t, buf.String(), "condition order")
}
