package dfa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gz83/lexgen/internal/options"
)

func TestIsNestedRequiresFixedKindAndBase(t *testing.T) {
	base := &Tag{Kind: TagVariable}
	nested := &Tag{Kind: TagFixed, Base: base}
	assert.True(t, nested.IsNested())
}

func TestIsNestedFalseForToplevel(t *testing.T) {
	base := &Tag{Kind: TagVariable}
	top := &Tag{Kind: TagFixed, Base: base, Toplevel: true}
	assert.False(t, top.IsNested())
}

func TestIsNestedFalseWhenBaseIsTrailing(t *testing.T) {
	base := &Tag{Kind: TagTrailing}
	t1 := &Tag{Kind: TagFixed, Base: base}
	assert.False(t, t1.IsNested())
}

func TestJumpSameAs(t *testing.T) {
	s := &State{}
	a := Jump{To: s}
	b := Jump{To: s}
	assert.True(t, a.SameAs(b))

	c := Jump{To: s, Skip: true}
	assert.False(t, a.SameAs(c))
}

func TestTagCommandWalkVisitsChain(t *testing.T) {
	third := &TagCommand{Kind: CmdSet}
	second := &TagCommand{Kind: CmdCopy, Next: third}
	first := &TagCommand{Kind: CmdAdd, Next: second}

	var visited []TagCommandKind
	first.Walk(func(c *TagCommand) { visited = append(visited, c.Kind) })
	assert.Equal(t, []TagCommandKind{CmdAdd, CmdCopy, CmdSet}, visited)
}

func TestAcceptTableHasTags(t *testing.T) {
	withTags := &AcceptTable{Entries: []AcceptTrans{{Tags: &TagCommand{Kind: CmdSet}}}}
	assert.True(t, withTags.HasTags())

	noTags := &AcceptTable{Entries: []AcceptTrans{{}}}
	assert.False(t, noTags.HasTags())
}

func TestRuleTagsRange(t *testing.T) {
	r := &Rule{LTag: 2, HTag: 5}
	lo, hi := r.Tags()
	assert.Equal(t, 2, lo)
	assert.Equal(t, 5, hi)
}

func TestGoIsEndState(t *testing.T) {
	self := &State{Action: Action{Kind: ActionRule}}
	g := Go{Spans: []Span{{To: self}}}
	self.Go = g
	assert.True(t, self.Go.IsEndState())
}

func TestAdfaStatesWalksNextChain(t *testing.T) {
	s2 := &State{}
	s1 := &State{Next: s2}
	s0 := &State{Next: s1}
	a := &Adfa{Head: s0}
	assert.Equal(t, []*State{s0, s1, s2}, a.States())
}

func TestOutputFindBlocksByName(t *testing.T) {
	opts := options.NewOptions()
	o := NewOutput(opts)
	b := NewOutputBlock(opts, BlockCode)
	b.DFAs = []*Adfa{{Cond: "INITIAL"}}
	o.CBlocks = []*OutputBlock{b}

	found, err := o.FindBlocks([]string{"INITIAL"}, "stags:re2c")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = o.FindBlocks([]string{"missing"}, "stags:re2c")
	require.Error(t, err)
	var notFound *BlockNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestOutputBlockPanicsWithoutCurrent(t *testing.T) {
	o := NewOutput(options.NewOptions())
	assert.Panics(t, func() { o.Block() })
}
