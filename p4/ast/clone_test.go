package ast

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dfrunza/ashp4c-sub003/p4/token"
)

func buildConditional() *Node {
	cond := New(Name, token.Pos{})
	cond.Payload = &IdentPayload{Value: "ok"}
	then := New(BlockStatement, token.Pos{})
	els := New(BlockStatement, token.Pos{})
	innerLeaf := New(ReturnStatement, token.Pos{})
	els.AddChild(innerLeaf)

	n := New(ConditionalStatement, token.Pos{})
	n.AddChild(cond)
	n.AddChild(then)
	n.AddChild(els)
	return n
}

func TestCloneConditionalStatementKeepsAllThreeChildren(t *testing.T) {
	orig := buildConditional()
	clone := Clone(orig)

	origChildren := orig.Children()
	cloneChildren := clone.Children()
	require.Len(t, cloneChildren, 3, "cloned conditional must keep condition, then, and else")
	require.Len(t, origChildren, len(cloneChildren))
	for i, oc := range origChildren {
		cc := cloneChildren[i]
		assert.Equal(t, oc.Kind, cc.Kind, "child %d kind", i)
		assert.NotSame(t, oc, cc, "child %d was not reallocated, clone shares the original pointer", i)
	}
	// else branch must survive with its own child intact.
	elseClone := cloneChildren[2]
	require.Len(t, elseClone.Children(), 1)
	assert.Equal(t, ReturnStatement, elseClone.Child(0).Kind, "else branch lost its nested statement on clone")
}

func TestCloneProducesDistinctNodePointers(t *testing.T) {
	orig := buildConditional()
	clone := Clone(orig)
	assert.NotSame(t, orig, clone, "Clone returned the same root pointer as the original")
}

func TestClonePreservesKindAndPos(t *testing.T) {
	f := token.NewFile("t.p4", 100)
	pos := f.Pos(42)
	orig := New(IntLiteral, pos)
	orig.Payload = &LitPayload{Text: "7"}
	clone := Clone(orig)
	assert.Equal(t, orig.Kind, clone.Kind)
	assert.Equal(t, orig.Pos, clone.Pos)
}

func TestClonePayloadIsDeepCopiedNotShared(t *testing.T) {
	orig := New(Name, token.Pos{})
	orig.Payload = &IdentPayload{Value: "x"}
	clone := Clone(orig)

	origPayload := orig.Payload.(*IdentPayload)
	clonePayload := clone.Payload.(*IdentPayload)
	require.NotSame(t, origPayload, clonePayload, "clone shares the original's payload pointer")
	assert.Equal(t, origPayload.Value, clonePayload.Value)

	clonePayload.Value = "mutated"
	assert.NotEqual(t, "mutated", origPayload.Value, "mutating the clone's payload must not affect the original")
}

func TestCloneCopiesEveryPayloadVariantByValue(t *testing.T) {
	cases := []struct {
		name string
		node *Node
	}{
		{
			name: "BinaryPayload",
			node: func() *Node {
				n := New(BinaryExpression, token.Pos{})
				n.Payload = &BinaryPayload{Op: token.ADD}
				return n
			}(),
		},
		{
			name: "UnaryPayload",
			node: func() *Node {
				n := New(UnaryExpression, token.Pos{})
				n.Payload = &UnaryPayload{Op: token.NOT}
				return n
			}(),
		},
		{
			name: "MemberPayload",
			node: func() *Node {
				n := New(MemberSelector, token.Pos{})
				n.Payload = &MemberPayload{Member: "field"}
				return n
			}(),
		},
		{
			name: "ArgumentPayload",
			node: func() *Node {
				n := New(Argument, token.Pos{})
				n.Payload = &ArgumentPayload{Name: "x"}
				return n
			}(),
		},
		{
			name: "DeclPayload",
			node: func() *Node {
				n := New(Parameter, token.Pos{})
				n.Payload = &DeclPayload{Name: "p", Direction: DirInOut}
				return n
			}(),
		},
		{
			name: "BaseTypePayload",
			node: func() *Node {
				n := New(BaseType, token.Pos{})
				n.Payload = &BaseTypePayload{Keyword: token.BIT, Width: 8}
				return n
			}(),
		},
		{
			name: "TransitionPayload",
			node: func() *Node {
				n := New(TransitionStatement, token.Pos{})
				n.Payload = &TransitionPayload{}
				return n
			}(),
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clone := Clone(c.node)
			require.NotNil(t, clone.Payload, "clone lost its %s payload", c.name)
			assert.NotSame(t, c.node.Payload, clone.Payload, "%s payload pointer was shared with the original, not copied", c.name)
			// Pointers differ by construction; go-cmp confirms the copy
			// still carries every field's value across, not just a
			// reallocated-but-zeroed struct.
			if diff := cmp.Diff(c.node.Payload, clone.Payload); diff != "" {
				t.Errorf("%s payload value changed across Clone (-orig +clone):\n%s", c.name, diff)
			}
		})
	}
}

func TestCloneNilIsNil(t *testing.T) {
	assert.Nil(t, Clone(nil))
}

func TestCloneNodeWithNilPayloadStaysNil(t *testing.T) {
	n := New(BlockStatement, token.Pos{})
	clone := Clone(n)
	assert.Nil(t, clone.Payload)
}
