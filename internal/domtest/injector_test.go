package domtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/domdriver/internal/external"
)

func TestInjectorKeydownAppendsText(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	n := NewNode("name", "input")
	n.Attach().Show()
	doc.Root.AddChild(n)
	el := doc.Wrap(n)

	inj := NewInjector(doc)
	require.NoError(t, inj.Inject(&external.Dispatch{EventType: "keydown", Target: el, Text: "h"}))
	require.NoError(t, inj.Inject(&external.Dispatch{EventType: "keydown", Target: el, Text: "i", Caret: 1}))

	assert.Equal(t, "hi", n.Value)
	assert.Equal(t, 2, n.Caret)
}

func TestInjectorBackspaceRemovesCharAtCaret(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	n := NewNode("name", "input")
	n.Value = "hi"
	n.Caret = 2
	n.Attach().Show()
	doc.Root.AddChild(n)
	el := doc.Wrap(n)

	inj := NewInjector(doc)
	require.NoError(t, inj.Inject(&external.Dispatch{EventType: "keydown", Target: el, Key: "Backspace"}))

	assert.Equal(t, "h", n.Value)
	assert.Equal(t, 1, n.Caret)
}

func TestInjectorFiresSubscribers(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	n := NewNode("submit", "button")
	n.Attach().Show()
	doc.Root.AddChild(n)
	el := doc.Wrap(n)

	var clicked bool
	doc.Subscribe(el, "click", func() { clicked = true })

	inj := NewInjector(doc)
	require.NoError(t, inj.Inject(&external.Dispatch{EventType: "click", Target: el}))

	assert.True(t, clicked)
}

func TestInjectorRejectsForeignTarget(t *testing.T) {
	doc := NewDocument()
	defer doc.Close()

	inj := NewInjector(doc)
	err := inj.Inject(&external.Dispatch{EventType: "click", Target: nil})
	assert.Error(t, err)
}
