package fonts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectorMatch(t *testing.T) {
	registry := goRegistry(t)
	selector := NewSelector()

	regular := NewFace("Family")
	regular.AddSource(NewLocalSource("Go", registry))
	bold := NewFace("Family")
	bold.Weight = 700
	bold.AddSource(NewLocalSource("Go Bold", registry))
	italic := NewFace("Family")
	italic.Italic = true
	italic.AddSource(NewLocalSource("Go Italic", registry))
	for _, f := range []*Face{regular, bold, italic} {
		selector.Add(f)
	}

	face, data := selector.Match(Description{Family: "family"})
	assert.Equal(t, regular, face)
	require.NotNil(t, data)

	face, _ = selector.Match(Description{Family: "Family", Weight: 800})
	assert.Equal(t, bold, face)

	face, data = selector.Match(Description{Family: "Family", Italic: true})
	assert.Equal(t, italic, face)
	assert.False(t, data.SyntheticItalic)

	face, data = selector.Match(Description{Family: "Other"})
	assert.Nil(t, face)
	assert.Nil(t, data)
}

func TestSelectorSkipsFacesWithoutData(t *testing.T) {
	registry := goRegistry(t)
	selector := NewSelector()

	broken := NewFace("F")
	broken.AddSource(NewLocalSource("Missing", registry))
	fallback := NewFace("F")
	fallback.Weight = 900
	fallback.AddSource(NewLocalSource("Go", registry))
	selector.Add(broken)
	selector.Add(fallback)

	face, data := selector.Match(Description{Family: "F"})
	assert.Equal(t, fallback, face)
	require.NotNil(t, data)
	assert.Equal(t, Error, broken.State())
	assert.Len(t, selector.Faces("f"), 2)
	assert.Equal(t, []string{"f"}, selector.Families())
}

func TestSelectorVersion(t *testing.T) {
	selector := NewSelector()
	assert.Zero(t, selector.Version())
	selector.FontLoaded(NewFace("x"))
	assert.Equal(t, uint64(1), selector.Version())
}
