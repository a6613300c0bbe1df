package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswers(t *testing.T) {
	got, err := parseAnswers("2, 3,-,,1")
	require.NoError(t, err)
	require.Len(t, got, 5)
	assert.Equal(t, 1, *got[0])
	assert.Equal(t, 2, *got[1])
	assert.Nil(t, got[2])
	assert.Nil(t, got[3])
	assert.Equal(t, 0, *got[4])

	got, err = parseAnswers("  ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = parseAnswers("1,b")
	assert.Error(t, err)
}

func TestCompletionCoversCommands(t *testing.T) {
	tree := completion()
	for _, c := range append(tradingCommands, educationCommands...) {
		_, ok := tree.Sub[c.Name()]
		assert.True(t, ok, c.Name())
	}
}
