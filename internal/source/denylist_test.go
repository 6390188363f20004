package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenylistBlocksPlaceholders(t *testing.T) {
	deny, err := NewDenylist(DefaultDenylistPatterns())
	require.NoError(t, err)

	blocked := []string{
		"Other",
		"other",
		"OTHER",
		"Movie A",
		"movie b",
		"Actor C",
		"Actress D",
		"Director E",
		"Song F",
		"Artist G",
	}
	for _, name := range blocked {
		assert.True(t, deny.Blocked(name), "expected %q to be blocked", name)
	}
}

func TestDenylistKeepsRealNames(t *testing.T) {
	deny, err := NewDenylist(DefaultDenylistPatterns())
	require.NoError(t, err)

	kept := []string{
		"Dune: Part Two",
		"Cillian Murphy",
		"Another Round",   // contains "other" but is not the placeholder
		"Movie About Art", // prefix matches but not prefix+letter shape
		"The Brutalist",
	}
	for _, name := range kept {
		assert.False(t, deny.Blocked(name), "expected %q to be kept", name)
	}
}

func TestDenylistInvalidPattern(t *testing.T) {
	_, err := NewDenylist([]string{"("})
	require.Error(t, err)
}

func TestDenylistEmptyBlocksNothing(t *testing.T) {
	deny, err := NewDenylist(nil)
	require.NoError(t, err)
	assert.False(t, deny.Blocked("Other"))
}
