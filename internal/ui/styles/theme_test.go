package styles

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { Current = LoopState })

	SetTheme("tokyo-night")
	require.Equal(t, "Tokyo Night", Current.Name)

	// Unknown names keep the active theme.
	SetTheme("does-not-exist")
	require.Equal(t, "Tokyo Night", Current.Name)

	SetTheme("loopstate")
	require.Equal(t, "LoopState", Current.Name)
}

func TestContentWidth(t *testing.T) {
	require.Equal(t, 60, ContentWidth(60))
	require.Equal(t, MaxWidth, ContentWidth(300))
}
