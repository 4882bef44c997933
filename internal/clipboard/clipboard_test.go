package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	var m Memory
	var w Writer = &m

	require.NoError(t, w.Write("abc"))
	require.NoError(t, w.Write("def"))
	assert.Equal(t, "def", m.Text)
	assert.Equal(t, 2, m.Writes)
}
