package emath

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFloatGridRangeSkipsUnset(t *testing.T) {
	fg := NewFloatGrid(3, 2)
	_, _, ok := fg.Range()
	assert.False(t, ok)

	fg.Set(0, 0, 4.5)
	fg.Set(2, 1, -1.0)
	min, max, ok := fg.Range()
	require.True(t, ok)
	assert.Equal(t, -1.0, min)
	assert.Equal(t, 4.5, max)
	assert.False(t, fg.IsSet(1, 1))
	assert.Equal(t, 3, fg.Dx())
	assert.Equal(t, 2, fg.Dy())
}

func TestFloatGridToImg(t *testing.T) {
	fg := NewFloatGrid(16, 16)
	fg.Set(3, 3, 1.0)
	fg.Set(4, 4, 2.0)

	fn := filepath.Join(t.TempDir(), "q.png")
	require.NoError(t, fg.ToImg("quality", fn))
	info, err := os.Stat(fn)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestGammaExpand(t *testing.T) {
	assert.InDelta(t, 0.0, GammaExpand_F64(0.0), 1e-12)
	assert.InDelta(t, 1.0, GammaExpand_F64(1.0), 1e-9)
	assert.Less(t, GammaExpand_F64(0.2), GammaExpand_F64(0.3))
}
