package tonemap

import(
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/camtone/pkg/stats"
)

func TestLoadSettings(t *testing.T) {
	yaml := []byte(`
mode: global
bitdepth: 12
statswidth: 128
statsheight: 72
clampsamples: true
`)
	filename := filepath.Join(t.TempDir(), "camtone.yaml")
	require.NoError(t, ioutil.WriteFile(filename, yaml, 0644))

	s, err := LoadSettings(filename)
	require.NoError(t, err)

	assert.Equal(t, "global", s.Mode)
	assert.Equal(t, 12, s.BitDepth)
	assert.Equal(t, 128, s.StatsWidth)
	assert.Equal(t, 72, s.StatsHeight)
	assert.Equal(t, 4, s.BlockFactor, "unset fields keep their defaults")
	assert.Equal(t, stats.ClampOutOfRange, s.Policy)
}

func TestFinalizeRejectsNonsense(t *testing.T) {
	s := DefaultSettings()
	s.Mode = "sideways"
	assert.Error(t, s.Finalize())

	s = DefaultSettings()
	s.BitDepth = 32
	assert.Error(t, s.Finalize())

	s = DefaultSettings()
	s.StatsWidth = 2 // smaller than the block grid
	assert.Error(t, s.Finalize())

	s = DefaultSettings()
	assert.NoError(t, s.Finalize())
	assert.Equal(t, stats.RejectOutOfRange, s.Policy)
}
