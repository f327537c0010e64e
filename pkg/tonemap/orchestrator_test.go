package tonemap

import(
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abworrall/camtone/pkg/stats"
)

func settingsForTest(blockFactor, bitDepth int) Settings {
	s := DefaultSettings()
	s.BlockFactor = blockFactor
	s.BitDepth = bitDepth
	gridSize := blockFactor * 16
	s.StatsWidth = gridSize
	s.StatsHeight = gridSize
	if err := s.Finalize(); err != nil {
		panic(err)
	}
	return s
}

func TestBuildTableIdenticalBlocks(t *testing.T) {
	// Each 16x16 block of this grid holds every 8-bit level exactly once,
	// so all 16 blocks see the same uniform histogram and must produce
	// identical curves.
	s := settingsForTest(4, 8)
	g := stats.NewGrid(64, 64, 8)
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			g.Set(x, y, (x%16)+(y%16)*16)
		}
	}

	bt := NewBlockTonemapper(s)
	table, err := bt.BuildTable(g)
	require.NoError(t, err)

	require.Equal(t, 16, table.NumBlocks())
	require.Equal(t, 256, table.BinCount())

	first := table.Block(0)
	assertCurveWellFormed(t, first)
	for b := 1; b < table.NumBlocks(); b++ {
		assert.Equal(t, first, table.Block(b), "block %d differs from block 0", b)
	}
}

func TestBuildTableRemainderRows(t *testing.T) {
	// 67 rows over a 4x4 block grid: the last block row must absorb the
	// 3-row remainder so every row is histogrammed exactly once.
	g := stats.NewGrid(64, 67, 8)

	covered := 0
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			r := g.BlockRegion(row, col, 4)
			covered += r.PixelCount()
			if row == 3 {
				assert.Equal(t, 19, r.H, "last row should absorb the remainder")
			} else {
				assert.Equal(t, 16, r.H)
			}
		}
	}
	assert.Equal(t, 64*67, covered)

	s := settingsForTest(4, 8)
	s.StatsHeight = 67
	bt := NewBlockTonemapper(s)
	for i := range g.AvgY {
		g.AvgY[i] = i % 256
	}
	table, err := bt.BuildTable(g)
	require.NoError(t, err)
	for b := 0; b < table.NumBlocks(); b++ {
		assertCurveWellFormed(t, table.Block(b))
	}
}

func TestBuildTableRejectsBadSample(t *testing.T) {
	s := settingsForTest(4, 8)
	g := stats.NewGrid(64, 64, 8)
	for i := range g.AvgY {
		g.AvgY[i] = 50
	}
	g.Set(40, 40, 256) // out of range for 8-bit

	bt := NewBlockTonemapper(s)
	_, err := bt.BuildTable(g)
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrOutOfRangeSample)

	// Under the clamp policy the same grid is fine
	s.ClampSamples = true
	require.NoError(t, s.Finalize())
	bt = NewBlockTonemapper(s)
	_, err = bt.BuildTable(g)
	assert.NoError(t, err)
}

func TestTimingSummary(t *testing.T) {
	s := settingsForTest(4, 8)
	g := stats.NewGrid(64, 64, 8)
	for i := range g.AvgY {
		g.AvgY[i] = i % 256
	}

	bt := NewBlockTonemapper(s)
	_, err := bt.BuildTable(g)
	require.NoError(t, err)

	summary := bt.TimingSummary()
	assert.True(t, strings.Contains(summary, "n=16"), "got %q", summary)
}

func TestCurveTableBlockView(t *testing.T) {
	table := NewCurveTable(256, 16)

	b := table.Block(3)
	require.Len(t, b, 256)
	b[0] = 0.5
	assert.Equal(t, float32(0.5), table.Raw()[3*256])

	// The sub-view's capacity stops at the block boundary
	assert.Equal(t, 256, cap(b))

	assert.Panics(t, func() { table.Block(16) })
	assert.Panics(t, func() { table.Block(-1) })
}
