package tonemap

import(
	"fmt"
	"time"

	"github.com/codahale/hdrhistogram"

	"github.com/abworrall/camtone/pkg/stats"
)

// A BlockTonemapper runs the per-block curve pipeline over a statistics
// grid: carve the grid into BlockFactor x BlockFactor blocks, histogram
// each one, build its curve into the shared table. Blocks are independent
// and their table slots disjoint; any block failing aborts the frame, so a
// half-written table never reaches the GPU.
type BlockTonemapper struct {
	BlockFactor int
	Policy      stats.SamplePolicy

	timings *hdrhistogram.Histogram // per-block build latency, microseconds
}

func NewBlockTonemapper(s Settings) *BlockTonemapper {
	return &BlockTonemapper{
		BlockFactor: s.BlockFactor,
		Policy:      s.Policy,
		timings:     hdrhistogram.New(1, 10*1000*1000, 3),
	}
}

// BuildTable computes the frame's full curve table. The returned table is
// valid until the next frame's call.
func (bt *BlockTonemapper)BuildTable(g *stats.Grid) (*CurveTable, error) {
	binCount := g.BinCount()
	table := NewCurveTable(binCount, bt.BlockFactor*bt.BlockFactor)

	for blockRow := 0; blockRow < bt.BlockFactor; blockRow++ {
		for blockCol := 0; blockCol < bt.BlockFactor; blockCol++ {
			blockIndex := blockRow*bt.BlockFactor + blockCol
			region := g.BlockRegion(blockRow, blockCol, bt.BlockFactor)

			hist, err := g.BuildHistogram(region, bt.Policy)
			if err != nil {
				return nil, fmt.Errorf("block (%d,%d) histogram: %w", blockRow, blockCol, err)
			}

			start := time.Now()
			if err := BuildBlockCurve(hist, region.PixelCount(), table.Block(blockIndex)); err != nil {
				return nil, fmt.Errorf("block (%d,%d) curve: %w", blockRow, blockCol, err)
			}
			bt.timings.RecordValue(time.Since(start).Microseconds())
		}
	}

	return table, nil
}

// TimingSummary reports per-block build latency across the run so far.
func (bt *BlockTonemapper)TimingSummary() string {
	return fmt.Sprintf("block curve build: p50=%dus p99=%dus max=%dus (n=%d)",
		bt.timings.ValueAtQuantile(50), bt.timings.ValueAtQuantile(99),
		bt.timings.Max(), bt.timings.TotalCount())
}
