package stats

import(
	"errors"
	"fmt"
)

// ErrOutOfRangeSample means a grid cell held a luma value outside
// [0, binCount) - the collection stage broke its contract.
var ErrOutOfRangeSample = errors.New("luma sample outside [0, bin_count)")

// SamplePolicy says what to do with an out-of-range sample. The default is
// to reject the frame; Clamp pins the sample to the nearest valid bin.
type SamplePolicy int

const (
	RejectOutOfRange SamplePolicy = iota
	ClampOutOfRange
)

// A Region is a rectangular sub-area of the grid, in cell coordinates.
type Region struct {
	X, Y int
	W, H int
}

func (r Region)PixelCount() int { return r.W * r.H }

func (r Region)String() string {
	return fmt.Sprintf("region[%d,%d %dx%d]", r.X, r.Y, r.W, r.H)
}

// BlockRegion carves the grid into a blockFactor x blockFactor grid of
// blocks and returns the (row, col) one. The last row absorbs the height
// remainder, so every grid row belongs to exactly one block. Columns
// follow the original stats walk: any width remainder is left unsampled.
func (g *Grid)BlockRegion(row, col, blockFactor int) Region {
	wPerBlock := g.Width / blockFactor
	hPerBlock := g.Height / blockFactor

	r := Region{
		X: col * wPerBlock,
		Y: row * hPerBlock,
		W: wPerBlock,
		H: hPerBlock,
	}
	if row == blockFactor-1 {
		r.H = hPerBlock + g.Height%blockFactor
	}
	return r
}

// BuildHistogram aggregates the region's average-luma samples into a
// histogram of binCount bins. Pure aggregation, no cross-block state: the
// sum of the counts equals the region's cell count.
func (g *Grid)BuildHistogram(r Region, policy SamplePolicy) ([]int, error) {
	binCount := g.BinCount()
	hist := make([]int, binCount)

	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			v := g.At(x, y)
			if v < 0 || v >= binCount {
				if policy == RejectOutOfRange {
					return nil, fmt.Errorf("cell (%d,%d) = %d: %w", x, y, v, ErrOutOfRangeSample)
				}
				if v < 0 {
					v = 0
				} else {
					v = binCount - 1
				}
			}
			hist[v]++
		}
	}

	return hist, nil
}

// GlobalHistogram is the whole-grid histogram, as the global tone target
// estimator wants it.
func (g *Grid)GlobalHistogram(policy SamplePolicy) ([]int, error) {
	return g.BuildHistogram(Region{X: 0, Y: 0, W: g.Width, H: g.Height}, policy)
}
