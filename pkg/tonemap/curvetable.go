package tonemap

import(
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// A CurveTable holds one tone curve per block, concatenated: binCount
// normalized floats per block, addressed block-major. The orchestrator
// owns it for the frame's lifetime; the compute backend borrows it for a
// single dispatch and must not retain it.
type CurveTable struct {
	binCount  int
	numBlocks int
	vals      []float32
}

func NewCurveTable(binCount, numBlocks int) *CurveTable {
	return &CurveTable{
		binCount:  binCount,
		numBlocks: numBlocks,
		vals:      make([]float32, binCount*numBlocks),
	}
}

func (t *CurveTable)BinCount() int  { return t.binCount }
func (t *CurveTable)NumBlocks() int { return t.numBlocks }

// Raw is the flat bin_count x num_blocks buffer the backend uploads.
func (t *CurveTable)Raw() []float32 { return t.vals }

// Block returns block i's curve as a capacity-limited sub-slice, so a
// builder handed one block can't scribble over its neighbors.
func (t *CurveTable)Block(i int) []float32 {
	if i < 0 || i >= t.numBlocks {
		panic(fmt.Sprintf("block index %d out of range [0,%d)", i, t.numBlocks))
	}
	lo, hi := i*t.binCount, (i+1)*t.binCount
	return t.vals[lo:hi:hi]
}

// Summary reports the value spread across the whole table, for logging.
func (t *CurveTable)Summary() string {
	xs := make([]float64, len(t.vals))
	for i, v := range t.vals {
		xs[i] = float64(v)
	}
	return fmt.Sprintf("curvetable[%d blocks x %d levels, vals{%.3f,%.3f} mean %.3f]",
		t.numBlocks, t.binCount, floats.Min(xs), floats.Max(xs), stat.Mean(xs, nil))
}
