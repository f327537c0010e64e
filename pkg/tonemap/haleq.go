package tonemap

// Recursive median-cut equalization ("haleq"). Bisects the compressed
// luminance domain, writing the local weighted median into a coarse
// 256-slot anchor table; the block curve builder later expands the anchors
// into a full per-level curve.

const (
	anchorCount   = 256
	maxHaleqDepth = 5 // nodes at depth maxHaleqDepth+1 still write, but don't split
)

// newAnchorTable returns a 256-slot anchor table pre-filled with the linear
// ramp i*binCount/255. The depth-capped traversal visits at most 127 of
// the 256 slots, and the later even-index repair pass only interpolates
// half of the rest - the ramp is the deterministic default for slots
// nothing ever touches.
func newAnchorTable(binCount int) []int {
	anchors := make([]int, anchorCount)
	for i := range anchors {
		anchors[i] = i * binCount / (anchorCount - 1)
	}
	return anchors
}

// haleq assigns anchors[mid(indexLeft,indexRight)] the local weighted
// median of the levels in [left,right], then recurses into the two halves
// with halved index ranges.
//
//	sortY    rank -> level; rank 0 is a sentinel 0, ranks 1..N cover the
//	         region's pixels in level order
//	histCum  prefix-summed histogram over the same levels
//
// The median e is biased halfway toward the range midpoint l, which damps
// equalization where the histogram is flat or empty: an empty range has
// e == 0 and falls back to l outright, so no contrast is invented there.
func haleq(sortY, histCum, anchors []int, left, right, level, indexLeft, indexRight int) {
	l := (left + right) / 2

	numLeft := 0
	if left > 0 {
		numLeft = histCum[left-1]
	}
	pixelNum := histCum[right] - numLeft

	rank := numLeft + pixelNum/2
	if rank >= len(sortY) {
		rank = len(sortY) - 1
	}
	e := sortY[rank]

	var le float64
	if e != 0 {
		le = 0.5*float64(e-l) + float64(l)
	} else {
		le = float64(l)
	}
	cut := int(le + 0.5)

	index := (indexLeft + indexRight) / 2
	anchors[index] = cut

	if level > maxHaleqDepth {
		return
	}

	haleq(sortY, histCum, anchors, left, cut, level+1, indexLeft, index)
	haleq(sortY, histCum, anchors, cut+1, right, level+1, index+1, indexRight)
}

// repairAnchors turns the sparsely-visited anchor table into a monotone
// one: endpoints are forced to the full span, every even interior slot is
// replaced by the average of its neighbors (the traversal writes mostly
// odd midpoints), and anything still below its predecessor is clamped up.
func repairAnchors(anchors []int, binCount int) {
	anchors[anchorCount-1] = binCount
	anchors[0] = 0

	for i := 1; i < anchorCount-1; i++ {
		if i%2 == 0 {
			anchors[i] = (anchors[i-1] + anchors[i+1]) / 2
		}
		if anchors[i] < anchors[i-1] {
			anchors[i] = anchors[i-1]
		}
	}

	for i := 1; i < anchorCount; i++ {
		if anchors[i] > binCount {
			anchors[i] = binCount
		}
	}
}
