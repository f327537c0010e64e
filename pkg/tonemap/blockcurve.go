package tonemap

import(
	"fmt"
	"math"
)

// splitThreshold picks the level that separates the "normal" exposure
// range from the "highlight" range, from the block's mean luminance. Dark
// blocks (small y_avg) get a huge threshold - everything is normal range -
// while bright blocks push more of their span into the separately
// compressed highlight range. The +1 keeps an all-black block (y_avg == 0)
// from dividing by zero.
func splitThreshold(yAvg float64) int {
	return int(1500 * 1500 / (yAvg*yAvg + 1) * 600)
}

// BuildBlockCurve computes one block's tone curve from its luma histogram
// and writes the len(hist) normalized values into dst, which must be the
// block's sub-view of the curve table.
//
// The pipeline: log-compress the histogram (independently for the normal
// and highlight ranges, so a bright specular region can't starve the
// midtones of index space), run the recursive median equalizer over the
// compressed domain, repair the sparse anchor table into a monotone one,
// and compose the two maps into a per-level curve value in [0,1].
func BuildBlockCurve(hist []int, pixelNum int, dst []float32) error {
	binCount := len(hist)
	if len(dst) < binCount {
		return fmt.Errorf("curve destination holds %d levels, want %d", len(dst), binCount)
	}
	if pixelNum <= 0 {
		return fmt.Errorf("block pixel count %d: %w", pixelNum, ErrDegenerateInput)
	}

	yMax := -1
	for i := binCount - 1; i >= 0; i-- {
		if hist[i] > 0 {
			yMax = i
			break
		}
	}
	if yMax < 0 {
		return fmt.Errorf("all histogram bins empty: %w", ErrDegenerateInput)
	}

	yAvg := 0.0
	for i := 0; i < binCount; i++ {
		yAvg += float64(i) * float64(hist[i])
	}
	yMax = yMax + 1
	yAvg = yAvg / float64(pixelNum)

	histLog := make([]int, binCount)
	mapIndexLog := make([]int, binCount)

	thres := splitThreshold(yAvg)
	yMax0 := yMax
	if yMax0 > thres {
		yMax0 = thres
	}
	yMax1 := yMax - thres
	if yMax1 < 0 {
		yMax1 = 0
	}

	// Epsilon offsets keep log() off zero; each range is scaled so its
	// compressed span matches its share of the index budget.
	t0 := 0.01*float64(yMax0) + 0.001
	t1 := 0.001*float64(yMax1) + 0.001
	max0Log := math.Log(float64(yMax0) + t0)
	max1Log := math.Log(float64(yMax1) + t1)
	t0Log := math.Log(t0)
	t1Log := math.Log(t1)

	var factor0 float64
	if yMax < thres {
		factor0 = float64(binCount-1) / (max0Log - t0Log + 0.001)
	} else {
		factor0 = float64(yMax0) / (max0Log - t0Log + 0.001)
	}
	factor1 := float64(yMax1) / (max1Log - t1Log + 0.001)

	clampIndex := func(index int) int {
		if index < 0 {
			return 0
		}
		if index >= binCount {
			return binCount - 1
		}
		return index
	}

	if yMax < thres {
		for i := 0; i < yMax; i++ {
			index := clampIndex(int((math.Log(float64(i)+t0)-t0Log)*factor0 + 0.5))
			histLog[index] += hist[i]
			mapIndexLog[i] = index
		}
	} else {
		for i := 0; i < yMax0; i++ {
			index := clampIndex(int((math.Log(float64(i)+t0)-t0Log)*factor0 + 0.5))
			histLog[index] += hist[i]
			mapIndexLog[i] = index
		}
		for i := yMax0; i < yMax; i++ {
			r := yMax - i
			index := clampIndex(yMax - int((math.Log(float64(r)+t1)-t1Log)*factor1+0.5))
			// Rounding can nudge the first highlight index below the last
			// normal one; keep the composed map non-decreasing
			if i > 0 && index < mapIndexLog[i-1] {
				index = mapIndexLog[i-1]
			}
			histLog[index] += hist[i]
			mapIndexLog[i] = index
		}
	}

	// No data beyond the observed range: park the tail on the last
	// compressed index
	for i := yMax; i < binCount; i++ {
		histLog[mapIndexLog[yMax-1]] += hist[i]
		mapIndexLog[i] = mapIndexLog[yMax-1]
	}

	// Expand to a rank->level array, then prefix-sum the histogram, which
	// is the pair the equalizer wants
	sortY := make([]int, pixelNum+1)
	sortIndex := 1
	for i := 0; i < binCount; i++ {
		for l := 0; l < histLog[i] && sortIndex < len(sortY); l++ {
			sortY[sortIndex] = i
			sortIndex++
		}
	}
	sortY[0] = 0

	for i := 1; i < binCount; i++ {
		histLog[i] += histLog[i-1]
	}

	anchors := newAnchorTable(binCount)
	haleq(sortY, histLog, anchors, 0, binCount-1, 0, 0, anchorCount-1)
	repairAnchors(anchors, binCount)

	// Each anchor interval maps to a constant output step: its left
	// endpoint, normalized by the 255 anchor steps
	mapIndexLeq := make([]float64, binCount)
	for i := 0; i < anchorCount-1; i++ {
		for k := anchors[i]; k < anchors[i+1]; k++ {
			mapIndexLeq[k] = float64(i)
		}
	}

	for i := 0; i < binCount; i++ {
		dst[i] = float32(mapIndexLeq[mapIndexLog[i]] / float64(anchorCount-1))
	}

	return nil
}
