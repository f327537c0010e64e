package tonemap

import(
	"errors"
	"fmt"
	"math"
)

// ErrDegenerateInput means the histogram had no usable mass - an empty or
// all-zero frame. The caller must hand us at least one non-zero bin.
var ErrDegenerateInput = errors.New("degenerate histogram")

// A GlobalTarget is the single tone-compression target for a whole frame:
// two scalars the global remap kernel takes as uniforms. YSaturated,
// YPercent90 and YMedium are the scan thresholds that produced them, kept
// for logging; only YMax and YTarget go to the kernel.
type GlobalTarget struct {
	YMax    float64
	YTarget float64

	YSaturated float64
	YPercent90 float64
	YMedium    float64
	YAverage   float64
}

func (gt GlobalTarget)String() string {
	return fmt.Sprintf("target[y_max=%.1f y_target=%.1f (sat=%.0f p90=%.0f med=%.0f avg=%.1f)]",
		gt.YMax, gt.YTarget, gt.YSaturated, gt.YPercent90, gt.YMedium, gt.YAverage)
}

// EstimateGlobalTarget derives the frame's tone-compression target from its
// global luma histogram.
//
// The scan runs brightest-to-darkest, recording the first bin at which the
// running pixel count crosses 0.3% (saturation point), 10%, and 50% of the
// frame, and accumulating sum(level*count) for the mean. y_target is an
// exposure-ish midtone goal scaled by how much headroom the saturation
// point leaves; it gets a floor of 4 and is pulled down to y_saturated/4
// on very dark or low-dynamic-range frames, where full compression would
// crush what little signal there is. Both outputs are rescaled to an
// 8-bit-equivalent range so the kernel doesn't care about sensor depth.
func EstimateGlobalTarget(hist []int, totalPixels int, bitDepth int) (GlobalTarget, error) {
	gt := GlobalTarget{}
	binCount := 1 << bitDepth

	if len(hist) != binCount {
		return gt, fmt.Errorf("histogram has %d bins, want %d for %d-bit", len(hist), binCount, bitDepth)
	}
	if totalPixels <= 0 {
		return gt, fmt.Errorf("total pixel count %d: %w", totalPixels, ErrDegenerateInput)
	}

	saturatedThresh := int(float64(totalPixels) * 0.003)
	percent90Thresh := int(float64(totalPixels) * 0.1)
	mediumThresh := int(float64(totalPixels) * 0.5)

	pixelNum := 0
	cumulative := int64(0)
	ySaturated, yPercent90, yMedium := 0.0, 0.0, 0.0

	for i := binCount - 1; i >= 0; i-- {
		pixelNum += hist[i]
		if ySaturated == 0 && pixelNum >= saturatedThresh {
			ySaturated = float64(i)
		}
		if yPercent90 == 0 && pixelNum >= percent90Thresh {
			yPercent90 = float64(i)
		}
		if yMedium == 0 && pixelNum >= mediumThresh {
			yMedium = float64(i)
		}
		cumulative += int64(i) * int64(hist[i])
	}

	if ySaturated == 0 {
		return gt, fmt.Errorf("y_saturated == 0: %w", ErrDegenerateInput)
	}

	yAverage := float64(cumulative) / float64(totalPixels)

	// Guards the division below when the top bin itself saturates
	if ySaturated < float64(binCount-1) {
		ySaturated = ySaturated + 1
	}

	yTarget := (float64(binCount) / ySaturated) * (1.5*yMedium + 0.5*yAverage) / 2

	if yTarget < 4 {
		yTarget = 4
	}
	if yTarget > ySaturated || ySaturated < 4 {
		yTarget = ySaturated / 4
	}

	yMax := float64(binCount)*(2*ySaturated+yTarget)/ySaturated - ySaturated - yTarget

	scale := math.Pow(2, float64(bitDepth-8))
	gt.YMax = yMax / scale
	gt.YTarget = yTarget / scale
	gt.YSaturated = ySaturated
	gt.YPercent90 = yPercent90
	gt.YMedium = yMedium
	gt.YAverage = yAverage

	return gt, nil
}
