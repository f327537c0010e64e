package tonemap

import(
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateGlobalTargetBrightPeak(t *testing.T) {
	// 10k pixels, all at level 200 of a 256-bin histogram. Every scan
	// threshold lands on bin 200, so the arithmetic is easy to follow:
	// y_sat=201 after the guard bump, the raw y_target overshoots it and
	// gets pulled down to y_sat/4.
	hist := make([]int, 256)
	hist[200] = 10000

	gt, err := EstimateGlobalTarget(hist, 10000, 8)
	require.NoError(t, err)

	assert.InDelta(t, 201.0, gt.YSaturated, 1e-9)
	assert.InDelta(t, 200.0, gt.YMedium, 1e-9)
	assert.InDelta(t, 200.0, gt.YAverage, 1e-9)
	assert.InDelta(t, 50.25, gt.YTarget, 1e-6)
	assert.InDelta(t, 324.75, gt.YMax, 1e-6)
}

func TestEstimateGlobalTargetMixedScene(t *testing.T) {
	// 90% shadow mass at 10, 10% highlights at 100
	hist := make([]int, 256)
	hist[10] = 9000
	hist[100] = 1000

	gt, err := EstimateGlobalTarget(hist, 10000, 8)
	require.NoError(t, err)

	assert.InDelta(t, 101.0, gt.YSaturated, 1e-9)
	assert.InDelta(t, 10.0, gt.YMedium, 1e-9)
	assert.InDelta(t, 19.0, gt.YAverage, 1e-9)
	assert.InDelta(t, 31.0495, gt.YTarget, 0.001)
	assert.InDelta(t, 458.6503, gt.YMax, 0.001)
}

func TestEstimateGlobalTargetBitDepthRescale(t *testing.T) {
	// Same shape as the bright-peak scene, but 10-bit: outputs come back
	// rescaled by 2^(10-8) to the 8-bit-equivalent range.
	hist := make([]int, 1024)
	hist[800] = 10000

	gt, err := EstimateGlobalTarget(hist, 10000, 10)
	require.NoError(t, err)

	assert.InDelta(t, 801.0, gt.YSaturated, 1e-9)
	assert.InDelta(t, 50.0625, gt.YTarget, 1e-6)
	assert.InDelta(t, 325.6875, gt.YMax, 1e-6)
}

func TestEstimateGlobalTargetBounds(t *testing.T) {
	// For any histogram whose saturation point is reasonably high,
	// y_target lands in [4, y_saturated] before the bit-depth rescale.
	cases := []struct {
		name string
		fill func(hist []int)
	}{
		{"uniform", func(hist []int) {
			for i := range hist {
				hist[i] = 40
			}
		}},
		{"dark heavy", func(hist []int) {
			hist[5] = 9900
			hist[250] = 100
		}},
		{"bright heavy", func(hist []int) {
			hist[30] = 100
			hist[240] = 9900
		}},
		{"two peak", func(hist []int) {
			hist[20] = 5000
			hist[220] = 5000
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hist := make([]int, 256)
			tc.fill(hist)
			total := 0
			for _, c := range hist {
				total += c
			}

			gt, err := EstimateGlobalTarget(hist, total, 8)
			require.NoError(t, err)
			require.GreaterOrEqual(t, gt.YSaturated, 16.0, "test histogram too dark for the bounds property")

			assert.GreaterOrEqual(t, gt.YTarget, 4.0)
			assert.LessOrEqual(t, gt.YTarget, gt.YSaturated)
			assert.False(t, gt.YMax <= 0, "y_max should be positive, got %f", gt.YMax)
		})
	}
}

func TestEstimateGlobalTargetDegenerate(t *testing.T) {
	hist := make([]int, 256)

	_, err := EstimateGlobalTarget(hist, 10000, 8)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDegenerateInput)

	_, err = EstimateGlobalTarget(hist, 0, 8)
	assert.ErrorIs(t, err, ErrDegenerateInput)
}

func TestEstimateGlobalTargetWrongBinCount(t *testing.T) {
	_, err := EstimateGlobalTarget(make([]int, 256), 100, 10)
	assert.Error(t, err)
}
