package dispatch

import(
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
)

// CPUBackend is the reference implementation of the remap kernels,
// pixel-for-pixel on the host. Slow, but it exercises the same argument
// contract the GPU path gets, and it's what the tests check against.
type CPUBackend struct{}

func (cb CPUBackend)RunGlobal(dst draw.Image, src image.Image, args ScalarArgs) error {
	if args.YTarget <= 0 || args.YMax <= 0 {
		return fmt.Errorf("bad scalar args: y_max=%f y_target=%f", args.YMax, args.YTarget)
	}

	yMax := float64(args.YMax)
	yTarget := float64(args.YTarget)
	bounds := src.Bounds()

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()

			rf := float64(r) / 0xFFFF * args.WBGains[0]
			gf := float64(g) / 0xFFFF * (args.WBGains[1] + args.WBGains[2]) / 2
			bf := float64(b) / 0xFFFF * args.WBGains[3]

			// Luma in the 8-bit-equivalent range the targets use
			lum := (0.299*rf + 0.587*gf + 0.114*bf) * 255.0

			// Compress toward y_target: a saturating curve that passes
			// through 0, brightens midtones below the target, and rolls
			// highlights off against y_max
			gain := 1.0
			if lum > 0 {
				gain = (yMax + yTarget) / (lum + yMax)
			}

			dst.Set(x, y, color.RGBA64{
				R: clamp16(rf * gain),
				G: clamp16(gf * gain),
				B: clamp16(bf * gain),
				A: uint16(a),
			})
		}
	}

	return nil
}

func (cb CPUBackend)RunTable(dst draw.Image, src image.Image, args TableArgs) error {
	numBlocks := args.BlockFactor * args.BlockFactor
	if len(args.Table) != args.BinCount*numBlocks {
		return fmt.Errorf("curve table has %d entries, want %d x %d", len(args.Table), args.BinCount, numBlocks)
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	bf := args.BlockFactor
	maxLevel := float64(args.BinCount - 1)

	curveAt := func(block, level int) float64 {
		return float64(args.Table[block*args.BinCount+level])
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := src.At(x, y).RGBA()
			rf := float64(r) / 0xFFFF
			gf := float64(g) / 0xFFFF
			bfl := float64(b) / 0xFFFF

			lum := 0.299*rf + 0.587*gf + 0.114*bfl
			level := int(lum * maxLevel)
			if level > args.BinCount-1 {
				level = args.BinCount - 1
			}

			// Bilinear blend between the four nearest block curves, so
			// tile boundaries don't show as seams
			fx := (float64(x-bounds.Min.X)+0.5)/float64(w)*float64(bf) - 0.5
			fy := (float64(y-bounds.Min.Y)+0.5)/float64(h)*float64(bf) - 0.5
			c0 := int(math.Floor(fx))
			r0 := int(math.Floor(fy))
			wx := fx - float64(c0)
			wy := fy - float64(r0)

			v := 0.0
			for _, corner := range [4][3]float64{
				{0, 0, (1 - wx) * (1 - wy)},
				{1, 0, wx * (1 - wy)},
				{0, 1, (1 - wx) * wy},
				{1, 1, wx * wy},
			} {
				col := clampInt(c0+int(corner[0]), 0, bf-1)
				row := clampInt(r0+int(corner[1]), 0, bf-1)
				v += curveAt(row*bf+col, level) * corner[2]
			}

			// The curve value is the normalized output luminance; scale
			// the channels to move input luma onto it
			gain := 0.0
			if lum > 0 {
				gain = v / lum
			}

			dst.Set(x, y, color.RGBA64{
				R: clamp16(rf * gain),
				G: clamp16(gf * gain),
				B: clamp16(bfl * gain),
				A: uint16(a),
			})
		}
	}

	return nil
}

func clamp16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1.0 {
		return 0xFFFF
	}
	return uint16(v * 0xFFFF)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
