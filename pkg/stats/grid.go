package stats

import(
	"fmt"
	"image"
	"math"

	"github.com/mdouchement/hdr"
	"github.com/skypies/util/histogram"
	xdraw "golang.org/x/image/draw"
)

// A Grid is the per-frame statistics the collection stage hands us: a small
// rectangular grid of cells, each holding the quantized average luminance of
// the pixels it covers. Values live in [0, 1<<BitDepth).
type Grid struct {
	Width    int
	Height   int
	BitDepth int
	AvgY     []int // row-major, Width*Height cells
}

func NewGrid(w, h, bitDepth int) *Grid {
	return &Grid{
		Width:    w,
		Height:   h,
		BitDepth: bitDepth,
		AvgY:     make([]int, w*h),
	}
}

func (g *Grid)BinCount() int        { return 1 << g.BitDepth }
func (g *Grid)At(x, y int) int      { return g.AvgY[y*g.Width + x] }
func (g *Grid)Set(x, y, v int)      { g.AvgY[y*g.Width + x] = v }

func (g *Grid)String() string {
	return fmt.Sprintf("statsgrid[%dx%d, %d-bit]", g.Width, g.Height, g.BitDepth)
}

// GridFromImage builds a statistics grid by downsampling a full-resolution
// frame to w x h cells and quantizing each cell's luminance to bitDepth
// bits. HDR sources keep their full range - we read the XYZ Y channel and
// normalize by the brightest cell, so a sunlit frame doesn't clip to the
// top bin the way a naive 8-bit read would.
func GridFromImage(img image.Image, w, h, bitDepth int) *Grid {
	g := NewGrid(w, h, bitDepth)

	if hdrImg, ok := img.(hdr.Image); ok {
		g.fillFromHDR(hdrImg)
		return g
	}

	small := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	shift := 16 - bitDepth // At() returns 16-bit channels
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, gr, b, _ := small.At(x, y).RGBA()
			lum := 0.299*float64(r) + 0.587*float64(gr) + 0.114*float64(b)
			level := int(lum)
			if shift > 0 {
				level >>= shift
			} else if shift < 0 {
				level <<= -shift
			}
			if level >= g.BinCount() {
				level = g.BinCount() - 1
			}
			g.Set(x, y, level)
		}
	}

	return g
}

func (g *Grid)fillFromHDR(img hdr.Image) {
	bounds := img.Bounds()
	cellW := float64(bounds.Dx()) / float64(g.Width)
	cellH := float64(bounds.Dy()) / float64(g.Height)

	lum := make([]float64, g.Width*g.Height)
	maxLum := 0.0

	for cy := 0; cy < g.Height; cy++ {
		for cx := 0; cx < g.Width; cx++ {
			x0 := bounds.Min.X + int(float64(cx)*cellW)
			y0 := bounds.Min.Y + int(float64(cy)*cellH)
			x1 := bounds.Min.X + int(float64(cx+1)*cellW)
			y1 := bounds.Min.Y + int(float64(cy+1)*cellH)
			if x1 <= x0 { x1 = x0 + 1 }
			if y1 <= y0 { y1 = y0 + 1 }

			sum, n := 0.0, 0
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					_, lumY, _, _ := img.HDRAt(x, y).HDRXYZA()
					sum += lumY
					n++
				}
			}
			l := sum / float64(n)
			lum[cy*g.Width+cx] = l
			if l > maxLum { maxLum = l }
		}
	}

	if maxLum <= 0.0 { maxLum = 1.0 }
	for i, l := range lum {
		g.AvgY[i] = int(math.Round(l / maxLum * float64(g.BinCount()-1)))
	}
}

// LumaSpread summarizes the grid's luminance distribution, for logging.
func (g *Grid)LumaSpread() histogram.Histogram {
	h := histogram.Histogram{NumBuckets: 64, ValMin: 0, ValMax: histogram.ScalarVal(g.BinCount())}
	for _, v := range g.AvgY {
		h.Add(histogram.ScalarVal(v))
	}
	return h
}
