// Package curveplot renders a curve table as an annotated PNG, one colored
// trace per block. Debug tooling only; nothing in the frame path calls it.
package curveplot

import(
	"fmt"

	"github.com/fogleman/gg"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/abworrall/camtone/pkg/tonemap"
)

const (
	plotSize   = 520
	plotMargin = 30
)

func Render(t *tonemap.CurveTable, filename string) error {
	dc := gg.NewContext(plotSize, plotSize)
	dc.SetRGB(0.08, 0.08, 0.10)
	dc.Clear()

	inner := float64(plotSize - 2*plotMargin)

	// Axes, plus the identity diagonal for reference
	dc.SetRGB(0.4, 0.4, 0.4)
	dc.SetLineWidth(1)
	dc.DrawLine(plotMargin, plotSize-plotMargin, plotSize-plotMargin, plotSize-plotMargin)
	dc.DrawLine(plotMargin, plotMargin, plotMargin, plotSize-plotMargin)
	dc.Stroke()
	dc.SetRGBA(0.4, 0.4, 0.4, 0.5)
	dc.DrawLine(plotMargin, plotSize-plotMargin, plotSize-plotMargin, plotMargin)
	dc.Stroke()

	binCount := t.BinCount()
	step := binCount / int(inner)
	if step < 1 {
		step = 1
	}

	for b := 0; b < t.NumBlocks(); b++ {
		curve := t.Block(b)
		hue := 300.0 * float64(b) / float64(t.NumBlocks())
		c := colorful.Hsv(hue, 0.85, 0.95)
		dc.SetRGB(c.R, c.G, c.B)
		dc.SetLineWidth(1.5)

		for level := 0; level < binCount; level += step {
			px := plotMargin + inner*float64(level)/float64(binCount-1)
			py := float64(plotSize-plotMargin) - inner*float64(curve[level])
			if level == 0 {
				dc.MoveTo(px, py)
			} else {
				dc.LineTo(px, py)
			}
		}
		dc.Stroke()
	}

	dc.SetRGB(1, 1, 1)
	dc.DrawString(fmt.Sprintf("%d block tone curves, %d levels", t.NumBlocks(), binCount),
		plotMargin, plotMargin-10)

	return dc.SavePNG(filename)
}
