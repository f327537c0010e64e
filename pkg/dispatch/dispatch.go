// Package dispatch is the contract between the curve computation and the
// compute backend that uploads buffers and runs the remap kernels. The
// real backend is a GPU command queue elsewhere; CPUBackend here is the
// reference consumer, used by the CLI and the tests.
package dispatch

import(
	"image"
	"image/draw"
)

// WorkSize is the kernel dispatch geometry: global extent derived from
// the output image, work groups fixed at an 8x8 tile, each work item
// covering a 4-row strip.
type WorkSize struct {
	Dim    int
	Global [2]int
	Local  [2]int
}

func ImageWorkSize(w, h int) WorkSize {
	return WorkSize{
		Dim:    2,
		Global: [2]int{w, h / 4},
		Local:  [2]int{8, 8},
	}
}

// ScalarArgs is the global-path argument block: two tone-target uniforms
// (already rescaled to the 8-bit-equivalent range), image height, and the
// white-balance gains the kernel folds in while it has the pixels.
type ScalarArgs struct {
	YMax        float32
	YTarget     float32
	ImageHeight int
	WBGains     [4]float64 // r, gr, gb, b; 1.0 = no correction
	Work        WorkSize
}

// TableArgs is the block-path argument block: the flat curve buffer
// (bin_count x num_blocks floats, borrowed only for this dispatch) plus
// the geometry the kernel needs to find a pixel's block.
type TableArgs struct {
	Table       []float32
	BinCount    int
	BlockFactor int
	ImageWidth  int
	ImageHeight int
	Work        WorkSize
}

// A Backend runs the remap kernels. Implementations own all further
// synchronization; nothing here suspends.
type Backend interface {
	RunGlobal(dst draw.Image, src image.Image, args ScalarArgs) error
	RunTable(dst draw.Image, src image.Image, args TableArgs) error
}
