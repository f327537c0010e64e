package main

import(
	"flag"
	"image"
	"log"
	"os"

	"github.com/abworrall/camtone/pkg/curveplot"
	"github.com/abworrall/camtone/pkg/dispatch"
	"github.com/abworrall/camtone/pkg/stats"
	"github.com/abworrall/camtone/pkg/tonemap"
)

var(
	Log *log.Logger

	fConfigFilename string
	fOutputFilename string
	fMode string
	fBlockFactor int
	fBitDepth int
	fStatsWidth int
	fStatsHeight int
	fClampSamples bool
	fPlotFilename string
)

func init() {
	flag.StringVar(&fConfigFilename, "config", "", "YAML settings file (flags override it)")
	flag.StringVar(&fOutputFilename, "o", "out.png", "name of output image file")
	flag.StringVar(&fMode, "mode", "", "tonemap mode: global, or block")
	flag.IntVar(&fBlockFactor, "blocks", 0, "block grid factor (NxN blocks)")
	flag.IntVar(&fBitDepth, "bitdepth", 0, "statistics bit depth (bins = 2^depth)")
	flag.IntVar(&fStatsWidth, "statswidth", 0, "statistics grid width, in cells")
	flag.IntVar(&fStatsHeight, "statsheight", 0, "statistics grid height, in cells")
	flag.BoolVar(&fClampSamples, "clamp", false, "clamp out-of-range luma samples instead of rejecting the frame")
	flag.StringVar(&fPlotFilename, "plot", "", "also render the block curves to this PNG")
	flag.Parse()

	Log = log.New(os.Stdout, "", log.Ldate|log.Ltime)
	log.Printf("Starting\n")
}

func main() {
	s := tonemap.DefaultSettings()
	if fConfigFilename != "" {
		var err error
		if s, err = tonemap.LoadSettings(fConfigFilename); err != nil {
			Log.Fatal(err)
		}
		log.Printf("Loaded base settings from %s\n", fConfigFilename)
	}

	// Override the config file with command line args, if relevant
	if fMode != "" { s.Mode = fMode }
	if fBlockFactor > 0 { s.BlockFactor = fBlockFactor }
	if fBitDepth > 0 { s.BitDepth = fBitDepth }
	if fStatsWidth > 0 { s.StatsWidth = fStatsWidth }
	if fStatsHeight > 0 { s.StatsHeight = fStatsHeight }
	if fPlotFilename != "" { s.PlotFilename = fPlotFilename }
	if fClampSamples { s.ClampSamples = true }

	if err := s.Finalize(); err != nil {
		Log.Fatal(err)
	}

	if flag.NArg() != 1 {
		Log.Fatal("usage: camtone [flags] inputimage")
	}

	img, capture, err := stats.LoadImage(flag.Arg(0))
	if err != nil {
		Log.Fatal(err)
	}
	if capture.ISO > 0 {
		log.Printf("Capture: %s\n", capture)
	}

	grid := stats.GridFromImage(img, s.StatsWidth, s.StatsHeight, s.BitDepth)
	log.Printf("Built %s\n", grid)
	log.Printf("Luma spread:-\n%s\n", grid.LumaSpread())

	bounds := img.Bounds()
	out := image.NewRGBA64(bounds)
	backend := dispatch.CPUBackend{}

	switch s.Mode {

	case "global":
		hist, err := grid.GlobalHistogram(s.Policy)
		if err != nil {
			Log.Fatal(err)
		}
		target, err := tonemap.EstimateGlobalTarget(hist, grid.Width*grid.Height, s.BitDepth)
		if err != nil {
			Log.Fatal(err)
		}
		log.Printf("Global %s\n", target)

		args := dispatch.ScalarArgs{
			YMax:        float32(target.YMax),
			YTarget:     float32(target.YTarget),
			ImageHeight: bounds.Dy(),
			WBGains:     [4]float64{1, 1, 1, 1},
			Work:        dispatch.ImageWorkSize(bounds.Dx(), bounds.Dy()),
		}
		if err := backend.RunGlobal(out, img, args); err != nil {
			Log.Fatal(err)
		}

	case "block":
		bt := tonemap.NewBlockTonemapper(s)
		table, err := bt.BuildTable(grid)
		if err != nil {
			Log.Fatal(err)
		}
		log.Printf("Built %s\n", table.Summary())
		log.Printf("Timing: %s\n", bt.TimingSummary())

		if s.PlotFilename != "" {
			if err := curveplot.Render(table, s.PlotFilename); err != nil {
				Log.Fatal(err)
			}
			log.Printf("Curve plot written '%s'\n", s.PlotFilename)
		}

		args := dispatch.TableArgs{
			Table:       table.Raw(),
			BinCount:    table.BinCount(),
			BlockFactor: s.BlockFactor,
			ImageWidth:  bounds.Dx(),
			ImageHeight: bounds.Dy(),
			Work:        dispatch.ImageWorkSize(bounds.Dx(), bounds.Dy()),
		}
		if err := backend.RunTable(out, img, args); err != nil {
			Log.Fatal(err)
		}
	}

	if err := stats.WritePNG(out, fOutputFilename); err != nil {
		Log.Fatal(err)
	}
	log.Printf("Tonemapped output written '%s'\n", fOutputFilename)
}
