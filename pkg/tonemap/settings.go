package tonemap

import(
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v2"

	"github.com/abworrall/camtone/pkg/stats"
)

/* Example config file ...

mode: block
blockfactor: 4
bitdepth: 10
statswidth: 64
statsheight: 64
clampsamples: false
plotfilename: curves.png

*/

// Settings configures a tonemap run. Zero values are filled in by
// Finalize, so a partial YAML file is fine.
type Settings struct {
	Mode         string // "global" or "block"
	BlockFactor  int
	BitDepth     int
	StatsWidth   int
	StatsHeight  int
	ClampSamples bool
	PlotFilename string

	// Derived in Finalize
	Policy stats.SamplePolicy `yaml:"-"`
}

func DefaultSettings() Settings {
	return Settings{
		Mode:        "block",
		BlockFactor: 4,
		BitDepth:    10,
		StatsWidth:  64,
		StatsHeight: 64,
	}
}

func LoadSettings(filename string) (Settings, error) {
	s := DefaultSettings()

	if contents, err := ioutil.ReadFile(filename); err != nil {
		return s, fmt.Errorf("read '%s': %v", filename, err)
	} else if err := yaml.Unmarshal(contents, &s); err != nil {
		return s, fmt.Errorf("parse '%s': %v", filename, err)
	}

	return s, s.Finalize()
}

// Finalize does sanity checks and other post-processing
func (s *Settings)Finalize() error {
	if s.Mode == "" {
		s.Mode = "block"
	}
	switch s.Mode {
	case "global", "block":
	default:
		return fmt.Errorf("no tonemap mode named '%s'", s.Mode)
	}

	if s.BlockFactor <= 0 {
		s.BlockFactor = 4
	}
	if s.BitDepth < 8 || s.BitDepth > 16 {
		return fmt.Errorf("bit depth %d out of range [8,16]", s.BitDepth)
	}
	if s.StatsWidth < s.BlockFactor || s.StatsHeight < s.BlockFactor {
		return fmt.Errorf("stats grid %dx%d smaller than block grid %dx%d",
			s.StatsWidth, s.StatsHeight, s.BlockFactor, s.BlockFactor)
	}

	s.Policy = stats.RejectOutOfRange
	if s.ClampSamples {
		s.Policy = stats.ClampOutOfRange
	}

	return nil
}
