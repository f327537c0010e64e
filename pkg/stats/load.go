package stats

import(
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/rwcarlsen/goexif/exif"

	_ "image/jpeg"
	_ "github.com/mdouchement/hdr/codec/rgbe"
	_ "golang.org/x/image/tiff"
)

// CaptureInfo is what we could recover from the file's EXIF, for logging.
// The tonemapper itself only needs the statistics grid.
type CaptureInfo struct {
	ISO         int64
	ApertureX10 int64
}

func (ci CaptureInfo)String() string {
	return fmt.Sprintf("ISO %d, f/%.1f", ci.ISO, float64(ci.ApertureX10)/10.0)
}

// LoadImage reads a frame from disk (PNG, JPEG, TIFF, or Radiance .hdr).
// EXIF is best-effort: PNGs and synthetic frames won't have any, so a
// missing block just means a zero CaptureInfo.
func LoadImage(filename string) (image.Image, CaptureInfo, error) {
	ci := CaptureInfo{}

	reader, err := os.Open(filename)
	if err != nil {
		return nil, ci, fmt.Errorf("open+r '%s': %v", filename, err)
	}
	defer reader.Close()

	img, kind, err := image.Decode(reader)
	if err != nil {
		return nil, ci, fmt.Errorf("decode '%s': %v", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".tif", ".tiff":
		ci = readExif(filename)
	}

	log.Printf("Loaded '%s' (%s, %s)\n", filename, kind, img.Bounds())
	return img, ci, nil
}

func readExif(filename string) CaptureInfo {
	ci := CaptureInfo{}

	reader, err := os.Open(filename)
	if err != nil {
		return ci
	}
	defer reader.Close()

	ex, err := exif.Decode(reader)
	if err != nil {
		log.Printf("no EXIF in '%s': %v\n", filename, err)
		return ci
	}

	if tag, err := ex.Get(exif.ISOSpeedRatings); err == nil {
		if val, err := tag.Int64(0); err == nil {
			ci.ISO = val
		}
	}

	if tag, err := ex.Get(exif.FNumber); err == nil {
		if num, denom, err := tag.Rat2(0); err == nil && denom != 0 {
			ci.ApertureX10 = num * 10 / denom
		}
	}

	return ci
}

func WritePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}
