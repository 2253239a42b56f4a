//go:build assdebug

package bitmap

import (
	"fmt"
	"image"
	"image/color"
	"os"

	"golang.org/x/image/bmp"
)

// Dump writes bm's alpha coverage as a grayscale BMP to path, for visual
// inspection while debugging the rasterizer, blur, or assembler stages.
// Only built with -tags assdebug; never called from production code paths.
func (bm *Bitmap) Dump(path string) error {
	img := image.NewGray(image.Rect(0, 0, bm.W, bm.H))
	for y := 0; y < bm.H; y++ {
		row := bm.Row(y)
		for x, v := range row {
			img.SetGray(x, y, color.Gray{Y: v})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("bitmap: dump %s: %w", path, err)
	}
	defer f.Close()
	if err := bmp.Encode(f, img); err != nil {
		return fmt.Errorf("bitmap: encode %s: %w", path, err)
	}
	return nil
}
