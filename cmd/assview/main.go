// Command assview is a small interactive viewer for the renderer: it
// drives a Renderer against a demo track built entirely from inline
// vector drawings, so it needs no font back end, and blits the resulting
// ImageFragment list onto an SDL2 window once per displayed frame.
//
// Controls: Left/Right scrub the timestamp, Space pauses/resumes
// automatic playback, Escape quits.
package main

import (
	"fmt"
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/go-ass/asscore"
	"github.com/go-ass/asscore/internal/color"
	"github.com/go-ass/asscore/internal/outline"
)

const (
	windowW, windowH = 640, 360
	bgR, bgG, bgB     = 16, 16, 24
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("assview: %v", err)
	}
}

func run() error {
	settings, err := asscore.NewRenderSettings(windowW, windowH)
	if err != nil {
		return fmt.Errorf("build render settings: %w", err)
	}

	renderer := asscore.New(settings, nil, nil)
	track := demoTrack()

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	window, err := sdl.CreateWindow("assview", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(windowW), int32(windowH), sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	renderCtx, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		renderCtx, err = sdl.CreateRenderer(window, -1, sdl.RENDERER_SOFTWARE)
		if err != nil {
			return fmt.Errorf("create renderer: %w", err)
		}
	}
	defer renderCtx.Destroy()

	texture, err := renderCtx.CreateTexture(uint32(sdl.PIXELFORMAT_RGBA32), sdl.TEXTUREACCESS_STREAMING,
		int32(windowW), int32(windowH))
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Destroy()

	canvas := make([]byte, windowW*windowH*4)

	var nowMS int64
	playing := true
	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Type != sdl.KEYDOWN {
					continue
				}
				switch e.Keysym.Sym {
				case sdl.K_ESCAPE:
					running = false
				case sdl.K_SPACE:
					playing = !playing
				case sdl.K_RIGHT:
					nowMS += 100
				case sdl.K_LEFT:
					nowMS -= 100
					if nowMS < 0 {
						nowMS = 0
					}
				}
			}
		}

		fragments, _ := renderer.RenderFrame(track, nowMS)
		paintFrame(canvas, fragments)

		if err := texture.Update(nil, canvas, windowW*4); err != nil {
			return fmt.Errorf("update texture: %w", err)
		}
		renderCtx.Clear()
		renderCtx.Copy(texture, nil, nil)
		renderCtx.Present()

		if playing {
			nowMS += 16
		}
		sdl.Delay(16)
	}
	return nil
}

// paintFrame clears canvas to the background color and composites every
// fragment onto it in list order (painter's algorithm): the fragment's
// 8-bit coverage blends its solid Color over whatever is already there.
func paintFrame(canvas []byte, frags []*asscore.ImageFragment) {
	for i := 0; i < len(canvas); i += 4 {
		canvas[i+0] = bgR
		canvas[i+1] = bgG
		canvas[i+2] = bgB
		canvas[i+3] = 255
	}
	for _, f := range frags {
		blitFragment(canvas, f)
	}
}

func blitFragment(canvas []byte, f *asscore.ImageFragment) {
	for y := 0; y < f.H; y++ {
		dy := f.DstY + y
		if dy < 0 || dy >= windowH {
			continue
		}
		row := f.Buffer[y*f.Stride : y*f.Stride+f.W]
		for x := 0; x < f.W; x++ {
			dx := f.DstX + x
			if dx < 0 || dx >= windowW {
				continue
			}
			cov := row[x]
			if cov == 0 {
				continue
			}
			off := (dy*windowW + dx) * 4
			blendPixel(canvas[off:off+4], f.Color, cov)
		}
	}
}

func blendPixel(px []byte, col color.RGBA8, cov byte) {
	px[0] = color.Lerp8(px[0], col.R, cov)
	px[1] = color.Lerp8(px[1], col.G, cov)
	px[2] = color.Lerp8(px[2], col.B, cov)
}

// demoTrack builds a two-event track exercising the drawing-glyph path,
// a karaoke sweep, and a Gaussian-blurred shadow, entirely without a
// font back end.
func demoTrack() *asscore.Track {
	star := "m 0 -100 l 31 -31 100 -31 45 24 76 95 -45 66 -14 95 -62 -45 -93 31 -19 -95 -31 -31 z"
	box := "m 0 0 l 200 0 200 80 0 80 z"

	starGlyph := &asscore.Glyph{
		Drawing:    star,
		DrawingPBO: 0,
		Pos:        outline.Point{X: 140 << 6, Y: 120 << 6},
		Style: asscore.GlyphStyle{
			FillColor:      color.NewRGBA8(255, 210, 40, 0),
			SecondaryColor: color.NewRGBA8(255, 255, 255, 0),
			OutlineColor:   color.NewRGBA8(20, 20, 20, 0),
			ShadowColor:    color.NewRGBA8(0, 0, 0, 96),
			BorderX:        2 << 6, BorderY: 2 << 6,
			ShadowX: 3 << 6, ShadowY: 3 << 6,
			ScaleX: 1 << 16, ScaleY: 1 << 16,
			Blur:        2,
			BorderStyle: 1,
			Karaoke:     asscore.KaraokeFill,
		},
	}

	boxGlyph := &asscore.Glyph{
		Drawing: box,
		Pos:     outline.Point{X: 220 << 6, Y: 240 << 6},
		Style: asscore.GlyphStyle{
			FillColor:      color.NewRGBA8(60, 140, 255, 0),
			SecondaryColor: color.NewRGBA8(255, 255, 255, 0),
			ShadowColor:    color.NewRGBA8(0, 0, 0, 128),
			ShadowX:        2 << 6, ShadowY: 2 << 6,
			ScaleX: 1 << 16, ScaleY: 1 << 16,
			BorderStyle: 3,
		},
	}

	return &asscore.Track{
		Events: []asscore.Event{
			{
				StartMS: 0, DurationMS: 4000, Layer: 0,
				Text:             asscore.TextLayout{Glyphs: []*asscore.Glyph{starGlyph}},
				DetectCollisions: true,
			},
			{
				StartMS: 0, DurationMS: 4000, Layer: 0,
				Text:             asscore.TextLayout{Glyphs: []*asscore.Glyph{boxGlyph}},
				DetectCollisions: true,
			},
		},
	}
}
