package viz

import (
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellW = 8
	cellH = 16
)

// Recorder rasterizes canvas frames for a GIF, one dot per 4x4 block.
type Recorder struct {
	w, h   int
	frames []*image.Paletted
}

func NewRecorder(cols, rows int) *Recorder {
	return &Recorder{w: cols * cellW, h: rows * cellH}
}

func (r *Recorder) Len() int { return len(r.frames) }

func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, r.w, r.h), color.Palette{color.Black, color.White})
	dotW, dotH := cellW/2, cellH/4
	for y := 0; y < c.DotHeight(); y++ {
		for x := 0; x < c.DotWidth(); x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the captured frames as a looping GIF. Nothing is written when
// no frame was captured.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}
