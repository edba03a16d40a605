// Package render provides software rasterization for Trophy.
package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"golang.org/x/image/draw"
)

// WrapMode determines how a texture coordinate outside [0,1] resolves to a
// pixel coordinate (spec §4.6).
type WrapMode int

const (
	WrapBlank    WrapMode = iota // outside samples return magenta
	WrapClamp                    // saturate to [0,size-1]
	WrapPeriodic                 // |x| mod size
	WrapRepeat                   // mod, with a negative-coordinate wraparound
)

// FilterMode determines how a single mip level is sampled (spec §4.6).
type FilterMode int

const (
	FilterPoint   FilterMode = iota // floor(UV_px)
	FilterNearest                   // round(UV_px - 0.5)
	FilterLinear                    // bilinear blend of the 4 neighbors
)

// MipmapFilterMode determines how the LOD selects between mip levels.
type MipmapFilterMode int

const (
	MipPoint   MipmapFilterMode = iota // floor(LOD)
	MipNearest                         // round(LOD)
	MipLinear                          // lerp between floor(LOD) and ceil(LOD)
)

// blankColor is returned by WrapBlank sampling outside the texture.
var blankColor = Color{R: 255, G: 0, B: 255, A: 255}

// mipLevel is one image in a Texture's pyramid.
type mipLevel struct {
	width, height int
	pixels        []Color
}

// Texture holds a 2D image and its mipmap pyramid for texture mapping.
// mips[0] is the full-resolution base level; mips[i+1] halves each
// dimension (rounding up to at least 1) until both reach 1 (spec §3).
type Texture struct {
	mips []mipLevel
}

// NewTexture creates an empty base-level texture with the given
// dimensions and builds its mipmap pyramid.
func NewTexture(width, height int) *Texture {
	t := &Texture{mips: []mipLevel{{width: width, height: height, pixels: make([]Color, width*height)}}}
	t.buildMipmaps()
	return t
}

// Width and Height report the base mip level's dimensions.
func (t *Texture) Width() int  { return t.mips[0].width }
func (t *Texture) Height() int { return t.mips[0].height }

// LoadTexture loads a texture from an image file and builds its mipmaps.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture (with mipmaps) from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	tex := &Texture{mips: []mipLevel{{width: width, height: height, pixels: make([]Color, width*height)}}}
	for y := range height {
		for x := range width {
			c := img.At(bounds.Min.X+x, bounds.Min.Y+y)
			r, g, b, a := c.RGBA()
			tex.setBasePixel(x, y, Color{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})
		}
	}
	tex.buildMipmaps()
	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			cx, cy := x/checkSize, y/checkSize
			if (cx+cy)%2 == 0 {
				tex.setBasePixel(x, y, c1)
			} else {
				tex.setBasePixel(x, y, c2)
			}
		}
	}
	tex.buildMipmaps()
	return tex
}

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			t := float64(x) / float64(width-1)
			tex.setBasePixel(x, y, lerpColor(left, right, t))
		}
	}
	tex.buildMipmaps()
	return tex
}

func (t *Texture) setBasePixel(x, y int, c Color) {
	m := &t.mips[0]
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return
	}
	m.pixels[y*m.width+x] = c
}

// buildMipmaps (re)builds mips[1:] from the current base level, halving
// dimensions each level via golang.org/x/image/draw's Catmull-Rom (bicubic)
// resampler (spec §6 leaves the downsample filter unspecified).
func (t *Texture) buildMipmaps() {
	base := t.mips[0]
	t.mips = t.mips[:1]

	src := colorsToRGBA(base.width, base.height, base.pixels)
	w, h := base.width, base.height
	for w > 1 || h > 1 {
		nw, nh := max(1, w/2), max(1, h/2)
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
		t.mips = append(t.mips, mipLevel{width: nw, height: nh, pixels: rgbaToColors(dst)})
		src = dst
		w, h = nw, nh
	}
}

func colorsToRGBA(w, h int, pixels []Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, pixels[y*w+x])
		}
	}
	return img
}

func rgbaToColors(img *image.RGBA) []Color {
	b := img.Bounds()
	out := make([]Color, b.Dx()*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.RGBAAt(b.Min.X+x, b.Min.Y+y)
			out[y*b.Dx()+x] = Color{R: c.R, G: c.G, B: c.B, A: c.A}
		}
	}
	return out
}

// GetPixel returns the base-level pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	return t.getMipPixel(0, x, y)
}

// SetPixel sets a base-level pixel and rebuilds the mip pyramid.
func (t *Texture) SetPixel(x, y int, c Color) {
	t.setBasePixel(x, y, c)
	t.buildMipmaps()
}

func (t *Texture) getMipPixel(level, x, y int) Color {
	m := &t.mips[level]
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		return Color{}
	}
	return m.pixels[y*m.width+x]
}

// lerpColor linearly interpolates between two colors.
func lerpColor(a, b Color, t float64) Color {
	return Color{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: uint8(float64(a.A) + (float64(b.A)-float64(a.A))*t),
	}
}

// MultiplyColor multiplies a color by a scalar (for lighting).
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		R: uint8(math.Min(255, float64(c.R)*intensity)),
		G: uint8(math.Min(255, float64(c.G)*intensity)),
		B: uint8(math.Min(255, float64(c.B)*intensity)),
		A: c.A,
	}
}

// ModulateColor modulates one color by another (texture * vertex color).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}
