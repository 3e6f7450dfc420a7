package imgutil

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Read image data from input, detect it's format (png / jpg (jpeg) / gif / bmp, etc),
// and convert to target format. Write converted image to output.
// ext : image format extension, with or without leading dot.
func ConvertFormat(input io.Reader, output io.Writer, ext string) error {
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%s: %w", ext, err)
	}
	img, err := imaging.Decode(input)
	if err != nil {
		return err
	}
	return imaging.Encode(output, img, format)
}

// Hex parses "#RRGGBB" or "#RRGGBBAA" into a color. Invalid input yields opaque black.
func Hex(s string) color.NRGBA {
	c := color.NRGBA{A: 0xff}
	switch len(s) {
	case 7:
		fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	}
	return c
}

// Fill fills the whole dst with col.
func Fill(dst draw.Image, col color.Color) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(col), image.Point{}, draw.Src)
}

// FillRoundedRect draws a rectangle with corner radius r over dst.
func FillRoundedRect(dst draw.Image, rect image.Rectangle, r int, col color.Color) {
	if rect.Empty() {
		return
	}
	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	roundedPath(z, 0, 0, float32(rect.Dx()), float32(rect.Dy()), float32(r), false)
	z.Draw(dst, rect, image.NewUniform(col), image.Point{})
}

// StrokeRoundedRect draws the outline (width px wide) of a rounded rectangle over dst.
func StrokeRoundedRect(dst draw.Image, rect image.Rectangle, r, width int, col color.Color) {
	if rect.Empty() {
		return
	}
	z := vector.NewRasterizer(rect.Dx(), rect.Dy())
	w, h, fr, fw := float32(rect.Dx()), float32(rect.Dy()), float32(r), float32(width)
	roundedPath(z, 0, 0, w, h, fr, false)
	// opposite winding cancels the inner area
	roundedPath(z, fw, fw, w-2*fw, h-2*fw, max(fr-fw, 0), true)
	z.Draw(dst, rect, image.NewUniform(col), image.Point{})
}

func roundedPath(z *vector.Rasterizer, x, y, w, h, r float32, reverse bool) {
	r = min(r, w/2, h/2)
	if !reverse {
		z.MoveTo(x+r, y)
		z.LineTo(x+w-r, y)
		z.QuadTo(x+w, y, x+w, y+r)
		z.LineTo(x+w, y+h-r)
		z.QuadTo(x+w, y+h, x+w-r, y+h)
		z.LineTo(x+r, y+h)
		z.QuadTo(x, y+h, x, y+h-r)
		z.LineTo(x, y+r)
		z.QuadTo(x, y, x+r, y)
	} else {
		z.MoveTo(x+r, y)
		z.QuadTo(x, y, x, y+r)
		z.LineTo(x, y+h-r)
		z.QuadTo(x, y+h, x+r, y+h)
		z.LineTo(x+w-r, y+h)
		z.QuadTo(x+w, y+h, x+w, y+h-r)
		z.LineTo(x+w, y+r)
		z.QuadTo(x+w, y, x+w-r, y)
	}
	z.ClosePath()
}

var face = basicfont.Face7x13

// TextWidth returns the pixel width of text drawn with DrawText at scale.
func TextWidth(text string, scale int) int {
	return font.MeasureString(face, text).Ceil() * max(scale, 1)
}

// TextHeight returns the line height of DrawText at scale.
func TextHeight(scale int) int {
	return face.Metrics().Height.Ceil() * max(scale, 1)
}

// DrawText draws a single line of text with its top-left corner at (x, y).
// The built-in bitmap face is enlarged by an integer scale, keeping hard pixel edges.
func DrawText(dst draw.Image, text string, x, y, scale int, col color.Color) {
	w := font.MeasureString(face, text).Ceil()
	if w == 0 {
		return
	}
	src := image.NewNRGBA(image.Rect(0, 0, w, face.Metrics().Height.Ceil()))
	d := font.Drawer{
		Dst:  src,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(0, face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(text)
	var img image.Image = src
	if scale > 1 {
		img = imaging.Resize(src, src.Bounds().Dx()*scale, src.Bounds().Dy()*scale, imaging.NearestNeighbor)
	}
	draw.Draw(dst, img.Bounds().Add(image.Pt(x, y)), img, image.Point{}, draw.Over)
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}
