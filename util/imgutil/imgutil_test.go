package imgutil

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
)

func TestHex(t *testing.T) {
	tests := map[string]color.NRGBA{
		"#0B1220":   {0x0b, 0x12, 0x20, 0xff},
		"#FFFFFF26": {0xff, 0xff, 0xff, 0x26},
		"bogus":     {0, 0, 0, 0xff},
	}
	for in, want := range tests {
		if got := Hex(in); got != want {
			t.Errorf("Hex(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFillRoundedRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	Fill(img, color.Black)
	FillRoundedRect(img, image.Rect(10, 10, 90, 90), 20, color.White)
	if got := img.RGBAAt(50, 50); got != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("center = %v, want white", got)
	}
	if got := img.RGBAAt(11, 11); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("rounded corner = %v, want untouched black", got)
	}
	if got := img.RGBAAt(5, 50); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("outside = %v, want black", got)
	}
}

func TestStrokeRoundedRect(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	Fill(img, color.Black)
	StrokeRoundedRect(img, image.Rect(0, 0, 100, 100), 10, 3, color.White)
	if got := img.RGBAAt(50, 1); got.R != 255 {
		t.Errorf("border = %v, want white", got)
	}
	if got := img.RGBAAt(50, 50); got != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("inside = %v, want black", got)
	}
}

func TestDrawText(t *testing.T) {
	if w := TextWidth("Scene 1", 2); w != 7*7*2 {
		t.Errorf("TextWidth = %d, want %d", w, 7*7*2)
	}
	img := image.NewRGBA(image.Rect(0, 0, 200, 50))
	Fill(img, color.Black)
	DrawText(img, "HI", 10, 10, 2, color.White)
	lit := 0
	for y := 10; y < 10+TextHeight(2); y++ {
		for x := 10; x < 10+TextWidth("HI", 2); x++ {
			if img.RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Errorf("no text pixels drawn")
	}
}

func TestConvertFormat(t *testing.T) {
	var src bytes.Buffer
	if err := EncodePNG(&src, image.NewRGBA(image.Rect(0, 0, 4, 3))); err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := ConvertFormat(&src, &out, ".jpg"); err != nil {
		t.Fatalf("ConvertFormat: %v", err)
	}
	img, err := imaging.Decode(&out)
	if err != nil || img.Bounds().Dx() != 4 || img.Bounds().Dy() != 3 {
		t.Errorf("decoded %v, err %v", img.Bounds(), err)
	}
	if err := ConvertFormat(&out, &bytes.Buffer{}, "nope"); err == nil {
		t.Errorf("unknown format: expected error")
	}
}
