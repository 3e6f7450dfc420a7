package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/sagan/laras/constants"
	"github.com/sagan/laras/features/story"
	"github.com/sagan/laras/util/imgutil"
)

// Storyboard layout, in pixels.
const (
	STORYBOARD_WIDTH  = 1920
	STORYBOARD_HEIGHT = 1080
	storyboardCols    = 3
	storyboardPad     = 24
	storyboardGridTop = 140
	cellRadius        = 18
	badgeRadius       = 12
	badgeHeight       = 28
	minCellHeight     = 96
	titleMaxLines     = 2
	titleScale        = 4
	textScale         = 2
)

type Theme struct {
	Background color.NRGBA
	Text       color.NRGBA
	Cell       color.NRGBA
	Border     color.NRGBA
	Badge      color.NRGBA
}

var themes = map[string]Theme{
	constants.THEME_DARK: {
		Background: imgutil.Hex("#0B1220"),
		Text:       imgutil.Hex("#FFFFFF"),
		Cell:       imgutil.Hex("#FFFFFF0F"),
		Border:     imgutil.Hex("#FFFFFF33"),
		Badge:      imgutil.Hex("#FFFFFF26"),
	},
	constants.THEME_LIGHT: {
		Background: imgutil.Hex("#F5F7FB"),
		Text:       imgutil.Hex("#0B1220"),
		Cell:       imgutil.Hex("#0B12200A"),
		Border:     imgutil.Hex("#0B122033"),
		Badge:      imgutil.Hex("#0B12201E"),
	},
}

// ThemeOf returns the palette of a theme name ("dark" or "light"). Unknown names are dark.
func ThemeOf(name string) Theme {
	if theme, ok := themes[name]; ok {
		return theme
	}
	return themes[constants.THEME_DARK]
}

type StoryboardOptions struct {
	Width  int    // default STORYBOARD_WIDTH
	Height int    // default STORYBOARD_HEIGHT. Grows when cells would be shorter than minCellHeight
	Theme  string // "dark" (default) or "light"
	Title  string // default doc.Title, then "Storyboard"
	Aspect string // default doc.Global.Output.Aspect
}

// RenderStoryboard draws a grid storyboard of doc as PNG: a header with title, aspect
// and scene count, then one rounded cell per scene, row-major in 3 columns, with the scene
// index, the scene title wrapped to at most 2 lines and a duration badge.
func RenderStoryboard(w io.Writer, doc *story.Document, opts StoryboardOptions) error {
	img := DrawStoryboard(doc, opts)
	if err := imgutil.EncodePNG(w, img); err != nil {
		return fmt.Errorf("failed to encode storyboard: %w", err)
	}
	return nil
}

// Geometry of the storyboard grid.
type storyboardLayout struct {
	width, height int
	cellW, cellH  int
	rows          int
}

func (l storyboardLayout) cell(i int) image.Rectangle {
	c, r := i%storyboardCols, i/storyboardCols
	x := storyboardPad + c*(l.cellW+storyboardPad)
	y := storyboardGridTop + r*(l.cellH+storyboardPad)
	return image.Rect(x, y, x+l.cellW, y+l.cellH)
}

func layoutStoryboard(width, height, scenes int) storyboardLayout {
	l := storyboardLayout{width: width, height: height}
	l.cellW = (width - storyboardPad*(storyboardCols+1)) / storyboardCols
	l.rows = (scenes + storyboardCols - 1) / storyboardCols
	if l.rows == 0 {
		return l
	}
	l.cellH = (height - storyboardGridTop - storyboardPad*(l.rows+1)) / l.rows
	if l.cellH < minCellHeight {
		l.cellH = minCellHeight
		l.height = storyboardGridTop + l.rows*(minCellHeight+storyboardPad) + storyboardPad
		log.Debugf("storyboard: %d rows do not fit, height grows to %d", l.rows, l.height)
	}
	return l
}

// DrawStoryboard renders the storyboard image. See RenderStoryboard.
func DrawStoryboard(doc *story.Document, opts StoryboardOptions) *image.RGBA {
	if opts.Width <= 0 {
		opts.Width = STORYBOARD_WIDTH
	}
	if opts.Height <= 0 {
		opts.Height = STORYBOARD_HEIGHT
	}
	title := firstNonEmpty(opts.Title, doc.Title, "Storyboard")
	aspect := firstNonEmpty(opts.Aspect, doc.Global.Output.Aspect, "-")
	theme := ThemeOf(opts.Theme)
	layout := layoutStoryboard(opts.Width, opts.Height, len(doc.Scenes))

	img := image.NewRGBA(image.Rect(0, 0, layout.width, layout.height))
	imgutil.Fill(img, theme.Background)
	measureTitle := func(s string) int { return imgutil.TextWidth(s, titleScale) }
	header := ellipsize(title, layout.width-80, measureTitle)
	imgutil.DrawText(img, header, 40, 28, titleScale, theme.Text)
	imgutil.DrawText(img, fmt.Sprintf("Aspect %s - Scenes: %d", aspect, len(doc.Scenes)),
		40, 28+imgutil.TextHeight(titleScale)+12, textScale, theme.Text)

	measure := func(s string) int { return imgutil.TextWidth(s, textScale) }
	lineHeight := imgutil.TextHeight(textScale) + 4
	for i := range doc.Scenes {
		scene := &doc.Scenes[i]
		rect := layout.cell(i)
		imgutil.FillRoundedRect(img, rect, cellRadius, theme.Cell)
		imgutil.StrokeRoundedRect(img, rect, cellRadius, 1, theme.Border)

		index := scene.Index
		if index == 0 {
			index = i + 1
		}
		imgutil.DrawText(img, fmt.Sprintf("Scene %d", index), rect.Min.X+16, rect.Min.Y+16, textScale, theme.Text)

		badge := fmt.Sprintf("%ds", scene.Seconds)
		badgeW := measure(badge) + 24
		badgeRect := image.Rect(rect.Max.X-badgeW-16, rect.Min.Y+12, rect.Max.X-16, rect.Min.Y+12+badgeHeight)
		imgutil.FillRoundedRect(img, badgeRect, badgeRadius, theme.Badge)
		imgutil.DrawText(img, badge, badgeRect.Min.X+12, badgeRect.Min.Y+(badgeHeight-imgutil.TextHeight(textScale))/2,
			textScale, theme.Text)

		y := rect.Min.Y + 52
		for _, line := range WrapText(scene.Name, rect.Dx()-32, titleMaxLines, measure) {
			if y+lineHeight > rect.Max.Y {
				break
			}
			imgutil.DrawText(img, line, rect.Min.X+16, y, textScale, theme.Text)
			y += lineHeight
		}
	}
	return img
}

// WrapText word-wraps text into lines not wider than maxWidth (as measured by measure).
// If the text needs more than maxLines lines, the last kept line ends with "...".
// Words wider than a line are cut.
func WrapText(text string, maxWidth, maxLines int, measure func(string) int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if measure(candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	truncated := maxLines > 0 && len(lines) > maxLines
	if truncated {
		lines = lines[:maxLines]
	}
	for i, l := range lines {
		if measure(l) > maxWidth || (truncated && i == len(lines)-1) {
			lines[i] = ellipsize(l, maxWidth, measure)
			if truncated && i == len(lines)-1 && !strings.HasSuffix(lines[i], ellipsis) {
				lines[i] = ellipsize(l+ellipsis, maxWidth, measure)
			}
		}
	}
	return lines
}

const ellipsis = "..."

// ellipsize cuts s so that it fits in maxWidth, ending with "..." when cut.
func ellipsize(s string, maxWidth int, measure func(string) int) string {
	if measure(s) <= maxWidth {
		return s
	}
	runes := []rune(strings.TrimSuffix(s, ellipsis))
	for len(runes) > 0 && measure(string(runes)+ellipsis) > maxWidth {
		runes = runes[:len(runes)-1]
	}
	return strings.TrimRight(string(runes), " ") + ellipsis
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
