package raster

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

// ErrTooLarge indicates the rendered listing would exceed MaxPixelHeight.
var ErrTooLarge = errors.New("listing too large to rasterize")

// MaxPixelHeight caps the bitmap height to bound memory use.
var MaxPixelHeight = 1 << 16

// Defaults for TextOptions zero values.
const (
	DefaultFontSize = 14.0 // CSS pixels
	DefaultWidth    = 800  // CSS pixels
	DefaultPadding  = 16   // CSS pixels
	DefaultTheme    = "dracula"
	tabWidth        = 4
	lineSpacing     = 1.5
)

// TextOptions configures TextRasterizer.
type TextOptions struct {
	Theme       string  // chroma style name
	FontSize    float64 // CSS pixels at scale 1
	Width       int     // minimum bitmap width in CSS pixels at scale 1
	Padding     int     // CSS pixels at scale 1
	LineNumbers bool
}

func (o TextOptions) withDefaults() TextOptions {
	if o.Theme == "" {
		o.Theme = DefaultTheme
	}
	if o.FontSize <= 0 {
		o.FontSize = DefaultFontSize
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	return o
}

// TextRasterizer draws syntax-highlighted code with the Go Mono font.
// It is safe for concurrent use.
type TextRasterizer struct {
	opts TextOptions
	font *truetype.Font
}

// NewTextRasterizer parses the embedded Go Mono font.
func NewTextRasterizer(opts TextOptions) (*TextRasterizer, error) {
	f, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing mono font: %w", err)
	}
	return &TextRasterizer{opts: opts.withDefaults(), font: f}, nil
}

// Render tokenises code with the lexer for language and draws it at scale.
func (r *TextRasterizer) Render(code, language string, scale float64) (*Bitmap, error) {
	if scale <= 0 {
		scale = 1
	}
	lines, err := tokenLines(code, language)
	if err != nil {
		return nil, err
	}

	style := styles.Get(r.opts.Theme)
	face := truetype.NewFace(r.font, &truetype.Options{
		Size:    r.opts.FontSize,
		DPI:     72 * scale,
		Hinting: font.HintingFull,
	})
	defer face.Close()

	advance, ok := face.GlyphAdvance('M')
	if !ok {
		return nil, errors.New("mono font has no advance for 'M'")
	}
	charW := advance.Ceil()
	lineH := int(math.Ceil(r.opts.FontSize * scale * lineSpacing))
	ascent := face.Metrics().Ascent.Ceil()
	pad := int(math.Round(float64(r.opts.Padding) * scale))

	gutter := 0
	if r.opts.LineNumbers {
		gutter = (len(strconv.Itoa(len(lines))) + 2) * charW
	}

	cols := 0
	for _, line := range lines {
		cols = max(cols, lineColumns(line))
	}
	width := max(2*pad+gutter+cols*charW, int(math.Round(float64(r.opts.Width)*scale)))
	height := 2*pad + len(lines)*lineH
	if height > MaxPixelHeight {
		return nil, fmt.Errorf("%w: %d lines need %dpx (max %d)", ErrTooLarge, len(lines), height, MaxPixelHeight)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := style.Get(chroma.Background)
	draw.Draw(img, img.Bounds(), image.NewUniform(toRGBA(bg.Background, color.White)), image.Point{}, draw.Src)

	fg := toRGBA(bg.Colour, color.Black)
	numColour := toRGBA(style.Get(chroma.LineNumbers).Colour, fg)

	d := &font.Drawer{Dst: img, Face: face}
	for i, line := range lines {
		baseline := pad + i*lineH + ascent
		if r.opts.LineNumbers {
			num := strconv.Itoa(i + 1)
			d.Src = image.NewUniform(numColour)
			d.Dot = fixed.P(pad+gutter-(len(num)+1)*charW, baseline)
			d.DrawString(num)
		}

		d.Dot = fixed.P(pad+gutter, baseline)
		col := 0
		for _, tok := range line {
			entry := style.Get(tok.Type)
			d.Src = image.NewUniform(toRGBA(entry.Colour, fg))
			text := expandTabs(cleanToken(tok.Value), &col)
			d.DrawString(text)
		}
	}

	return NewBitmap(img, scale), nil
}

// tokenLines tokenises code and splits the stream into lines.
func tokenLines(code, language string) ([][]chroma.Token, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return nil, fmt.Errorf("tokenising %s source: %w", language, err)
	}
	lines := chroma.SplitTokensIntoLines(it.Tokens())
	if len(lines) == 0 {
		lines = [][]chroma.Token{{}}
	}
	return lines, nil
}

// lineColumns counts display columns with tabs expanded.
func lineColumns(line []chroma.Token) int {
	col := 0
	for _, tok := range line {
		expandTabs(cleanToken(tok.Value), &col)
	}
	return col
}

func cleanToken(s string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

// expandTabs replaces tabs with spaces up to the next tab stop and advances col.
func expandTabs(s string, col *int) string {
	if !strings.ContainsRune(s, '\t') {
		*col += len([]rune(s))
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - *col%tabWidth
			b.WriteString(strings.Repeat(" ", n))
			*col += n
			continue
		}
		b.WriteRune(r)
		*col++
	}
	return b.String()
}

func toRGBA(c chroma.Colour, fallback color.Color) color.Color {
	if !c.IsSet() {
		return fallback
	}
	return color.RGBA{R: c.Red(), G: c.Green(), B: c.Blue(), A: 0xff}
}
