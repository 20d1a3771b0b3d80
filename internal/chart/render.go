package chart

import (
	"fmt"
	"image/png"
	"os"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Layout constants shared by measurement and drawing. Everything scales with
// the caller's resolution multiplier at render time.
const (
	titleBand  = 26
	axisBand   = 32
	marginPad  = 12
	tickLen    = 4
	legendSw   = 10 // legend swatch edge
	legendGap  = 6
	labelInset = 5 // depth-label offset from the axis origin
)

// Render rasterizes a chart description to a PNG at path. scale is the
// resolution multiplier; values <= 0 fall back to 1.
func Render(s *Spec, path string, scale float64) error {
	if scale <= 0 {
		scale = 1
	}

	face := basicfont.Face7x13

	// Measure text with a throwaway context so the real canvas can be
	// allocated at final size.
	probe := gg.NewContext(1, 1)
	probe.SetFontFace(face)

	maxCat := 0.0
	for _, c := range s.Categories {
		if w, _ := probe.MeasureString(c); w > maxCat {
			maxCat = w
		}
	}
	legendW := 0.0
	for _, sm := range s.Samples {
		if w, _ := probe.MeasureString(sm.Label); w > legendW {
			legendW = w
		}
	}
	if legendW > 0 {
		legendW += legendSw + legendGap + marginPad
	}

	left := maxCat + marginPad
	plotW := float64(s.Width)
	plotH := float64(len(s.Categories) * s.RowStep)
	if plotH == 0 {
		plotH = float64(s.RowStep)
	}
	width := left + plotW + marginPad + legendW
	height := titleBand + plotH + axisBand

	dc := gg.NewContext(int(width*scale+0.5), int(height*scale+0.5))
	dc.Scale(scale, scale)
	dc.SetFontFace(face)
	dc.SetHexColor("#ffffff")
	dc.Clear()

	drawTitle(dc, s, left, plotW)
	drawAxis(dc, s, left, plotW, plotH)
	drawCategories(dc, s, left)
	drawBars(dc, s, left, plotW)
	drawLabels(dc, s, left)
	drawLegend(dc, s, left+plotW+marginPad)

	return encodePNG(dc, path)
}

func drawTitle(dc *gg.Context, s *Spec, left, plotW float64) {
	if s.Title == "" {
		return
	}
	dc.SetHexColor("#000000")
	dc.DrawStringAnchored(s.Title, left+plotW/2, titleBand/2, 0.5, 0.5)
}

func drawAxis(dc *gg.Context, s *Spec, left, plotW, plotH float64) {
	top := float64(titleBand)
	bottom := top + plotH

	// Gridlines and tick labels at fifths of the fixed domain.
	for i := 0; i <= 5; i++ {
		frac := float64(i) / 5
		x := left + frac*plotW
		dc.SetHexColor("#dddddd")
		dc.SetLineWidth(1)
		dc.DrawLine(x, top, x, bottom)
		dc.Stroke()

		v := s.X.Min + frac*(s.X.Max-s.X.Min)
		dc.SetHexColor("#000000")
		dc.DrawLine(x, bottom, x, bottom+tickLen)
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("%.1f", v), x, bottom+tickLen+8, 0.5, 0.5)
	}

	dc.SetHexColor("#000000")
	dc.SetLineWidth(1)
	dc.DrawLine(left, bottom, left+plotW, bottom)
	dc.Stroke()
	dc.DrawLine(left, top, left, bottom)
	dc.Stroke()
	dc.DrawStringAnchored(s.X.Title, left+plotW/2, bottom+axisBand-8, 0.5, 0.5)
}

func drawCategories(dc *gg.Context, s *Spec, left float64) {
	dc.SetHexColor("#000000")
	for i, c := range s.Categories {
		y := float64(titleBand) + float64(i)*float64(s.RowStep) + float64(s.RowStep)/2
		dc.DrawStringAnchored(c, left-legendGap, y, 1, 0.5)
	}
}

func drawBars(dc *gg.Context, s *Spec, left, plotW float64) {
	catRow := make(map[string]int, len(s.Categories))
	for i, c := range s.Categories {
		catRow[c] = i
	}
	colorOf := make(map[string]string, len(s.Samples))
	offsetOf := make(map[string]int, len(s.Samples))
	for i, sm := range s.Samples {
		colorOf[sm.Label] = sm.Color
		offsetOf[sm.Label] = i
	}

	for _, b := range s.Bars {
		y := barTop(s, catRow[b.Category], offsetOf[b.Sample])

		frac := (b.Value - s.X.Min) / (s.X.Max - s.X.Min)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}

		if c, ok := colorOf[b.Sample]; ok {
			dc.SetHexColor(c)
		} else {
			dc.SetHexColor(barColor)
		}
		dc.DrawRectangle(left, y, frac*plotW, float64(s.BarSize))
		dc.Fill()
	}
}

func drawLabels(dc *gg.Context, s *Spec, left float64) {
	if len(s.Labels) == 0 {
		return
	}
	catRow := make(map[string]int, len(s.Categories))
	for i, c := range s.Categories {
		catRow[c] = i
	}
	offsetOf := make(map[string]int, len(s.Samples))
	for i, sm := range s.Samples {
		offsetOf[sm.Label] = i
	}

	dc.SetHexColor("#000000")
	for _, l := range s.Labels {
		y := barTop(s, catRow[l.Category], offsetOf[l.Sample]) + float64(s.BarSize)/2
		dc.DrawStringAnchored(l.Text, left+labelInset, y, 0, 0.5)
	}
}

// barTop computes the top edge of a bar mark: the category row, with the
// sample sub-bar block centered inside the row.
func barTop(s *Spec, row, offset int) float64 {
	rowTop := float64(titleBand) + float64(row)*float64(s.RowStep)
	group := s.BarSize * max(1, len(s.Samples))
	start := rowTop + (float64(s.RowStep)-float64(group))/2
	return start + float64(offset*s.BarSize)
}

func drawLegend(dc *gg.Context, s *Spec, x float64) {
	for i, sm := range s.Samples {
		y := float64(titleBand) + float64(i)*(legendSw+legendGap)
		dc.SetHexColor(sm.Color)
		dc.DrawRectangle(x, y, legendSw, legendSw)
		dc.Fill()
		dc.SetHexColor("#000000")
		dc.DrawStringAnchored(sm.Label, x+legendSw+legendGap, y+legendSw/2, 0, 0.5)
	}
}

func encodePNG(dc *gg.Context, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	defer f.Close()

	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(f, dc.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
