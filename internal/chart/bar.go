// Package chart draws the category distribution.
package chart

import (
	"errors"
	"fmt"
	"io"

	"customer-insights/internal/model"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoData = errors.New("chart: no categories to plot")

var barColor = drawing.ColorFromHex("3B82F6")

type Options struct {
	Title  string
	Width  int
	Height int
}

func (o Options) size(bars int) (int, int) {
	w, h := o.Width, o.Height
	if w <= 0 {
		w = max(640, 90*bars+120)
	}
	if h <= 0 {
		h = 400
	}
	return w, h
}

// RenderBar writes an SVG bar chart of dist, one bar per category in the
// order given.
func RenderBar(w io.Writer, dist []model.CategoryCount, opts Options) error {
	if len(dist) == 0 {
		return ErrNoData
	}

	bars := make([]gochart.Value, 0, len(dist))
	top := 0
	for _, c := range dist {
		top = max(top, c.Count)
		bars = append(bars, gochart.Value{
			Label: c.Category,
			Value: float64(c.Count),
			Style: gochart.Style{FillColor: barColor, StrokeColor: barColor, StrokeWidth: 1},
		})
	}

	width, height := opts.size(len(dist))
	ch := gochart.BarChart{
		Title:      opts.Title,
		Width:      width,
		Height:     height,
		BarWidth:   30,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      gochart.Style{FontSize: 10},
		YAxis: gochart.YAxis{
			Range: &gochart.ContinuousRange{Min: 0, Max: float64(axisMax(top))},
			Ticks: countTicks(axisMax(top)),
		},
		Bars: bars,
	}
	if err := ch.Render(gochart.SVG, w); err != nil {
		return fmt.Errorf("render bar chart: %w", err)
	}
	return nil
}

// axisMax rounds the tallest bar up so integer ticks land on the axis.
func axisMax(top int) int {
	if top < 5 {
		return max(top, 1)
	}
	step := tickStep(top)
	return (top + step - 1) / step * step
}

// tickStep picks a 1-2-5 step giving at most ten intervals.
func tickStep(top int) int {
	for base := 1; ; base *= 10 {
		for _, m := range []int{1, 2, 5} {
			if top/(base*m) <= 10 {
				return base * m
			}
		}
	}
}

// countTicks labels the y axis with whole numbers only.
func countTicks(top int) []gochart.Tick {
	step := tickStep(top)
	ticks := make([]gochart.Tick, 0, top/step+1)
	for v := 0; v <= top; v += step {
		ticks = append(ticks, gochart.Tick{Value: float64(v), Label: fmt.Sprint(v)})
	}
	return ticks
}
