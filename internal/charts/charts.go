// Package charts renders PNG charts from the per-stage analysis results.
//
// Charts are derived from the same tabular data written to the CSV outputs;
// the renderer never reaches into the scan or store internals.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/randomizedcoder/go-pipeline-lag/internal/latency"
)

// stageColors assigns a stable color per well-known stage; unknown stages
// fall back to defaultColor.
var stageColors = map[string]color.RGBA{
	"Ingress": {R: 0x88, G: 0x84, B: 0xd8, A: 0xff},
	"StepA":   {R: 0x82, G: 0xca, B: 0x9d, A: 0xff},
	"StepB":   {R: 0xff, G: 0xc6, B: 0x58, A: 0xff},
	"StepC":   {R: 0x8d, G: 0xd1, B: 0xe1, A: 0xff},
	"StepD":   {R: 0xff, G: 0x80, B: 0x42, A: 0xff},
	"StepE":   {R: 0x00, G: 0x88, B: 0xfe, A: 0xff},
}

var defaultColor = color.RGBA{R: 0x82, G: 0xca, B: 0x9d, A: 0xff}

func stageColor(stage string) color.RGBA {
	if c, ok := stageColors[stage]; ok {
		return c
	}
	return defaultColor
}

// LatencyChart renders "<stage>_latency.png": latency in milliseconds over
// request enter time, with a dashed average line. Intervals must be sorted
// by enter time. Nothing is rendered for an empty interval set.
func LatencyChart(dir, stage string, intervals []latency.Interval) (string, error) {
	if len(intervals) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	xys := make(plotter.XYs, len(intervals))
	var sum float64
	for i, iv := range intervals {
		ms := float64(iv.Latency.Nanoseconds()) / 1e6
		xys[i].X = float64(iv.Enter.Unix())
		xys[i].Y = ms
		sum += ms
	}
	avg := sum / float64(len(intervals))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Request Latency Over Time", stage)
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Latency (ms)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04:05"}
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys)
	if err != nil {
		return "", err
	}
	line.Color = stageColor(stage)
	p.Add(line)

	avgLine := plotter.NewFunction(func(float64) float64 { return avg })
	avgLine.Color = color.RGBA{R: 0xff, A: 0xff}
	avgLine.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(avgLine)
	p.Legend.Add(fmt.Sprintf("avg %.2f ms", avg), avgLine)

	path := filepath.Join(dir, stage+"_latency.png")
	if err := p.Save(12*vg.Inch, 7*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

// ThroughputChart renders "throughput_comparison.png": one bar per stage.
func ThroughputChart(dir string, summaries []latency.StageSummary) (string, error) {
	return barChart(dir, "throughput_comparison.png",
		"Throughput Comparison by Stage", "Throughput (requests/second)",
		summaries, func(s latency.StageSummary) float64 { return s.ThroughputPerSec })
}

// AvgLatencyChart renders "avg_latency_comparison.png": one bar per stage.
func AvgLatencyChart(dir string, summaries []latency.StageSummary) (string, error) {
	return barChart(dir, "avg_latency_comparison.png",
		"Average Latency Comparison by Stage", "Average Latency (ms)",
		summaries, func(s latency.StageSummary) float64 { return s.AvgLatencyMs })
}

// barChart renders one bar per stage using value to pick the measure.
func barChart(dir, name, title, yLabel string, summaries []latency.StageSummary, value func(latency.StageSummary) float64) (string, error) {
	if len(summaries) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	names := make([]string, 0, len(summaries))
	// One single-value bar chart per stage so each keeps its own color.
	for i, s := range summaries {
		vals := make(plotter.Values, len(summaries))
		vals[i] = value(s)
		bars, err := plotter.NewBarChart(vals, vg.Points(40))
		if err != nil {
			return "", err
		}
		bars.Color = stageColor(s.Stage)
		bars.LineStyle.Width = 0
		p.Add(bars)
		names = append(names, s.Stage)
	}
	p.NominalX(names...)

	path := filepath.Join(dir, name)
	if err := p.Save(12*vg.Inch, 7*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}

// LatencyHistogram renders "<stage>_latency_hist.png": the latency
// distribution of one stage in 20 bins.
func LatencyHistogram(dir, stage string, intervals []latency.Interval) (string, error) {
	if len(intervals) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	vals := make(plotter.Values, len(intervals))
	for i, iv := range intervals {
		vals[i] = float64(iv.Latency.Nanoseconds()) / 1e6
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Latency Distribution", stage)
	p.X.Label.Text = "Latency (ms)"
	p.Y.Label.Text = "Frequency"
	p.Add(plotter.NewGrid())

	hist, err := plotter.NewHist(vals, 20)
	if err != nil {
		return "", err
	}
	hist.FillColor = stageColor(stage)
	p.Add(hist)

	path := filepath.Join(dir, stage+"_latency_hist.png")
	if err := p.Save(12*vg.Inch, 7*vg.Inch, path); err != nil {
		return "", err
	}
	return path, nil
}
