// Package plot renders run traces as self-contained HTML charts.
package plot

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/cwbudde/cuckoosearch/internal/store"
)

// ConvergenceChart builds a line chart of fitness over generations from a
// run trace. A single-restart trace gets a best and a mean fitness series;
// a multi-restart trace gets one best-fitness series per restart so the
// restarts can be compared.
func ConvergenceChart(title string, entries []store.TraceEntry) (*charts.Line, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("trace is empty")
	}

	byRestart := make(map[int][]store.TraceEntry)
	for _, e := range entries {
		byRestart[e.Restart] = append(byRestart[e.Restart], e)
	}

	restarts := make([]int, 0, len(byRestart))
	for r := range byRestart {
		restarts = append(restarts, r)
	}
	sort.Ints(restarts)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: title,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "generation",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: "fitness",
			SplitLine: &opts.SplitLine{
				Show: opts.Bool(true),
			},
		}))

	// The x axis spans the longest restart; shorter series just end early.
	var axis []int
	for _, r := range restarts {
		if n := len(byRestart[r]); n > len(axis) {
			axis = make([]int, n)
			for i, e := range byRestart[r] {
				axis[i] = e.Iteration
			}
		}
	}
	line.SetXAxis(axis)

	if len(restarts) == 1 {
		run := byRestart[restarts[0]]
		line.AddSeries("best fitness", lineData(run, func(e store.TraceEntry) float64 { return e.BestFitness }))
		line.AddSeries("mean fitness", lineData(run, func(e store.TraceEntry) float64 { return e.MeanFitness }))
	} else {
		for _, r := range restarts {
			name := fmt.Sprintf("best (restart %d)", r)
			line.AddSeries(name, lineData(byRestart[r], func(e store.TraceEntry) float64 { return e.BestFitness }))
		}
	}

	line.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{
			Smooth:     opts.Bool(false),
			ShowSymbol: opts.Bool(false),
		}),
	)

	return line, nil
}

func lineData(entries []store.TraceEntry, value func(store.TraceEntry) float64) []opts.LineData {
	data := make([]opts.LineData, len(entries))
	for i, e := range entries {
		data[i] = opts.LineData{Value: value(e)}
	}
	return data
}

// WriteHTML renders the chart as a standalone HTML page at path.
func WriteHTML(line *charts.Line, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create plot file: %w", err)
	}
	defer f.Close()

	return line.Render(f)
}
