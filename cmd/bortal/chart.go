package main

import (
	"fmt"
	"os"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/bortal/bortal-go/internal/models"
)

// renderPerformanceChart writes the daily value series as a PNG line chart,
// with the cost basis as a second series when the server provides one.
func renderPerformanceChart(path, title string, series []models.DailyValue) error {
	var (
		dates  []time.Time
		values []float64
		costs  []float64
	)
	hasCost := false
	for _, dv := range series {
		date, err := time.Parse("2006-01-02", dv.Date)
		if err != nil {
			continue
		}
		dates = append(dates, date)
		values = append(values, dv.Value)
		costs = append(costs, dv.CostBasis)
		if dv.CostBasis != 0 {
			hasCost = true
		}
	}
	if len(dates) < 2 {
		return fmt.Errorf("not enough data points to chart")
	}

	plots := []chart.Series{
		chart.TimeSeries{
			Name:    "Value",
			XValues: dates,
			YValues: values,
		},
	}
	if hasCost {
		plots = append(plots, chart.TimeSeries{
			Name:    "Cost basis",
			XValues: dates,
			YValues: costs,
			Style: chart.Style{
				StrokeDashArray: []float64{5.0, 5.0},
			},
		})
	}

	graph := chart.Chart{
		Title:  title,
		Width:  900,
		Height: 400,
		XAxis:  chart.XAxis{ValueFormatter: chart.TimeDateValueFormatter},
		Series: plots,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
