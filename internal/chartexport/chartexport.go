package chartexport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	"statwire/internal/metric"
	"statwire/internal/snapshot"
)

// WriteTrendPNG renders the trend windows of a normalized snapshot as
// a sparkline chart. Null slots are simply skipped, so a series with
// pre-history draws from its first real observation.
func WriteTrendPNG(path string, n snapshot.Normalized, keys []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	var seriesList []chart.Series
	for _, key := range keys {
		window, ok := n.Comparisons.Trend[key]
		if !ok {
			continue
		}

		var xs []time.Time
		var ys []float64
		for i, slot := range window {
			v, ok := slot.Value()
			if !ok {
				continue
			}
			month := n.ReferencePeriod.SubMonths(len(window) - 1 - i)
			xs = append(xs, time.Date(month.Year, month.Month, 1, 0, 0, 0, 0, time.UTC))
			ys = append(ys, v)
		}
		if len(xs) == 0 {
			continue
		}
		seriesList = append(seriesList, chart.TimeSeries{Name: key, XValues: xs, YValues: ys})
	}
	if len(seriesList) == 0 {
		return errors.New("no trend data to chart")
	}

	graph := chart.Chart{
		Width:  1280,
		Height: 720,
		XAxis: chart.XAxis{
			ValueFormatter: chart.TimeValueFormatter,
		},
		YAxis: chart.YAxis{
			Name: "Display value",
		},
		Series: seriesList,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return graph.Render(chart.PNG, file)
}

// WriteTrendCSV writes the trend windows month by month, oldest
// first, with empty cells for null slots.
func WriteTrendCSV(path string, n snapshot.Normalized, keys []string) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := append([]string{"period"}, keys...)
	if err := writer.Write(header); err != nil {
		return err
	}

	length := windowLength(n, keys)
	for i := 0; i < length; i++ {
		month := n.ReferencePeriod.SubMonths(length - 1 - i)
		record := []string{month.String()}
		for _, key := range keys {
			record = append(record, cell(n.Comparisons.Trend[key], i))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	return writer.Error()
}

func windowLength(n snapshot.Normalized, keys []string) int {
	for _, key := range keys {
		if window, ok := n.Comparisons.Trend[key]; ok {
			return len(window)
		}
	}
	return 0
}

func cell(window []metric.Optional, i int) string {
	if i >= len(window) {
		return ""
	}
	v, ok := window[i].Value()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}
