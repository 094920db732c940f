package Apartment

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/wcharczuk/go-chart/v2"

	"github.com/notargets/roomheat/utils"
)

const (
	HistoryCSVName   = "history.csv"
	HistoryChartName = "history.png"
	logFloor         = -16.
)

type HistoryRow struct {
	Room   string  `csv:"room"`
	Solve  int     `csv:"solve"`
	Update float64 `csv:"max_update"`
}

func (res *Result) HistoryRows() (rows []*HistoryRow) {
	for _, room := range Rooms {
		for i, update := range res.History[room] {
			rows = append(rows, &HistoryRow{
				Room:   room.String(),
				Solve:  i,
				Update: update,
			})
		}
	}
	return
}

func (res *Result) WriteHistoryCSV(w io.Writer) error {
	return gocsv.Marshal(res.HistoryRows(), w)
}

// WriteHistory writes the per solve updates as CSV and as a chart into dir
func (res *Result) WriteHistory(dir string) (csvPath, chartPath string, err error) {
	var (
		file *os.File
	)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return
	}
	csvPath = filepath.Join(dir, HistoryCSVName)
	if file, err = os.Create(csvPath); err != nil {
		return
	}
	if err = res.WriteHistoryCSV(file); err != nil {
		file.Close()
		return
	}
	if err = file.Close(); err != nil {
		return
	}
	chartPath = filepath.Join(dir, HistoryChartName)
	if file, err = os.Create(chartPath); err != nil {
		return
	}
	if err = res.PlotHistory(file); err != nil {
		file.Close()
		return
	}
	err = file.Close()
	return
}

// PlotHistory renders log10 of the per solve update of every room as a PNG
func (res *Result) PlotHistory(w io.Writer) error {
	var (
		series []chart.Series
		colors = map[RoomID]chart.Style{
			LivingRoom: {StrokeColor: chart.ColorBlue, StrokeWidth: 2},
			Kitchen:    {StrokeColor: chart.ColorRed, StrokeWidth: 2},
			Entry:      {StrokeColor: chart.ColorGreen, StrokeWidth: 2},
			Bathroom:   {StrokeColor: chart.ColorOrange, StrokeWidth: 2},
		}
	)
	for _, room := range Rooms {
		h := res.History[room]
		if len(h) < 2 {
			continue
		}
		xv := utils.Linspace(0, float64(len(h)-1), len(h))
		yv := make([]float64, len(h))
		for i, update := range h {
			yv[i] = sanitizeLog(update, logFloor)
		}
		series = append(series, chart.ContinuousSeries{
			Name:    room.String(),
			XValues: xv,
			YValues: yv,
			Style:   colors[room],
		})
	}
	if len(series) == 0 {
		return fmt.Errorf("no room has enough history to chart")
	}
	graph := chart.Chart{
		Title: "Maximum field update per solve",
		XAxis: chart.XAxis{
			Name: "solve",
		},
		YAxis: chart.YAxis{
			Name: "log10 max |stored - previous|",
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}
	return graph.Render(chart.PNG, w)
}

// sanitizeLog maps an update onto log10 for charting, exact zeros pin to the floor
func sanitizeLog(v, floor float64) float64 {
	if v <= 0 || math.IsNaN(v) {
		return floor
	}
	return math.Max(math.Log10(v), floor)
}
