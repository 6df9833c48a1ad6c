package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/ropesim/internal/config"
	"github.com/san-kum/ropesim/internal/dynamo"
)

type ExportData struct {
	Particles int                `json:"particles"`
	Solver    string             `json:"solver"`
	Driver    string             `json:"driver"`
	Params    dynamo.Params      `json:"params"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Frames    [][]dynamo.Vec2    `json:"frames"`
	Metrics   map[string]float64 `json:"metrics"`
}

func newExportData(cfg *config.Config, result *dynamo.Result) ExportData {
	return ExportData{
		Particles: cfg.Particles,
		Solver:    cfg.Solver,
		Driver:    cfg.Driver.Kind,
		Params:    cfg.Params,
		Duration:  cfg.Duration,
		Steps:     result.StepsTaken,
		Times:     result.Times,
		Frames:    result.Frames,
		Metrics:   finiteMetrics(result.Metrics),
	}
}

func ExportJSON(path string, cfg *config.Config, result *dynamo.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteJSON(file, cfg, result)
}

func ExportJSONStdout(cfg *config.Config, result *dynamo.Result) error {
	return WriteJSON(os.Stdout, cfg, result)
}

func WriteJSON(w io.Writer, cfg *config.Config, result *dynamo.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(newExportData(cfg, result))
}
