/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard.go
Description: Report generation for verification runs. Writes an HTML dashboard with a pass/fail
chart and per-case details, the raw results as JSON and a JUnit XML file for CI systems.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/kleascm/calverify/pkg/verifier"
	"github.com/sirupsen/logrus"
)

// DashboardGenerator creates HTML, JSON and JUnit reports
type DashboardGenerator struct {
	outputDir string
	logger    *logrus.Logger
	templates *template.Template
}

// DashboardData contains all data for report generation
type DashboardData struct {
	Title       string                `json:"title"`
	GeneratedAt time.Time             `json:"generated_at"`
	Version     string                `json:"version"`
	Target      string                `json:"target"`
	Run         *verifier.SuiteResult `json:"run"`
	Stats       *RunStats             `json:"stats"`
	Charts      *ChartData            `json:"-"`
}

// RunStats summarises a run
type RunStats struct {
	Total         int           `json:"total"`
	Passed        int           `json:"passed"`
	Failed        int           `json:"failed"`
	PassRate      float64       `json:"pass_rate"`
	TotalDuration time.Duration `json:"total_duration"`
	Slowest       string        `json:"slowest"`
}

// ChartData contains chart configurations
type ChartData struct {
	OutcomeChart  *ChartConfig `json:"outcome_chart"`
	DurationChart *ChartConfig `json:"duration_chart"`
}

// ChartConfig contains chart configuration
type ChartConfig struct {
	Type    string      `json:"type"`
	Title   string      `json:"title"`
	Data    interface{} `json:"data"`
	Options interface{} `json:"options"`
}

// NewDashboardGenerator creates a new dashboard generator
func NewDashboardGenerator(outputDir string, logger *logrus.Logger) *DashboardGenerator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &DashboardGenerator{
		outputDir: outputDir,
		logger:    logger,
		templates: template.Must(template.New("dashboard").Funcs(template.FuncMap{
			"chart": chartJSON,
			"ms":    func(d time.Duration) int64 { return d.Milliseconds() },
		}).Parse(dashboardTemplate)),
	}
}

// NewDashboardData wraps a suite result with computed statistics
func NewDashboardData(title, version, target string, run *verifier.SuiteResult) *DashboardData {
	return &DashboardData{
		Title:       title,
		GeneratedAt: time.Now(),
		Version:     version,
		Target:      target,
		Run:         run,
		Stats:       ComputeStats(run),
	}
}

// ComputeStats summarises run
func ComputeStats(run *verifier.SuiteResult) *RunStats {
	s := &RunStats{}
	if run == nil {
		return s
	}
	var slowest time.Duration
	for _, r := range run.Results {
		s.Total++
		if r.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.TotalDuration += r.Duration
		if r.Duration > slowest {
			slowest = r.Duration
			s.Slowest = r.Name
		}
	}
	if s.Total > 0 {
		s.PassRate = float64(s.Passed) / float64(s.Total) * 100
	}
	return s
}

// GenerateDashboard writes index.html, results.json and junit.xml into the output directory
func (dg *DashboardGenerator) GenerateDashboard(data *DashboardData) error {
	if data.Run == nil {
		return fmt.Errorf("no run to report")
	}
	if data.Stats == nil {
		data.Stats = ComputeStats(data.Run)
	}
	if err := os.MkdirAll(dg.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := dg.generateMainDashboard(data); err != nil {
		return fmt.Errorf("failed to generate main dashboard: %w", err)
	}
	if err := dg.generateJSON(data); err != nil {
		return fmt.Errorf("failed to generate json report: %w", err)
	}
	if err := dg.generateJUnit(data); err != nil {
		return fmt.Errorf("failed to generate junit report: %w", err)
	}
	dg.logger.Infof("Report generated successfully in: %s", dg.outputDir)
	return nil
}

// generateMainDashboard creates the main dashboard HTML
func (dg *DashboardGenerator) generateMainDashboard(data *DashboardData) error {
	dg.prepareChartData(data)

	outputFile := filepath.Join(dg.outputDir, "index.html")
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if err := dg.templates.Execute(file, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

func (dg *DashboardGenerator) generateJSON(data *DashboardData) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dg.outputDir, "results.json"), out, 0644)
}

// prepareChartData prepares chart configurations
func (dg *DashboardGenerator) prepareChartData(data *DashboardData) {
	data.Charts = &ChartData{
		OutcomeChart:  dg.createOutcomeChart(data),
		DurationChart: dg.createDurationChart(data),
	}
}

// createOutcomeChart creates the pass/fail chart configuration
func (dg *DashboardGenerator) createOutcomeChart(data *DashboardData) *ChartConfig {
	return &ChartConfig{
		Type:  "doughnut",
		Title: "Case Outcomes",
		Data: map[string]interface{}{
			"labels": []string{"Passed", "Failed"},
			"datasets": []map[string]interface{}{
				{
					"data":            []int{data.Stats.Passed, data.Stats.Failed},
					"backgroundColor": []string{"#4CAF50", "#f44336"},
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
		},
	}
}

// createDurationChart creates the per-case duration chart configuration
func (dg *DashboardGenerator) createDurationChart(data *DashboardData) *ChartConfig {
	labels := []string{}
	durations := []float64{}
	if data.Run != nil {
		for _, r := range data.Run.Results {
			labels = append(labels, r.Name)
			durations = append(durations, r.Duration.Seconds())
		}
	}
	return &ChartConfig{
		Type:  "bar",
		Title: "Case Duration (s)",
		Data: map[string]interface{}{
			"labels": labels,
			"datasets": []map[string]interface{}{
				{
					"label":           "Seconds",
					"data":            durations,
					"backgroundColor": "rgba(75, 192, 192, 0.5)",
				},
			},
		},
		Options: map[string]interface{}{
			"responsive": true,
			"scales": map[string]interface{}{
				"y": map[string]interface{}{
					"beginAtZero": true,
				},
			},
		},
	}
}

func chartJSON(c *ChartConfig) (template.JS, error) {
	b, err := json.Marshal(map[string]interface{}{"type": c.Type, "data": c.Data, "options": c.Options})
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}
