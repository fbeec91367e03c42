/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: dashboard_test.go
Description: Tests for run statistics and the HTML, JSON and JUnit report files.
*/

package reporting

import (
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kleascm/calverify/pkg/verifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRun() *verifier.SuiteResult {
	start := time.Date(2024, 2, 24, 9, 0, 0, 0, time.UTC)
	return &verifier.SuiteResult{
		ID:       "run-1",
		Started:  start,
		Finished: start.Add(3 * time.Second),
		Results: []*verifier.CaseResult{
			{Name: "nepali", Kind: verifier.KindUniversal, Passed: true, Label: "26 Magh 2080", Gregorian: "2024-02-24", Duration: time.Second},
			{Name: "ethiopian", Kind: verifier.KindUniversal, Error: "month 3 of rotation: expected \"Hidar\"", Duration: 1500 * time.Millisecond, Artifacts: []string{"artifacts/screen.png"}},
			{Name: "standard", Kind: verifier.KindStandard, Passed: true, Formats: []string{"Sat, Feb 24, 2024", "24/2/24", "2024-02-24"}, Duration: 500 * time.Millisecond},
		},
	}
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(sampleRun())
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Passed)
	assert.Equal(t, 1, s.Failed)
	assert.InDelta(t, 66.67, s.PassRate, 0.01)
	assert.Equal(t, 3*time.Second, s.TotalDuration)
	assert.Equal(t, "ethiopian", s.Slowest)

	assert.Equal(t, &RunStats{}, ComputeStats(nil))
}

func TestGenerateDashboard(t *testing.T) {
	dir := t.TempDir()
	dg := NewDashboardGenerator(dir, nil)
	data := NewDashboardData("Date widgets", "1.0.0", "emulator-5554", sampleRun())

	require.NoError(t, dg.GenerateDashboard(data))

	html, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "26 Magh 2080")
	assert.Contains(t, string(html), "Sat, Feb 24, 2024")
	assert.Contains(t, string(html), "run-1")
	assert.Contains(t, string(html), `"doughnut"`)

	raw, err := os.ReadFile(filepath.Join(dir, "results.json"))
	require.NoError(t, err)
	var decoded DashboardData
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "run-1", decoded.Run.ID)
	assert.Equal(t, 1, decoded.Stats.Failed)

	junit, err := os.ReadFile(filepath.Join(dir, "junit.xml"))
	require.NoError(t, err)
	var suite junitSuite
	require.NoError(t, xml.Unmarshal(junit, &suite))
	assert.Equal(t, 3, suite.Tests)
	assert.Equal(t, 1, suite.Failures)
	require.Len(t, suite.Cases, 3)
	assert.Nil(t, suite.Cases[0].Failure)
	require.NotNil(t, suite.Cases[1].Failure)
	assert.Contains(t, suite.Cases[1].Failure.Message, "Hidar")
	assert.Equal(t, "calverify.standard", suite.Cases[2].Classname)
}

func TestGenerateDashboardWithoutRun(t *testing.T) {
	dg := NewDashboardGenerator(t.TempDir(), nil)
	assert.Error(t, dg.GenerateDashboard(&DashboardData{Title: "empty"}))
}
