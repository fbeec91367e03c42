/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: history.go
Description: Run history. Every verification run is written as a timestamped, versioned JSON file
under a per-target subdirectory so earlier runs can be listed and compared.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/kleascm/calverify/pkg/verifier"
)

const historyTimeLayout = "2006-01-02_15-04-05"

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// HistoryEntry is one stored run
type HistoryEntry struct {
	Path    string                `json:"path"`
	Target  string                `json:"target"`
	Version string                `json:"version"`
	Run     *verifier.SuiteResult `json:"run"`
}

// WriteHistory stores run under dir/<target>/ as
// <timestamp>_<target>_v<version>.json and returns the file path
func WriteHistory(dir, target, version string, run *verifier.SuiteResult) (string, error) {
	if run == nil {
		return "", fmt.Errorf("no run to record")
	}
	kind := historyKind(target)
	targetDir := filepath.Join(dir, kind)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create history directory: %w", err)
	}

	// 2024-06-11_01-30-00_device_v1.0.0.json
	timestamp := run.Started.Format(historyTimeLayout)
	filename := fmt.Sprintf("%s_%s_v%s.json", timestamp, kind, version)
	filePath := filepath.Join(targetDir, filename)

	data, err := json.MarshalIndent(HistoryEntry{Target: target, Version: version, Run: run}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal run: %w", err)
	}
	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write history file: %w", err)
	}
	return filePath, nil
}

// LoadHistory reads every stored run under dir, newest first. Unreadable files are skipped.
func LoadHistory(dir string) ([]HistoryEntry, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to glob history files: %w", err)
	}
	var entries []HistoryEntry
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			continue
		}
		var e HistoryEntry
		if err := json.Unmarshal(data, &e); err != nil || e.Run == nil {
			continue
		}
		e.Path = f
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Run.Started.After(entries[j].Run.Started)
	})
	return entries, nil
}

// historyKind reduces a target description to a directory name
func historyKind(target string) string {
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return "web"
	case target == "":
		return "unknown"
	}
	return strings.Trim(unsafeName.ReplaceAllString(target, "-"), "-")
}

// Age is how long ago the run started
func (e HistoryEntry) Age(now time.Time) time.Duration {
	return now.Sub(e.Run.Started).Round(time.Second)
}
