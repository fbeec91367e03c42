/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: crash_reporter.go
Description: CrashReporter collects crashes and ANRs of the app under test from logcat and writes
them, with a screenshot, into an artifact directory when a verification case fails.
*/

package mobile

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	crashRegex = regexp.MustCompile(`FATAL EXCEPTION|ANR in|Process \d+ terminated|java\.lang\.[A-Za-z]+(Exception|Error)`)
	timeRegex  = regexp.MustCompile(`^(\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3})`)
)

// CrashReporter collects crash reports for one package from a device
type CrashReporter struct {
	device      DeviceController
	packageName string
	dir         string
	logger      *logrus.Logger
	now         func() time.Time
}

// NewCrashReporter creates a reporter writing artifacts under dir
func NewCrashReporter(device DeviceController, packageName, dir string, logger *logrus.Logger) *CrashReporter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CrashReporter{device: device, packageName: packageName, dir: dir, logger: logger, now: time.Now}
}

// ParseCrashes extracts crash blocks mentioning packageName from logcat lines
func ParseCrashes(lines []string, packageName string, year int) []*CrashReport {
	var reports []*CrashReport
	var current *CrashReport
	for _, line := range lines {
		if crashRegex.MatchString(line) && strings.Contains(line, packageName) {
			if current != nil {
				reports = append(reports, current)
			}
			current = &CrashReport{
				PackageName: packageName,
				Type:        "crash",
				Message:     line,
				Logs:        []string{line},
			}
			if strings.Contains(line, "ANR in") {
				current.Type = "anr"
			}
			// logcat omits the year
			if m := timeRegex.FindStringSubmatch(line); len(m) == 2 {
				if t, err := time.Parse("01-02 15:04:05.000", m[1]); err == nil {
					current.Timestamp = t.AddDate(year-t.Year(), 0, 0)
				}
			}
		} else if current != nil {
			current.Logs = append(current.Logs, line)
			if strings.Contains(strings.TrimSpace(line), "at ") {
				current.StackTrace += line + "\n"
			}
		}
	}
	if current != nil {
		reports = append(reports, current)
	}
	return reports
}

// Collect reads logcat and returns the crash reports of the package
func (r *CrashReporter) Collect(ctx context.Context) ([]*CrashReport, error) {
	lines, err := r.device.GetLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("logcat failed: %w", err)
	}
	return ParseCrashes(lines, r.packageName, r.now().Year()), nil
}

// Save writes crash as JSON next to a plain text rendering and returns both paths
func (r *CrashReporter) Save(crash *CrashReport, name string) ([]string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, err
	}
	base := filepath.Join(r.dir, fmt.Sprintf("crash_%s_%d", name, r.now().UnixNano()))

	data, err := json.MarshalIndent(crash, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(base+".json", data, 0644); err != nil {
		return nil, err
	}

	f, err := os.Create(base + ".txt")
	if err != nil {
		return nil, err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "Crash Report for %s\n", crash.PackageName)
	fmt.Fprintf(w, "Timestamp: %v\n", crash.Timestamp)
	fmt.Fprintf(w, "Type: %s\n", crash.Type)
	fmt.Fprintf(w, "Message: %s\n", crash.Message)
	fmt.Fprintf(w, "StackTrace:\n%s\n", crash.StackTrace)
	fmt.Fprintf(w, "Logs:\n")
	for _, l := range crash.Logs {
		fmt.Fprintln(w, l)
	}
	return []string{base + ".json", base + ".txt"}, w.Flush()
}

// Capture takes a screenshot and saves every crash found in logcat. It returns the artifact paths.
func (r *CrashReporter) Capture(ctx context.Context, name string) ([]string, error) {
	var paths []string
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return nil, err
	}
	shot := filepath.Join(r.dir, fmt.Sprintf("screen_%s_%d.png", name, r.now().UnixNano()))
	if err := r.device.TakeScreenshot(ctx, shot); err != nil {
		r.logger.WithError(err).Warn("Screenshot failed")
	} else {
		paths = append(paths, shot)
	}

	crashes, err := r.Collect(ctx)
	if err != nil {
		return paths, err
	}
	for i, c := range crashes {
		p, err := r.Save(c, fmt.Sprintf("%s_%d", name, i))
		if err != nil {
			return paths, err
		}
		paths = append(paths, p...)
	}
	r.logger.WithFields(logrus.Fields{
		"case":      name,
		"crashes":   len(crashes),
		"artifacts": len(paths),
	}).Info("Failure artifacts captured")
	return paths, nil
}
