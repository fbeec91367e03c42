/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: diagnostics.go
Description: Failure diagnostics for the web form. Classifies console and network events collected
during a run and saves a screenshot, the DOM and the findings when a case fails.
*/

package web

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	httpStatusRegex = regexp.MustCompile(`^\[RES\] (\d{3}) `)
	jsErrorRegex    = regexp.MustCompile(`(?i)\b(uncaught|exception|typeerror|referenceerror|rangeerror)\b`)
)

// Diagnose returns prioritized findings for console and network logs
func Diagnose(logs []string, network []string) []string {
	var findings []string
	for _, log := range logs {
		switch {
		case strings.HasPrefix(log, "[exception]") || jsErrorRegex.MatchString(log):
			findings = append(findings, "[HIGH] JS error: "+log)
		case strings.HasPrefix(log, "[console.error]"):
			findings = append(findings, "[MEDIUM] Console error: "+log)
		case strings.HasPrefix(log, "[console.warning]"):
			findings = append(findings, "[INFO] Console warning: "+log)
		}
	}
	for _, netlog := range network {
		if strings.HasPrefix(netlog, "[ERR]") {
			findings = append(findings, "[MEDIUM] Network error: "+netlog)
			continue
		}
		if m := httpStatusRegex.FindStringSubmatch(netlog); len(m) == 2 {
			switch {
			case m[1] >= "500":
				findings = append(findings, "[HIGH] Server error: "+netlog)
			case m[1] == "401" || m[1] == "403":
				findings = append(findings, "[MEDIUM] HTTP auth error: "+netlog)
			case m[1] >= "400":
				findings = append(findings, "[INFO] HTTP client error: "+netlog)
			}
		}
	}
	return findings
}

// Diagnostics is the JSON document written for a failed case
type Diagnostics struct {
	Case     string   `json:"case"`
	Findings []string `json:"findings"`
	Console  []string `json:"console"`
	Network  []string `json:"network"`
}

// CaptureFailure writes a screenshot, the current DOM and the diagnostics of the run into dir
func (c *ChromeDPController) CaptureFailure(ctx context.Context, dir, name string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	base := filepath.Join(dir, fmt.Sprintf("%s_%d", name, time.Now().UnixNano()))
	var paths []string

	if err := c.Screenshot(ctx, base+".png"); err == nil {
		paths = append(paths, base+".png")
	}
	if dom, err := c.DOM(ctx); err == nil {
		if err := os.WriteFile(base+".html", []byte(dom), 0644); err != nil {
			return paths, err
		}
		paths = append(paths, base+".html")
	}

	logs, network := c.GetConsoleLogs(), c.GetNetworkLogs()
	data, err := json.MarshalIndent(Diagnostics{
		Case:     name,
		Findings: Diagnose(logs, network),
		Console:  logs,
		Network:  network,
	}, "", "  ")
	if err != nil {
		return paths, err
	}
	if err := os.WriteFile(base+".json", data, 0644); err != nil {
		return paths, err
	}
	return append(paths, base+".json"), nil
}
