/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: apk.go
Description: Reads package metadata from an APK with aapt so the app under test can be installed
and launched by package name.
*/

package mobile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strings"
)

// InspectAPK runs `aapt dump badging` on path
func InspectAPK(ctx context.Context, r Runner, path string) (*PackageInfo, error) {
	output, err := r.Run(ctx, "aapt", "dump", "badging", path)
	if err != nil {
		return nil, fmt.Errorf("aapt failed: %w", err)
	}
	info := ParseBadging(output)
	if info.PackageName == "" {
		return nil, fmt.Errorf("aapt: no package line in output for %s", path)
	}
	return info, nil
}

// ParseBadging parses aapt badging output
func ParseBadging(output []byte) *PackageInfo {
	info := &PackageInfo{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "package: "):
			info.PackageName = badgingValue(line, "name")
			info.VersionName = badgingValue(line, "versionName")
		case strings.HasPrefix(line, "launchable-activity: "):
			info.LaunchableActivity = badgingValue(line, "name")
		case strings.HasPrefix(line, "application-label:"):
			info.Label = strings.Trim(strings.TrimPrefix(line, "application-label:"), "'")
		case strings.HasPrefix(line, "uses-permission: "):
			if p := badgingValue(line, "name"); p != "" {
				info.Permissions = append(info.Permissions, p)
			}
		}
	}
	return info
}

func badgingValue(line, key string) string {
	for _, f := range strings.Fields(line) {
		if strings.HasPrefix(f, key+"=") {
			return strings.Trim(strings.TrimPrefix(f, key+"="), "'")
		}
	}
	return ""
}
