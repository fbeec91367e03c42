/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: utilities.go
Description: Utility commands for calverify. Self-check of the run prerequisites, log
maintenance and version output.
*/

package commands

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/kleascm/calverify/pkg/logging"
	"github.com/kleascm/calverify/pkg/mobile"
	"github.com/kleascm/calverify/pkg/reporting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformSelfCheck validates configuration and reachability of the target
func PerformSelfCheck(cmd *cobra.Command, args []string) error {
	fmt.Println("🔍 calverify - System Self-Check")
	fmt.Println("================================")
	fmt.Println()

	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, cfgErr := ReadConfig()

	checks := []struct {
		name     string
		function func() error
	}{
		{"Configuration Validation", func() error { return cfgErr }},
		{"Calendar Month Sets", func() error { return checkCalendars(cfg) }},
		{"Log Directory", func() error { return checkWritable(viper.GetString("log_dir")) }},
		{"Report Directory", func() error { return checkWritable(cfg.Report.Dir) }},
		{"Target Reachability", func() error { return checkTarget(cfg) }},
	}
	if cfgErr != nil {
		checks = checks[:1]
	}

	passed := 0
	total := len(checks)

	for _, check := range checks {
		fmt.Printf("🔍 %s... ", check.name)
		if err := check.function(); err != nil {
			fmt.Printf("❌ FAILED: %v\n", err)
		} else {
			fmt.Println("✅ PASSED")
			passed++
		}
	}

	fmt.Println()
	fmt.Printf("📊 Results: %d/%d checks passed\n", passed, total)

	if passed == total {
		fmt.Println("✨ All checks passed! Ready to verify.")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Please address the issues before running verify.")
	return fmt.Errorf("%d/%d checks failed", total-passed, total)
}

func checkCalendars(cfg *Config) error {
	reg, err := LoadRegistry(cfg)
	if err != nil {
		return err
	}
	if len(cfg.Cases) > 0 {
		_, err = BuildCases(cfg, reg, nil)
	}
	return err
}

func checkWritable(dir string) error {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, ".calverify_check_*")
	if err != nil {
		return fmt.Errorf("%s is not writable: %w", dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

func checkTarget(cfg *Config) error {
	if cfg.Target == "web" {
		u, err := url.Parse(cfg.Web.URL)
		if err != nil {
			return err
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("web.url %q is not an absolute URL", cfg.Web.URL)
		}
		return nil
	}

	adb := cfg.Device.ADB
	if adb == "" {
		adb = "adb"
	}
	if _, err := exec.LookPath(adb); err != nil {
		return fmt.Errorf("adb not found: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	device := mobile.NewAndroidDeviceController(cfg.Device.Serial, cfg.Device.Emulator)
	device.ADB = adb
	info, err := device.GetDeviceInfo(ctx)
	if err != nil {
		return fmt.Errorf("device unreachable: %w", err)
	}
	if model := info["ro.product.model"]; model != "" {
		fmt.Printf("(%s, Android %s) ", model, info["ro.build.version.release"])
	}
	return nil
}

// ShowLogStats prints file statistics and an event summary for the log directory
func ShowLogStats(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dir := viper.GetString("log_dir")
	manager := logging.NewLogManager(dir, viper.GetInt("log_max_files"), viper.GetInt64("log_max_size"), viper.GetBool("log_compress"))
	stats, err := manager.GetLogStats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "📁 Log directory: %s\n", dir)
	fmt.Fprintf(out, "   Files: %d (%d compressed)\n", stats.TotalFiles, stats.CompressedFiles)
	fmt.Fprintf(out, "   Size: %d bytes\n", stats.TotalSize)
	if stats.TotalFiles == 0 {
		return nil
	}
	fmt.Fprintf(out, "   Oldest: %s\n", stats.OldestFile.Format(time.RFC3339))
	fmt.Fprintf(out, "   Newest: %s\n", stats.NewestFile.Format(time.RFC3339))

	analysis, err := logging.NewLogAnalyzer(dir).AnalyzeLogs()
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, analysis.GetLogSummary())
	return nil
}

// CleanupLogs rotates oversized logs and applies the retention limit
func CleanupLogs(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	dir := viper.GetString("log_dir")
	maxFiles := viper.GetInt("log_max_files")
	if maxFiles <= 0 {
		return fmt.Errorf("log-max-files must be positive")
	}
	manager := logging.NewLogManager(dir, maxFiles, viper.GetInt64("log_max_size"), viper.GetBool("log_compress"))
	if err := manager.RotateLogs(); err != nil {
		return err
	}
	if err := manager.CleanupOldLogs(); err != nil {
		return err
	}
	files, _ := filepath.Glob(filepath.Join(dir, logging.LogFilePattern+"*"))
	fmt.Fprintf(cmd.OutOrStdout(), "🧹 %d log files kept in %s\n", len(files), dir)
	return nil
}

// ShowHistory lists the recorded runs, newest first
func ShowHistory(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, err := ReadConfig()
	if err != nil {
		return err
	}
	entries, err := reporting.LoadHistory(cfg.Report.History)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintf(out, "No runs recorded in %s\n", cfg.Report.History)
		return nil
	}
	now := time.Now()
	for _, e := range entries {
		status := "PASS"
		if !e.Run.Passed() {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s  %s  %d/%d passed  %-30s v%s  (%s ago)\n",
			e.Run.Started.Format("2006-01-02 15:04:05"), status,
			len(e.Run.Results)-e.Run.Failed(), len(e.Run.Results), e.Target, e.Version, e.Age(now))
	}
	return nil
}

// PrintVersion prints the build version
func PrintVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "calverify %s\n", Version)
}
