/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Command-line interface for calverify. Verifies non-Gregorian and standard date
widgets of a form app on an Android device or in a browser, and exposes the calendar
computations the verification relies on as offline commands.
*/

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/kleascm/calverify/cmd/calverify/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

var (
	// Configuration
	configFile string
	logLevel   string

	// Logging configuration
	logDir      string
	logFormat   string
	logMaxFiles int
	logMaxSize  int64
	logCompress bool
)

func main() {
	commands.Version = version

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "calverify",
		Short: "calverify - date widget verification for form apps",
		Long: `calverify drives the Nepali, Ethiopian and standard date widgets of a form app
and checks what they display: month rotation, the day label after stepping the controls,
and the Gregorian date the widget echoes back against the expected reference date.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "./logs", "Log output directory")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "custom", "Log format (text, json, custom)")
	rootCmd.PersistentFlags().IntVar(&logMaxFiles, "log-max-files", 10, "Maximum number of log files to keep")
	rootCmd.PersistentFlags().Int64Var(&logMaxSize, "log-max-size", 100*1024*1024, "Maximum log file size in bytes")
	rootCmd.PersistentFlags().BoolVar(&logCompress, "log-compress", false, "Compress rotated log files")
	rootCmd.PersistentFlags().String("calendars", "", "YAML file with additional or replacement month sets")

	// Target flags
	rootCmd.PersistentFlags().String("target", "device", "Widget target (device, web)")
	rootCmd.PersistentFlags().String("device", "", "ADB device serial (empty for the only attached device)")
	rootCmd.PersistentFlags().Bool("emulator", false, "Target is an emulator; it is shut down after the run")
	rootCmd.PersistentFlags().String("adb", "adb", "Path to the adb binary")
	rootCmd.PersistentFlags().String("package", "", "Package name of the form app to launch")
	rootCmd.PersistentFlags().String("apk", "", "APK to install before the run")
	rootCmd.PersistentFlags().String("url", "", "Form URL for the web target")
	rootCmd.PersistentFlags().Bool("headless", true, "Run the browser headless")

	// Bind flags to viper
	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_max_files", rootCmd.PersistentFlags().Lookup("log-max-files"))
	viper.BindPFlag("log_max_size", rootCmd.PersistentFlags().Lookup("log-max-size"))
	viper.BindPFlag("log_compress", rootCmd.PersistentFlags().Lookup("log-compress"))
	viper.BindPFlag("calendars.file", rootCmd.PersistentFlags().Lookup("calendars"))
	viper.BindPFlag("target", rootCmd.PersistentFlags().Lookup("target"))
	viper.BindPFlag("device.serial", rootCmd.PersistentFlags().Lookup("device"))
	viper.BindPFlag("device.emulator", rootCmd.PersistentFlags().Lookup("emulator"))
	viper.BindPFlag("device.adb", rootCmd.PersistentFlags().Lookup("adb"))
	viper.BindPFlag("device.package", rootCmd.PersistentFlags().Lookup("package"))
	viper.BindPFlag("device.apk", rootCmd.PersistentFlags().Lookup("apk"))
	viper.BindPFlag("web.url", rootCmd.PersistentFlags().Lookup("url"))
	viper.BindPFlag("web.headless", rootCmd.PersistentFlags().Lookup("headless"))

	// Add verify command
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the date widgets of the form app",
		Long: `Open each configured widget form, check the month rotation, step the year and day
controls, and compare the Gregorian echo with the reference date. Failed cases get a screenshot
and logs attached, and an HTML, JSON and JUnit report is written for the run.`,
		RunE: commands.RunVerify,
	}
	addRunFlags(verifyCmd)
	rootCmd.AddCommand(verifyCmd)

	// Add standard command
	standardCmd := &cobra.Command{
		Use:   "standard",
		Short: "Verify only the standard Gregorian date widget",
		RunE:  commands.RunStandard,
	}
	addRunFlags(standardCmd)
	rootCmd.AddCommand(standardCmd)

	// Add rotate command
	rootCmd.AddCommand(&cobra.Command{
		Use:     "rotate <calendar> <current-month>",
		Short:   "Print the month order expected from the next-month control",
		Example: "  calverify rotate nepali Kartik",
		Args:    cobra.ExactArgs(2),
		RunE:    commands.RunRotate,
	})

	// Add reference command
	referenceCmd := &cobra.Command{
		Use:   "reference",
		Short: "Print the Gregorian reference date for a day offset",
		Args:  cobra.NoArgs,
		RunE:  commands.RunReference,
	}
	referenceCmd.Flags().Int("offset", 0, "Signed number of days from today")
	referenceCmd.Flags().String("date", "", "Use this yyyy-MM-dd date as today")
	referenceCmd.Flags().Bool("all", false, "Also print the standard widget renderings")
	referenceCmd.PreRun = func(cmd *cobra.Command, args []string) {
		viper.BindPFlag("offset", cmd.Flags().Lookup("offset"))
	}
	viper.BindPFlag("reference_date", referenceCmd.Flags().Lookup("date"))
	viper.BindPFlag("all_formats", referenceCmd.Flags().Lookup("all"))
	rootCmd.AddCommand(referenceCmd)

	// Add reformat command
	reformatCmd := &cobra.Command{
		Use:     "reformat <date-text>",
		Short:   "Reparse date text from one pattern into another",
		Example: `  calverify reformat "Mon, Mar 04, 2024" --in "EE, MMM dd, yyyy" --out yyyy-MM-dd`,
		Args:    cobra.ExactArgs(1),
		RunE:    commands.RunReformat,
	}
	reformatCmd.Flags().String("in", "d/M/yy", "Pattern of the input text")
	reformatCmd.Flags().String("out", "yyyy-MM-dd", "Pattern of the output text")
	rootCmd.AddCommand(reformatCmd)

	// Add calendars command
	calendarsCmd := &cobra.Command{
		Use:   "calendars",
		Short: "List or export the localized month sets",
	}
	calendarsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the registered month sets",
		RunE:  commands.RunCalendarsList,
	})
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the registered month sets as YAML",
		RunE:  commands.RunCalendarsExport,
	}
	exportCmd.Flags().StringP("output", "o", "", "Output file (stdout when empty)")
	calendarsCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(calendarsCmd)

	// Add check command for built-in self-checks
	rootCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Perform built-in self-checks before a run",
		Long: `Validate the configuration and month sets, check that the log and report directories
are writable, and that adb can reach the device (or that the web URL is usable).`,
		RunE: commands.PerformSelfCheck,
	})

	// Add logs command
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and maintain run logs",
		RunE:  commands.ShowLogStats,
	}
	logsCmd.AddCommand(&cobra.Command{
		Use:   "cleanup",
		Short: "Rotate oversized logs and apply the retention limit",
		RunE:  commands.CleanupLogs,
	})
	rootCmd.AddCommand(logsCmd)

	// Add history command
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded verification runs",
		RunE:  commands.ShowHistory,
	}
	historyCmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 for all)")
	historyCmd.Flags().String("history-dir", "./reports/history", "Directory of recorded runs")
	historyCmd.PreRun = func(cmd *cobra.Command, args []string) {
		viper.BindPFlag("report.history", cmd.Flags().Lookup("history-dir"))
	}
	rootCmd.AddCommand(historyCmd)

	// Add version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run:   commands.PrintVersion,
	})

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// addRunFlags adds the flags shared by the commands that drive a widget
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int("offset", -10, "Signed number of days the day control is stepped by")
	cmd.Flags().Int("year-shift", -1, "Year control presses before stepping days")
	cmd.Flags().Duration("wait", 5*time.Second, "How long to wait for a view to appear")
	cmd.Flags().StringSlice("case", nil, "Run only the named cases")
	cmd.Flags().Bool("logout", true, "Log out of the app after the run")
	cmd.Flags().String("report-dir", "./reports", "Directory for the run report")
	cmd.Flags().String("artifacts-dir", "./reports/artifacts", "Directory for failure screenshots and logs")
	cmd.Flags().Bool("no-report", false, "Skip writing the run report")
	cmd.Flags().String("history-dir", "./reports/history", "Directory runs are recorded in (empty to disable)")

	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		viper.BindPFlag("offset", cmd.Flags().Lookup("offset"))
		viper.BindPFlag("year_shift", cmd.Flags().Lookup("year-shift"))
		viper.BindPFlag("wait", cmd.Flags().Lookup("wait"))
		viper.BindPFlag("cases_only", cmd.Flags().Lookup("case"))
		viper.BindPFlag("logout", cmd.Flags().Lookup("logout"))
		viper.BindPFlag("report.dir", cmd.Flags().Lookup("report-dir"))
		viper.BindPFlag("report.artifacts", cmd.Flags().Lookup("artifacts-dir"))
		viper.BindPFlag("no_report", cmd.Flags().Lookup("no-report"))
		viper.BindPFlag("report.history", cmd.Flags().Lookup("history-dir"))
	}
}
