/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: calendar.go
Description: Offline calendar commands. Print month rotations and reference dates, reformat
date text between patterns, and list or export the registered month sets.
*/

package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/kleascm/calverify/pkg/calendar"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func loadOfflineRegistry() (*calendar.Registry, error) {
	if err := LoadConfig(); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg, err := ReadConfig()
	if err != nil {
		return nil, err
	}
	return LoadRegistry(cfg)
}

// RunRotate prints the month order expected from the next-month control
func RunRotate(cmd *cobra.Command, args []string) error {
	reg, err := loadOfflineRegistry()
	if err != nil {
		return err
	}
	months, ok := reg.Get(args[0])
	if !ok {
		return fmt.Errorf("unknown calendar %q (known: %s)", args[0], strings.Join(reg.Names(), ", "))
	}
	rotated, err := calendar.RotateMonths(months, args[1])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for i, m := range rotated {
		fmt.Fprintf(out, "%2d. %s\n", i+1, m)
	}
	return nil
}

// RunReference prints the Gregorian reference date and its standard renderings
func RunReference(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	var clock calendar.Clock = calendar.SystemClock{}
	if d := viper.GetString("reference_date"); d != "" {
		t, err := calendar.Parse(d, calendar.ISOPattern)
		if err != nil {
			return err
		}
		clock = calendar.FixedClock{T: t}
	}
	ref, iso := calendar.ReferenceFromClock(clock, viper.GetInt("offset"))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, iso)
	if viper.GetBool("all_formats") {
		for _, f := range calendar.StandardFormats(ref) {
			fmt.Fprintln(out, f)
		}
	}
	return nil
}

// RunReformat reparses date text from one pattern into another
func RunReformat(cmd *cobra.Command, args []string) error {
	in, _ := cmd.Flags().GetString("in")
	outPattern, _ := cmd.Flags().GetString("out")
	s, err := calendar.ParseAndReformat(args[0], in, outPattern)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), s)
	return nil
}

// RunCalendarsList prints every registered month set
func RunCalendarsList(cmd *cobra.Command, args []string) error {
	reg, err := loadOfflineRegistry()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range reg.Names() {
		s, _ := reg.Get(name)
		fmt.Fprintf(out, "%s (%d months)\n", name, len(s.Months))
		fmt.Fprintf(out, "   %s\n", strings.Join(s.Months, ", "))
	}
	return nil
}

// RunCalendarsExport writes the registered month sets as YAML
func RunCalendarsExport(cmd *cobra.Command, args []string) error {
	reg, err := loadOfflineRegistry()
	if err != nil {
		return err
	}
	data, err := reg.Marshal()
	if err != nil {
		return err
	}
	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d calendars to %s\n", len(reg.Names()), path)
	return nil
}
