/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: verify.go
Description: The verify and standard commands. Opens the target, runs the selected cases as one
suite, logs each outcome and writes the HTML, JSON and JUnit reports for the run.
*/

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/kleascm/calverify/pkg/reporting"
	"github.com/kleascm/calverify/pkg/verifier"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// RunVerify runs every selected case, universal and standard
func RunVerify(cmd *cobra.Command, args []string) error {
	return runSuite(cmd, "")
}

// RunStandard runs only the standard widget cases
func RunStandard(cmd *cobra.Command, args []string) error {
	return runSuite(cmd, verifier.KindStandard)
}

func runSuite(cmd *cobra.Command, kind verifier.Kind) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger, err := SetupLogging()
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	defer logger.Close()

	cfg, err := ReadConfig()
	if err != nil {
		return err
	}
	reg, err := LoadRegistry(cfg)
	if err != nil {
		return err
	}
	cases, err := BuildCases(cfg, reg, viper.GetStringSlice("cases_only"))
	if err != nil {
		return err
	}
	if kind != "" {
		cases = filterKind(cases, kind)
	}
	if len(cases) == 0 {
		return fmt.Errorf("no cases selected")
	}

	ctx, cancel := signalContext()
	defer cancel()

	log := logger.GetLogger()
	session, err := OpenSession(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.WithError(err).Warn("Failed to close session")
		}
	}()

	v := verifier.New(session.Widget, verifier.Options{
		Controls: cfg.Controls,
		Nav:      cfg.Nav,
		Logger:   log,
		OnStep:   logger.LogStep,
	})
	suite := verifier.NewSuite(v, cases)
	suite.Logout = viper.GetBool("logout")
	capture := session.FailureHook(log)
	suite.OnFailure = func(ctx context.Context, res *verifier.CaseResult) {
		if a := res.Assertion; a != nil {
			logger.LogAssertion(res.Name, a.Step, a.Expected, a.Actual)
		}
		capture(ctx, res)
	}

	result := suite.Run(ctx)
	for _, r := range result.Results {
		logger.LogCase(r.Name, string(r.Kind), r.Passed, r.Duration, caseFields(result.ID, r))
	}
	logger.LogRun(result.ID, len(result.Results), result.Failed(), map[string]interface{}{
		"target":   session.Name,
		"duration": result.Finished.Sub(result.Started).Round(time.Millisecond).String(),
	})

	printResults(result)

	if !viper.GetBool("no_report") {
		gen := reporting.NewDashboardGenerator(cfg.Report.Dir, log)
		data := reporting.NewDashboardData(cfg.Report.Title, Version, session.Name, result)
		if err := gen.GenerateDashboard(data); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("📊 Report written to %s\n", cfg.Report.Dir)
	}
	if cfg.Report.History != "" {
		path, err := reporting.WriteHistory(cfg.Report.History, session.Name, Version, result)
		if err != nil {
			log.WithError(err).Warn("Failed to record run history")
		} else {
			log.WithField("path", path).Debug("Run recorded")
		}
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if n := result.Failed(); n > 0 {
		return fmt.Errorf("%d/%d cases failed", n, len(result.Results))
	}
	return nil
}

func filterKind(cases []verifier.Case, kind verifier.Kind) []verifier.Case {
	var out []verifier.Case
	for _, c := range cases {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

func caseFields(runID string, r *verifier.CaseResult) map[string]interface{} {
	fields := map[string]interface{}{"run_id": runID}
	if r.Label != "" {
		fields["label"] = r.Label
	}
	if r.Gregorian != "" {
		fields["gregorian"] = r.Gregorian
	}
	if r.Error != "" {
		fields["error"] = r.Error
	}
	if len(r.Artifacts) > 0 {
		fields["artifacts"] = len(r.Artifacts)
	}
	return fields
}

func printResults(result *verifier.SuiteResult) {
	fmt.Println()
	fmt.Printf("📅 Verification run %s\n", result.ID)
	fmt.Println("==========================================")
	for _, r := range result.Results {
		status := "✅ PASSED"
		if !r.Passed {
			status = "❌ FAILED"
		}
		fmt.Printf("%-12s %-10s %s (%s)\n", r.Name, r.Kind, status, r.Duration.Round(time.Millisecond))
		if r.Label != "" {
			fmt.Printf("   Label: %s\n", r.Label)
		}
		if r.Gregorian != "" {
			fmt.Printf("   Gregorian: %s\n", r.Gregorian)
		}
		if r.Error != "" {
			fmt.Printf("   Error: %s\n", r.Error)
		}
		for _, a := range r.Artifacts {
			fmt.Printf("   Artifact: %s\n", a)
		}
	}
	fmt.Println()
	fmt.Printf("📊 Results: %d/%d cases passed\n", len(result.Results)-result.Failed(), len(result.Results))
}
