/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: session.go
Description: Opens the widget under test for a run. The device target drives an Android app
through adb and UIAutomator; the web target drives a form in headless Chrome. Each session
also knows how to capture failure artifacts for a case.
*/

package commands

import (
	"context"
	"fmt"

	"github.com/kleascm/calverify/pkg/mobile"
	"github.com/kleascm/calverify/pkg/verifier"
	"github.com/kleascm/calverify/pkg/web"
	"github.com/kleascm/calverify/pkg/widget"
	"github.com/sirupsen/logrus"
)

// Session is an opened widget plus its failure hook
type Session struct {
	Name   string
	Widget widget.Widget

	capture func(ctx context.Context, name string) ([]string, error)
	close   func() error
}

// Close releases the device or browser
func (s *Session) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// FailureHook returns a Suite.OnFailure callback that attaches artifacts to the result
func (s *Session) FailureHook(logger *logrus.Logger) func(ctx context.Context, res *verifier.CaseResult) {
	return func(ctx context.Context, res *verifier.CaseResult) {
		if s.capture == nil {
			return
		}
		paths, err := s.capture(ctx, res.Name)
		if err != nil {
			logger.WithError(err).WithField("case", res.Name).Warn("Failed to capture failure artifacts")
		}
		res.Artifacts = append(res.Artifacts, paths...)
	}
}

// OpenSession connects to the configured target
func OpenSession(ctx context.Context, cfg *Config, logger *logrus.Logger) (*Session, error) {
	switch cfg.Target {
	case "web":
		return openWeb(ctx, cfg, logger)
	default:
		return openDevice(ctx, cfg, logger)
	}
}

func openDevice(ctx context.Context, cfg *Config, logger *logrus.Logger) (*Session, error) {
	device := mobile.NewAndroidDeviceController(cfg.Device.Serial, cfg.Device.Emulator)
	if cfg.Device.ADB != "" {
		device.ADB = cfg.Device.ADB
	}
	if err := device.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start device: %w", err)
	}

	pkg := cfg.Device.Package
	if cfg.Device.APK != "" {
		info, err := mobile.InspectAPK(ctx, mobile.ExecRunner{}, cfg.Device.APK)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"package": info.PackageName,
			"version": info.VersionName,
		}).Info("Installing app")
		if err := device.InstallApp(ctx, cfg.Device.APK); err != nil {
			return nil, err
		}
		pkg = info.PackageName
	}
	if pkg != "" {
		if err := device.ClearLogs(ctx); err != nil {
			logger.WithError(err).Warn("Failed to clear logcat")
		}
		if err := device.LaunchApp(ctx, pkg); err != nil {
			return nil, err
		}
	}

	w := mobile.NewUIAutomatorWidget(device, logger)
	if cfg.Wait > 0 {
		w.Wait = cfg.Wait
	}
	reporter := mobile.NewCrashReporter(device, pkg, cfg.Report.Artifacts, logger)

	name := "device"
	if cfg.Device.Serial != "" {
		name = "device " + cfg.Device.Serial
	}
	return &Session{
		Name:    name,
		Widget:  w,
		capture: reporter.Capture,
		close: func() error {
			if pkg != "" {
				if err := device.StopApp(context.Background(), pkg); err != nil {
					logger.WithError(err).Warn("Failed to stop app")
				}
			}
			return device.Stop(context.Background())
		},
	}, nil
}

func openWeb(ctx context.Context, cfg *Config, logger *logrus.Logger) (*Session, error) {
	if cfg.Web.URL == "" {
		return nil, fmt.Errorf("web target requires web.url")
	}
	browser := web.NewChromeDPController(cfg.Web)
	if err := browser.Start(ctx); err != nil {
		browser.Stop()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	w := web.NewDOMWidget(browser, logger)
	if cfg.Wait > 0 {
		w.Wait = cfg.Wait
	}
	return &Session{
		Name:   cfg.Web.URL,
		Widget: w,
		capture: func(ctx context.Context, name string) ([]string, error) {
			return browser.CaptureFailure(ctx, cfg.Report.Artifacts, name)
		},
		close: browser.Stop,
	}, nil
}
