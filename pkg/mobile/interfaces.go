/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: interfaces.go
Description: Core interfaces for driving an Android device. Defines the DeviceController used by
the UIAutomator widget adapter and the command Runner every adb invocation goes through, plus the
crash report and package info types.
*/

package mobile

import (
	"context"
	"os/exec"
	"time"
)

// Runner executes an external command and returns its combined output
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Rotation values understood by the system user_rotation setting
const (
	RotationPortrait  = 0
	RotationLandscape = 1
)

// DeviceController abstracts device/emulator automation over ADB
type DeviceController interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	InstallApp(ctx context.Context, appPath string) error
	UninstallApp(ctx context.Context, packageName string) error
	LaunchApp(ctx context.Context, packageName string) error
	StopApp(ctx context.Context, packageName string) error
	TakeScreenshot(ctx context.Context, path string) error
	GetLogs(ctx context.Context) ([]string, error)
	ClearLogs(ctx context.Context) error
	GetDeviceInfo(ctx context.Context) (map[string]string, error)

	DumpHierarchy(ctx context.Context) ([]byte, error)
	Tap(ctx context.Context, x, y int) error
	InputText(ctx context.Context, text string) error
	KeyEvent(ctx context.Context, keycode string) error
	SetRotation(ctx context.Context, rotation int) error
}

// CrashReport is a crash or ANR block extracted from logcat
type CrashReport struct {
	PackageName string    `json:"package_name"`
	Timestamp   time.Time `json:"timestamp"`
	Type        string    `json:"type"` // crash, anr
	Message     string    `json:"message"`
	StackTrace  string    `json:"stack_trace,omitempty"`
	Logs        []string  `json:"logs,omitempty"`
}

// PackageInfo is the subset of aapt badging output used to launch an app
type PackageInfo struct {
	PackageName        string
	VersionName        string
	Label              string
	LaunchableActivity string
	Permissions        []string
}
