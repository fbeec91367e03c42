/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: adb_controller.go
Description: AndroidDeviceController using ADB. Implements DeviceController for device and
emulator management (install/uninstall, launch/stop, screenshots, logcat, device info) and the
input primitives the UIAutomator widget needs: hierarchy dumps, taps, text entry, key events and
screen rotation.
*/

package mobile

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	screenshotTmp = "/sdcard/__calverify_screenshot.png"
	hierarchyTmp  = "/sdcard/window_dump.xml"
)

// AndroidDeviceController implements DeviceController for Android devices/emulators via ADB
type AndroidDeviceController struct {
	DeviceID string // ADB device serial, empty for the only attached device
	Emulator bool   // True if using emulator
	ADB      string // adb binary, "adb" when empty

	runner Runner
}

// NewAndroidDeviceController creates a controller that shells out to adb
func NewAndroidDeviceController(deviceID string, emulator bool) *AndroidDeviceController {
	return &AndroidDeviceController{DeviceID: deviceID, Emulator: emulator, ADB: "adb", runner: ExecRunner{}}
}

// WithRunner replaces the command runner, used by tests and dry runs
func (c *AndroidDeviceController) WithRunner(r Runner) *AndroidDeviceController {
	c.runner = r
	return c
}

func (c *AndroidDeviceController) adb(ctx context.Context, args ...string) ([]byte, error) {
	full := make([]string, 0, len(args)+2)
	if c.DeviceID != "" {
		full = append(full, "-s", c.DeviceID)
	}
	full = append(full, args...)
	bin := c.ADB
	if bin == "" {
		bin = "adb"
	}
	return c.runner.Run(ctx, bin, full...)
}

func (c *AndroidDeviceController) shell(ctx context.Context, args ...string) ([]byte, error) {
	return c.adb(ctx, append([]string{"shell"}, args...)...)
}

func (c *AndroidDeviceController) Start(ctx context.Context) error {
	if out, err := c.adb(ctx, "wait-for-device"); err != nil {
		return fmt.Errorf("wait for device failed: %w, output: %s", err, out)
	}
	return nil
}

func (c *AndroidDeviceController) Stop(ctx context.Context) error {
	// No-op for real device; for emulator, kill process
	if c.Emulator {
		_, err := c.adb(ctx, "emu", "kill")
		return err
	}
	return nil
}

func (c *AndroidDeviceController) InstallApp(ctx context.Context, appPath string) error {
	output, err := c.adb(ctx, "install", "-r", appPath)
	if err != nil {
		return fmt.Errorf("install failed: %w, output: %s", err, output)
	}
	if !bytes.Contains(output, []byte("Success")) {
		return fmt.Errorf("install failed: %s", output)
	}
	return nil
}

func (c *AndroidDeviceController) UninstallApp(ctx context.Context, packageName string) error {
	output, err := c.adb(ctx, "uninstall", packageName)
	if err != nil {
		return fmt.Errorf("uninstall failed: %w, output: %s", err, output)
	}
	if !bytes.Contains(output, []byte("Success")) {
		return fmt.Errorf("uninstall failed: %s", output)
	}
	return nil
}

func (c *AndroidDeviceController) LaunchApp(ctx context.Context, packageName string) error {
	output, err := c.shell(ctx, "monkey", "-p", packageName, "-c", "android.intent.category.LAUNCHER", "1")
	if err != nil {
		return fmt.Errorf("launch failed: %w, output: %s", err, output)
	}
	return nil
}

func (c *AndroidDeviceController) StopApp(ctx context.Context, packageName string) error {
	_, err := c.shell(ctx, "am", "force-stop", packageName)
	return err
}

func (c *AndroidDeviceController) TakeScreenshot(ctx context.Context, path string) error {
	if out, err := c.shell(ctx, "screencap", "-p", screenshotTmp); err != nil {
		return fmt.Errorf("screencap failed: %w, output: %s", err, out)
	}
	if out, err := c.adb(ctx, "pull", screenshotTmp, path); err != nil {
		return fmt.Errorf("pull screenshot failed: %w, output: %s", err, out)
	}
	_, _ = c.shell(ctx, "rm", screenshotTmp)
	return nil
}

func (c *AndroidDeviceController) GetLogs(ctx context.Context) ([]string, error) {
	output, err := c.adb(ctx, "logcat", "-d")
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	var logs []string
	for scanner.Scan() {
		logs = append(logs, scanner.Text())
	}
	return logs, nil
}

func (c *AndroidDeviceController) ClearLogs(ctx context.Context) error {
	_, err := c.adb(ctx, "logcat", "-c")
	return err
}

func (c *AndroidDeviceController) GetDeviceInfo(ctx context.Context) (map[string]string, error) {
	info := make(map[string]string)
	output, err := c.shell(ctx, "getprop")
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "[") {
			parts := strings.SplitN(line, ": ", 2)
			if len(parts) == 2 {
				key := strings.Trim(parts[0], "[]")
				val := strings.Trim(parts[1], "[]")
				info[key] = val
			}
		}
	}
	return info, nil
}

// DumpHierarchy returns the UIAutomator XML dump of the current screen
func (c *AndroidDeviceController) DumpHierarchy(ctx context.Context) ([]byte, error) {
	if out, err := c.shell(ctx, "uiautomator", "dump", hierarchyTmp); err != nil {
		return nil, fmt.Errorf("uiautomator dump failed: %w, output: %s", err, out)
	}
	out, err := c.adb(ctx, "exec-out", "cat", hierarchyTmp)
	if err != nil {
		return nil, fmt.Errorf("read hierarchy failed: %w", err)
	}
	// exec-out may carry a status line before the document
	if i := bytes.Index(out, []byte("<?xml")); i > 0 {
		out = out[i:]
	}
	return out, nil
}

func (c *AndroidDeviceController) Tap(ctx context.Context, x, y int) error {
	_, err := c.shell(ctx, "input", "tap", strconv.Itoa(x), strconv.Itoa(y))
	return err
}

func (c *AndroidDeviceController) InputText(ctx context.Context, text string) error {
	_, err := c.shell(ctx, "input", "text", escapeInputText(text))
	return err
}

func (c *AndroidDeviceController) KeyEvent(ctx context.Context, keycode string) error {
	_, err := c.shell(ctx, "input", "keyevent", keycode)
	return err
}

// SetRotation locks the screen to rotation (0 portrait, 1 landscape left)
func (c *AndroidDeviceController) SetRotation(ctx context.Context, rotation int) error {
	if out, err := c.shell(ctx, "settings", "put", "system", "accelerometer_rotation", "0"); err != nil {
		return fmt.Errorf("disable auto-rotate failed: %w, output: %s", err, out)
	}
	if out, err := c.shell(ctx, "settings", "put", "system", "user_rotation", strconv.Itoa(rotation)); err != nil {
		return fmt.Errorf("set rotation failed: %w, output: %s", err, out)
	}
	return nil
}

// escapeInputText prepares text for `input text`, which treats %s as a space and passes the
// argument through the device shell
func escapeInputText(text string) string {
	var b strings.Builder
	for _, r := range text {
		switch r {
		case ' ':
			b.WriteString("%s")
		case '\'', '"', '(', ')', '&', '<', '>', ';', '|', '*', '\\', '$', '`', '~', '?':
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
