/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: mobile_test.go
Description: Tests for the adb controller, hierarchy parsing, the UIAutomator widget, crash
collection and APK inspection, driven through a scripted command runner.
*/

package mobile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kleascm/calverify/pkg/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pickerDump = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<hierarchy rotation="0">
  <node index="0" text="" resource-id="" class="android.widget.FrameLayout" bounds="[0,0][1080,1920]">
    <node index="0" text="Magh" resource-id="org.commcare.dalvik:id/monthtxt" class="android.widget.TextView" bounds="[100,200][300,260]" />
    <node index="1" text="05" resource-id="org.commcare.dalvik:id/daytxt" class="android.widget.TextView" bounds="[400,200][500,260]" />
    <node index="2" text="Next" resource-id="org.commcare.dalvik:id/nav_btn_next" class="android.widget.Button" bounds="[900,1800][1080,1900]" />
    <node index="3" text="Apr" resource-id="android:id/numberpicker_input" class="android.widget.EditText" bounds="[100,800][300,900]" />
    <node index="4" text="2024" resource-id="android:id/numberpicker_input" class="android.widget.EditText" bounds="[700,800][900,900]" />
    <node index="5" text="17" resource-id="android:id/numberpicker_input" class="android.widget.EditText" bounds="[400,800][600,900]" />
  </node>
</hierarchy>`

// scriptRunner answers commands by their joined arguments and records every call
type scriptRunner struct {
	responses map[string]string
	failures  map[string]error
	calls     []string
}

func newScriptRunner() *scriptRunner {
	return &scriptRunner{responses: map[string]string{}, failures: map[string]error{}}
}

func (s *scriptRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	s.calls = append(s.calls, key)
	for prefix, err := range s.failures {
		if strings.HasPrefix(key, prefix) {
			return nil, err
		}
	}
	return []byte(s.responses[key]), nil
}

func (s *scriptRunner) called(prefix string) []string {
	var out []string
	for _, c := range s.calls {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}
	return out
}

func newTestDevice(r *scriptRunner) *AndroidDeviceController {
	r.responses["adb -s emulator-5554 exec-out cat /sdcard/window_dump.xml"] = pickerDump
	return NewAndroidDeviceController("emulator-5554", true).WithRunner(r)
}

func TestParseHierarchy(t *testing.T) {
	nodes, err := ParseHierarchy([]byte(pickerDump))
	require.NoError(t, err)
	require.Len(t, nodes, 7)

	month := nodes[1]
	assert.Equal(t, "monthtxt", month.ShortID())
	assert.Equal(t, "Magh", month.Text)
	x, y := month.Center()
	assert.Equal(t, 200, x)
	assert.Equal(t, 230, y)

	assert.Equal(t, "", nodes[0].ShortID())
	assert.Equal(t, "numberpicker_input", nodes[4].ShortID())
}

func TestAndroidDeviceControllerCommands(t *testing.T) {
	ctx := context.Background()
	r := newScriptRunner()
	r.responses["adb -s emulator-5554 install -r app.apk"] = "Performing Streamed Install\nSuccess\n"
	r.responses["adb -s emulator-5554 shell getprop"] = "[ro.product.model]: [Pixel 6]\n[ro.build.version.sdk]: [34]\nnoise\n"
	d := newTestDevice(r)

	require.NoError(t, d.InstallApp(ctx, "app.apk"))
	info, err := d.GetDeviceInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pixel 6", info["ro.product.model"])
	assert.Equal(t, "34", info["ro.build.version.sdk"])
	assert.Len(t, info, 2)

	require.NoError(t, d.InputText(ctx, "Log out (now)"))
	require.NoError(t, d.SetRotation(ctx, RotationLandscape))
	require.NoError(t, d.Stop(ctx))

	assert.Equal(t, []string{`adb -s emulator-5554 shell input text Log%sout%s\(now\)`}, r.called("adb -s emulator-5554 shell input text"))
	assert.Equal(t, []string{
		"adb -s emulator-5554 shell settings put system accelerometer_rotation 0",
		"adb -s emulator-5554 shell settings put system user_rotation 1",
	}, r.called("adb -s emulator-5554 shell settings"))
	assert.Len(t, r.called("adb -s emulator-5554 emu kill"), 1)
}

func TestAndroidDeviceControllerInstallFailure(t *testing.T) {
	r := newScriptRunner()
	r.responses["adb install -r bad.apk"] = "Failure [INSTALL_FAILED_INVALID_APK]"
	d := NewAndroidDeviceController("", false).WithRunner(r)

	err := d.InstallApp(context.Background(), "bad.apk")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "INSTALL_FAILED_INVALID_APK")
}

func TestDumpHierarchyStripsPreamble(t *testing.T) {
	r := newScriptRunner()
	r.responses["adb exec-out cat /sdcard/window_dump.xml"] = "UI hierchary dumped to: /sdcard/window_dump.xml\n" + pickerDump
	d := NewAndroidDeviceController("", false).WithRunner(r)

	out, err := d.DumpHierarchy(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "<?xml"))
}

func TestUIAutomatorWidgetReadAndClick(t *testing.T) {
	ctx := context.Background()
	r := newScriptRunner()
	w := NewUIAutomatorWidget(newTestDevice(r), nil)
	w.Wait = 0

	text, err := w.ReadText(ctx, "daytxt")
	require.NoError(t, err)
	assert.Equal(t, "05", text)

	require.NoError(t, w.Click(ctx, widget.ByID("nav_btn_next")))
	assert.Equal(t, []string{"adb -s emulator-5554 shell input tap 990 1850"}, r.called("adb -s emulator-5554 shell input tap"))

	ok, err := w.IsPresent(ctx, widget.WithText("Magh"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = w.IsPresent(ctx, widget.WithText("Falgun"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = w.ReadText(ctx, "yeartxt")
	assert.ErrorIs(t, err, widget.ErrNotFound)
}

func TestUIAutomatorWidgetPollsUntilDeadline(t *testing.T) {
	r := newScriptRunner()
	w := NewUIAutomatorWidget(newTestDevice(r), nil)
	w.Wait = 30 * time.Millisecond
	w.Poll = 10 * time.Millisecond

	ok, err := w.IsPresent(context.Background(), widget.WithText("never shown"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, len(r.called("adb -s emulator-5554 exec-out cat")), 1)
}

func TestUIAutomatorWidgetDumpFailure(t *testing.T) {
	r := newScriptRunner()
	r.failures["adb -s emulator-5554 shell uiautomator"] = errors.New("device offline")
	w := NewUIAutomatorWidget(newTestDevice(r), nil)

	_, err := w.IsPresent(context.Background(), widget.WithText("Magh"))
	assert.Error(t, err)
}

func TestUIAutomatorWidgetSetDate(t *testing.T) {
	r := newScriptRunner()
	w := NewUIAutomatorWidget(newTestDevice(r), nil)

	require.NoError(t, w.SetDate(context.Background(), 2024, 2, 24))

	assert.Equal(t, []string{
		"adb -s emulator-5554 shell input text Feb",
		"adb -s emulator-5554 shell input text 24",
		"adb -s emulator-5554 shell input text 2024",
	}, r.called("adb -s emulator-5554 shell input text"))
	// month, day, year fields sorted by x position
	assert.Equal(t, []string{
		"adb -s emulator-5554 shell input tap 200 850",
		"adb -s emulator-5554 shell input tap 500 850",
		"adb -s emulator-5554 shell input tap 800 850",
	}, r.called("adb -s emulator-5554 shell input tap"))
	// "Apr" + "17" + "2024"
	assert.Len(t, r.called("adb -s emulator-5554 shell input keyevent KEYCODE_DEL"), 9)
}

func TestUIAutomatorWidgetSetDateWrongPicker(t *testing.T) {
	r := newScriptRunner()
	w := NewUIAutomatorWidget(newTestDevice(r), nil)
	w.PickerOrder = []string{"day", "month"}

	err := w.SetDate(context.Background(), 2024, 2, 24)
	assert.ErrorIs(t, err, widget.ErrUnsupported)
}

func TestUIAutomatorWidgetRotation(t *testing.T) {
	ctx := context.Background()
	r := newScriptRunner()
	w := NewUIAutomatorWidget(newTestDevice(r), nil)

	require.NoError(t, w.RotateLeft(ctx))
	require.NoError(t, w.RotatePortrait(ctx))
	assert.Equal(t, []string{
		"adb -s emulator-5554 shell settings put system user_rotation 1",
		"adb -s emulator-5554 shell settings put system user_rotation 0",
	}, r.called("adb -s emulator-5554 shell settings put system user_rotation"))
}

const logcat = `04-17 10:00:00.000  1234  1234 I ActivityManager: Start proc org.commcare.dalvik
04-17 10:00:01.250  1234  1234 E AndroidRuntime: FATAL EXCEPTION: main org.commcare.dalvik
04-17 10:00:01.251  1234  1234 E AndroidRuntime: java.lang.IllegalStateException: bad date
04-17 10:00:01.252  1234  1234 E AndroidRuntime: 	at org.commcare.views.widgets.DateWidget.set(DateWidget.java:42)
04-17 10:00:05.000  1234  1234 E ActivityManager: ANR in org.commcare.dalvik
04-17 10:00:05.001  1234  1234 E ActivityManager: Reason: Input dispatching timed out`

func TestParseCrashes(t *testing.T) {
	reports := ParseCrashes(strings.Split(logcat, "\n"), "org.commcare.dalvik", 2024)
	require.Len(t, reports, 2)

	crash := reports[0]
	assert.Equal(t, "crash", crash.Type)
	assert.Equal(t, time.Date(2024, 4, 17, 10, 0, 1, 250_000_000, time.UTC), crash.Timestamp)
	assert.Contains(t, crash.StackTrace, "DateWidget.java:42")
	assert.Len(t, crash.Logs, 3)

	assert.Equal(t, "anr", reports[1].Type)
	assert.Len(t, reports[1].Logs, 2)

	assert.Empty(t, ParseCrashes(strings.Split(logcat, "\n"), "com.example.other", 2024))
}

func TestCrashReporterCapture(t *testing.T) {
	dir := t.TempDir()
	r := newScriptRunner()
	r.responses["adb -s emulator-5554 logcat -d"] = logcat
	rep := NewCrashReporter(newTestDevice(r), "org.commcare.dalvik", dir, nil)

	paths, err := rep.Capture(context.Background(), "nepali")
	require.NoError(t, err)
	// screenshot plus json and txt for each crash
	require.Len(t, paths, 5)
	assert.Equal(t, dir, filepath.Dir(paths[0]))

	data, err := os.ReadFile(paths[2])
	require.NoError(t, err)
	assert.Contains(t, string(data), "Crash Report for org.commcare.dalvik")
	assert.Len(t, r.called("adb -s emulator-5554 pull"), 1)
}

func TestInspectAPK(t *testing.T) {
	r := newScriptRunner()
	r.responses["aapt dump badging commcare.apk"] = `package: name='org.commcare.dalvik' versionCode='250' versionName='2.54.0' platformBuildVersionName='14'
uses-permission: name='android.permission.INTERNET'
uses-permission: name='android.permission.CAMERA'
application-label:'CommCare'
launchable-activity: name='org.commcare.activities.DispatchActivity'  label='CommCare' icon=''`

	info, err := InspectAPK(context.Background(), r, "commcare.apk")
	require.NoError(t, err)
	assert.Equal(t, "org.commcare.dalvik", info.PackageName)
	assert.Equal(t, "2.54.0", info.VersionName)
	assert.Equal(t, "CommCare", info.Label)
	assert.Equal(t, "org.commcare.activities.DispatchActivity", info.LaunchableActivity)
	assert.Equal(t, []string{"android.permission.INTERNET", "android.permission.CAMERA"}, info.Permissions)

	_, err = InspectAPK(context.Background(), r, "missing.apk")
	assert.Error(t, err)
}
