// pkg/desktop/desktop_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: FakeRunner, afero MemMapFs
// PURPOSE: Test compositor detection, status parsing and wallpaper selection

package desktop_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/desktop"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/testutil"
)

func env(vars map[string]string) desktop.Getenv {
	return func(k string) string { return vars[k] }
}

func TestDetectCompositor(t *testing.T) {
	assert.Equal(t, desktop.Hyprland, desktop.DetectCompositor(env(map[string]string{desktop.EnvHyprland: "abc"})))
	assert.Equal(t, desktop.Niri, desktop.DetectCompositor(env(map[string]string{desktop.EnvNiri: "/run/niri.sock"})))
	assert.Equal(t, desktop.None, desktop.DetectCompositor(env(nil)))
}

func TestHyprlandStatus(t *testing.T) {
	r := testutil.NewFakeRunner("hyprctl", "swww")
	r.Outputs["hyprctl activeworkspace -j"] = `{"id":3,"name":"3","monitor":"DP-1","windows":2}`
	r.Outputs["swww query"] = "DP-1: 2560x1440, scale: 1, currently displaying: image: /w/a.png\n"

	st, err := desktop.Status(context.Background(), r, env(map[string]string{desktop.EnvHyprland: "x"}))
	require.NoError(t, err)
	assert.Equal(t, desktop.WMStatus{Compositor: desktop.Hyprland, Workspace: "3", Output: "DP-1", Windows: 2, Swww: true}, *st)
}

func TestNiriStatusWithoutSwww(t *testing.T) {
	r := testutil.NewFakeRunner("niri")
	r.Outputs["niri msg --json focused-output"] = `{"name":"eDP-1","make":"BOE","model":"0x0bca"}`

	st, err := desktop.Status(context.Background(), r, env(map[string]string{desktop.EnvNiri: "/run/niri.sock"}))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyMissing))
	assert.False(t, errors.IsFatal(err))
	assert.Equal(t, "eDP-1", st.Output)
	assert.False(t, st.Swww)
}

func TestMissingCompositorBinary(t *testing.T) {
	r := testutil.NewFakeRunner("swww")
	r.Outputs["swww query"] = ""

	st, err := desktop.Status(context.Background(), r, env(map[string]string{desktop.EnvHyprland: "x"}))
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyMissing))
	assert.True(t, st.Swww)
}

func wallpaperFixture(t *testing.T, r *testutil.FakeRunner, chooser desktop.Chooser) *desktop.Wallpaper {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, name := range []string{"b.jpg", "a.png", "notes.txt", "c.WEBP"} {
		require.NoError(t, afero.WriteFile(fs, "/walls/"+name, []byte("x"), 0644))
	}
	require.NoError(t, fs.MkdirAll("/walls/sub.png", 0755))
	cfg := config.Wallpaper{Dir: "/walls", Transition: "grow"}
	return desktop.NewWallpaper(fs, r, cfg, chooser, rand.New(rand.NewSource(1)))
}

func TestImagesFiltersAndSorts(t *testing.T) {
	w := wallpaperFixture(t, testutil.NewFakeRunner(), nil)
	images, err := w.Images()
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "b.jpg", "c.WEBP"}, images)
}

func TestChooseThroughRofi(t *testing.T) {
	r := testutil.NewFakeRunner("rofi", "swww")
	r.Outputs["rofi -dmenu -i -p wallpaper"] = "b.jpg\n"
	w := wallpaperFixture(t, r, nil)

	file, err := w.Choose(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "/walls/b.jpg", file)
	assert.Equal(t, "a.png\nb.jpg\nc.WEBP", r.Inputs["rofi -dmenu -i -p wallpaper"])
	assert.True(t, r.Called("swww img /walls/b.jpg --transition-type grow"))
}

func TestRofiDismissedIsCancelled(t *testing.T) {
	r := testutil.NewFakeRunner("rofi", "swww")
	r.Failures["rofi -dmenu -i -p wallpaper"] = errors.New(errors.ErrStepFailed, "exit status 1")
	w := wallpaperFixture(t, r, nil)

	_, err := w.Choose(context.Background(), false)
	assert.True(t, errors.IsCancelled(err))
	assert.False(t, r.Called("swww img /walls/b.jpg --transition-type grow"))
}

func TestChooserFallback(t *testing.T) {
	r := testutil.NewFakeRunner("swww")
	var offered []string
	w := wallpaperFixture(t, r, func(label string, items []string) (int, error) {
		offered = items
		return 2, nil
	})

	file, err := w.Choose(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, "/walls/c.WEBP", file)
	assert.Len(t, offered, 3)
}

func TestRandomPickNeedsNoMenu(t *testing.T) {
	r := testutil.NewFakeRunner("swww")
	w := wallpaperFixture(t, r, nil)

	file, err := w.Choose(context.Background(), true)
	require.NoError(t, err)
	assert.Contains(t, []string{"/walls/a.png", "/walls/b.jpg", "/walls/c.WEBP"}, file)
}

func TestApplyWithoutSwww(t *testing.T) {
	w := wallpaperFixture(t, testutil.NewFakeRunner(), nil)
	_, err := w.Apply(context.Background(), "a.png")
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyMissing))
}
