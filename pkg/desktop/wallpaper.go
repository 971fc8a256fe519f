package desktop

import (
	"context"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/arthur-debert/dotstow/pkg/config"
	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/paths"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

var imageExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true}

// Chooser asks the user to pick one of items and returns its index
type Chooser func(label string, items []string) (int, error)

// Wallpaper picks and applies wallpapers from a directory
type Wallpaper struct {
	fs      afero.Fs
	runner  runner.Runner
	cfg     config.Wallpaper
	chooser Chooser
	rand    *rand.Rand
}

// NewWallpaper creates a wallpaper helper. chooser is the fallback menu when
// rofi is not installed.
func NewWallpaper(fs afero.Fs, r runner.Runner, cfg config.Wallpaper, chooser Chooser, rng *rand.Rand) *Wallpaper {
	return &Wallpaper{fs: fs, runner: r, cfg: cfg, chooser: chooser, rand: rng}
}

// Dir is the expanded wallpaper directory
func (w *Wallpaper) Dir() string {
	return paths.ExpandHome(w.cfg.Dir)
}

// Images lists the image files directly inside the wallpaper directory,
// sorted by name.
func (w *Wallpaper) Images() ([]string, error) {
	entries, err := afero.ReadDir(w.fs, w.Dir())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrNotFound, "cannot read wallpaper directory %s", w.Dir())
	}
	var images []string
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		images = append(images, e.Name())
	}
	sort.Strings(images)
	if len(images) == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "no images in %s", w.Dir())
	}
	return images, nil
}

// Pick selects an image name: at random, through rofi, or through the
// fallback chooser. A dismissed menu is a cancellation.
func (w *Wallpaper) Pick(ctx context.Context, images []string, random bool) (string, error) {
	if random {
		return images[w.rand.Intn(len(images))], nil
	}

	if runner.Available(w.runner, "rofi") {
		out, err := w.runner.Pipe(ctx, strings.Join(images, "\n"), "rofi", "-dmenu", "-i", "-p", "wallpaper")
		choice := strings.TrimSpace(out)
		if err != nil || choice == "" {
			return "", errors.New(errors.ErrCancelled, "no wallpaper selected")
		}
		return choice, nil
	}

	if w.chooser == nil {
		return "", errors.New(errors.ErrDependencyMissing, "rofi is not installed")
	}
	idx, err := w.chooser("Wallpaper", images)
	if err != nil {
		return "", err
	}
	return images[idx], nil
}

// Apply sets the wallpaper with swww
func (w *Wallpaper) Apply(ctx context.Context, name string) (string, error) {
	if !runner.Available(w.runner, "swww") {
		return "", errors.New(errors.ErrDependencyMissing, "swww is not installed")
	}
	file := filepath.Join(w.Dir(), name)
	transition := w.cfg.Transition
	if transition == "" {
		transition = "simple"
	}
	if err := w.runner.Run(ctx, "swww", "img", file, "--transition-type", transition); err != nil {
		return file, err
	}
	logger := logging.GetLogger("desktop")
	logger.Info().Str("wallpaper", file).Msg("Wallpaper applied")
	return file, nil
}

// Choose lists, picks and applies in one step, returning the applied file
func (w *Wallpaper) Choose(ctx context.Context, random bool) (string, error) {
	images, err := w.Images()
	if err != nil {
		return "", err
	}
	name, err := w.Pick(ctx, images, random)
	if err != nil {
		return "", err
	}
	return w.Apply(ctx, name)
}
