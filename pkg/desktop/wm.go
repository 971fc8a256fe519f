// Package desktop holds the Wayland desktop helpers: compositor status and
// the wallpaper chooser. Both only shell out to the compositor, swww and
// rofi through a runner.Runner.
package desktop

import (
	"context"
	"encoding/json"
	"os"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/logging"
	"github.com/arthur-debert/dotstow/pkg/runner"
)

// Compositor names
const (
	Hyprland = "hyprland"
	Niri     = "niri"
	None     = "none"
)

// Environment variables the compositors export to their clients
const (
	EnvHyprland = "HYPRLAND_INSTANCE_SIGNATURE"
	EnvNiri     = "NIRI_SOCKET"
)

// WMStatus is the state of the running compositor and wallpaper daemon
type WMStatus struct {
	Compositor string `json:"compositor" yaml:"compositor"`
	Workspace  string `json:"workspace,omitempty" yaml:"workspace,omitempty"`
	Output     string `json:"output,omitempty" yaml:"output,omitempty"`
	Windows    int    `json:"windows,omitempty" yaml:"windows,omitempty"`
	Swww       bool   `json:"swww" yaml:"swww"`
}

type hyprWorkspace struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Monitor string `json:"monitor"`
	Windows int    `json:"windows"`
}

type niriOutput struct {
	Name  string `json:"name"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

// Getenv looks up environment variables; os.Getenv in production
type Getenv func(string) string

// DetectCompositor names the compositor from its socket variables
func DetectCompositor(getenv Getenv) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	switch {
	case getenv(EnvHyprland) != "":
		return Hyprland
	case getenv(EnvNiri) != "":
		return Niri
	default:
		return None
	}
}

// Status queries the compositor for the focused workspace or output and
// probes the swww daemon. Missing helper binaries are recoverable errors;
// whatever could be determined is still returned.
func Status(ctx context.Context, r runner.Runner, getenv Getenv) (*WMStatus, error) {
	logger := logging.GetLogger("desktop")
	st := &WMStatus{Compositor: DetectCompositor(getenv)}

	var err error
	switch st.Compositor {
	case Hyprland:
		err = hyprlandStatus(ctx, r, st)
	case Niri:
		err = niriStatus(ctx, r, st)
	}
	if err != nil {
		logger.Warn().Err(err).Str("compositor", st.Compositor).Msg("Compositor query failed")
	}

	if runner.Available(r, "swww") {
		_, qerr := r.Output(ctx, "swww", "query")
		st.Swww = qerr == nil
	} else if err == nil {
		err = errors.New(errors.ErrDependencyMissing, "swww is not installed")
	}
	return st, err
}

func hyprlandStatus(ctx context.Context, r runner.Runner, st *WMStatus) error {
	if !runner.Available(r, "hyprctl") {
		return errors.New(errors.ErrDependencyMissing, "hyprctl is not installed")
	}
	out, err := r.Output(ctx, "hyprctl", "activeworkspace", "-j")
	if err != nil {
		return err
	}
	var ws hyprWorkspace
	if err := json.Unmarshal([]byte(out), &ws); err != nil {
		return errors.Wrap(err, errors.ErrStepFailed, "cannot parse hyprctl output")
	}
	st.Workspace = ws.Name
	st.Output = ws.Monitor
	st.Windows = ws.Windows
	return nil
}

func niriStatus(ctx context.Context, r runner.Runner, st *WMStatus) error {
	if !runner.Available(r, "niri") {
		return errors.New(errors.ErrDependencyMissing, "niri is not installed")
	}
	out, err := r.Output(ctx, "niri", "msg", "--json", "focused-output")
	if err != nil {
		return err
	}
	var o niriOutput
	if err := json.Unmarshal([]byte(out), &o); err != nil {
		return errors.Wrap(err, errors.ErrStepFailed, "cannot parse niri output")
	}
	st.Output = o.Name
	return nil
}
