// pkg/probe/probe_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: FakeRunner
// PURPOSE: Test binary probing, version parsing and font index parsing

package probe_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dotstow/pkg/errors"
	"github.com/arthur-debert/dotstow/pkg/platform"
	"github.com/arthur-debert/dotstow/pkg/probe"
	"github.com/arthur-debert/dotstow/pkg/testutil"
)

const fontPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<array>
	<dict>
		<key>_items</key>
		<array>
			<dict>
				<key>_name</key>
				<string>JetBrainsMonoNerdFont-Regular.ttf</string>
				<key>typefaces</key>
				<array>
					<dict>
						<key>family</key>
						<string>JetBrainsMono Nerd Font</string>
						<key>fullname</key>
						<string>JetBrainsMono Nerd Font Regular</string>
					</dict>
				</array>
			</dict>
			<dict>
				<key>typefaces</key>
				<array>
					<dict>
						<key>family</key>
						<string>Menlo</string>
					</dict>
					<dict>
						<key>family</key>
						<string>Menlo</string>
					</dict>
				</array>
			</dict>
		</array>
	</dict>
</array>
</plist>`

func TestBinaryFirstCandidateWins(t *testing.T) {
	r := testutil.NewFakeRunner("fdfind")
	r.Outputs["fdfind --version"] = "fdfind 8.7.0\n"

	res := probe.New(r, platform.Linux).Binary(context.Background(), "fd", "fd", "fdfind")

	assert.True(t, res.Present)
	assert.Equal(t, "fdfind", res.Binary)
	assert.Equal(t, "/fake/bin/fdfind", res.Path)
	assert.Equal(t, "8.7.0", res.Version)
}

func TestBinaryMissing(t *testing.T) {
	r := testutil.NewFakeRunner()
	res := probe.New(r, platform.Linux).Binary(context.Background(), "stow")
	assert.False(t, res.Present)
	assert.Equal(t, "stow", res.Name)
}

func TestBinaryWithoutVersion(t *testing.T) {
	r := testutil.NewFakeRunner("stow")
	res := probe.New(r, platform.Linux).Binary(context.Background(), "stow")
	assert.True(t, res.Present)
	assert.Empty(t, res.Version)
}

func TestParseVersion(t *testing.T) {
	tests := map[string]string{
		"stow (GNU Stow) version 2.3.1": "2.3.1",
		"git version 2.43.0":            "2.43.0",
		"NVIM v0.10.0\nBuild type":      "0.10.0",
		"zellij 0.40":                   "0.40",
		"no version here":               "",
	}
	for in, want := range tests {
		assert.Equal(t, want, probe.ParseVersion(in), in)
	}
}

func TestFontLinux(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Outputs["fc-list : family"] = "DejaVu Sans\nJetBrainsMono Nerd Font,JetBrainsMono NF\nJetBrainsMono Nerd Font Mono\n"
	p := probe.New(r, platform.Linux)

	ok, err := p.Font(context.Background(), "jetbrainsmono nerd font")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.Font(context.Background(), "Fira Code")
	require.NoError(t, err)
	assert.False(t, ok)

	calls := 0
	for _, c := range r.Calls {
		if c == "output fc-list : family" {
			calls++
		}
	}
	assert.Equal(t, 1, calls, "font index is read once")
}

func TestFontMacOS(t *testing.T) {
	r := testutil.NewFakeRunner()
	r.Outputs["system_profiler SPFontsDataType -xml"] = fontPlist
	p := probe.New(r, platform.MacOS)

	ok, err := p.Font(context.Background(), "JetBrainsMono Nerd Font")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestFontIndexUnavailable(t *testing.T) {
	r := testutil.NewFakeRunner()
	_, err := probe.New(r, platform.Linux).Font(context.Background(), "Menlo")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrDependencyMissing))
}

func TestParseFontPlist(t *testing.T) {
	families, err := probe.ParseFontPlist([]byte(fontPlist))
	require.NoError(t, err)
	assert.Equal(t, []string{"JetBrainsMono Nerd Font", "Menlo"}, families)

	_, err = probe.ParseFontPlist([]byte("<plist><<</plist>"))
	assert.Error(t, err)
}

func TestParseFcList(t *testing.T) {
	families := probe.ParseFcList("A,B\n\nB\nC\n")
	assert.Equal(t, []string{"A", "B", "C"}, families)
}
