package dotstow

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Link your dotfiles into place and install the tools they need"
	MsgInstallShort    = "Back up conflicting files and link every package (default)"
	MsgUninstallShort  = "Remove the links dotstow created, for everything or one app"
	MsgRestowShort     = "Unlink and relink every package without taking backups"
	MsgStowAppShort    = "Link the files of one app"
	MsgUnstowAppShort  = "Remove the links of one app"
	MsgAdoptShort      = "Move an app's existing files into the dotfiles, then link them"
	MsgBackupShort     = "Copy the files an install would replace, without linking"
	MsgCleanupShort    = "Remove broken symlinks that point into the dotfiles"
	MsgToolsShort      = "Install the command line tools group"
	MsgFontsShort      = "Install the configured fonts"
	MsgFishShort       = "Install the fish shell"
	MsgZellijShort     = "Install the zellij terminal multiplexer"
	MsgK9sShort        = "Install the k9s Kubernetes TUI"
	MsgMCPShort        = "Install the MCP server tools group"
	MsgSubmodulesShort = "Initialize and update the dotfiles git submodules"
	MsgStatusShort     = "Show what is linked, broken or missing"
	MsgHistoryShort    = "List previous runs, newest first"
	MsgDoctorShort     = "Check that everything dotstow needs is in place"
	MsgGenConfigShort  = "Print the effective configuration as TOML"
	MsgTopicsShort     = "Display available documentation topics"
	MsgManShort        = "Generate man pages"
	MsgCompletionShort = "Generate shell completion script"
	MsgVersionShort    = "Print version information"
	MsgWMStatusShort   = "Show the compositor and wallpaper daemon state"
	MsgWallpaperShort  = "Pick a wallpaper and apply it with swww"

	// Status messages
	MsgCancelled       = "Cancelled, nothing was changed."
	MsgSimulateNotice  = "Simulation only: no files were changed."
	MsgFallbackWarning = "Warning: no dotfiles root configured, using %s\n"
	MsgConfigWritten   = "Wrote %s\n"
	MsgManWritten      = "Wrote man pages to %s\n"
	MsgWallpaperSet    = "Wallpaper set to %s"
	MsgVersionFormat   = "dotstow version %s\n  commit: %s\n  built:  %s\n"

	// Flag descriptions
	MsgFlagVerbose     = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDotfiles    = "Dotfiles repository root (default: $DOTFILES_ROOT or ~/dotfiles)"
	MsgFlagTarget      = "Directory links are created in (default: $HOME)"
	MsgFlagFormat      = "Output format: auto, term, text, json or yaml"
	MsgFlagSimulate    = "Print every decision without changing anything"
	MsgFlagInteractive = "Ask before changing anything"
	MsgFlagBackend     = "Link backend: stow, native or auto"
	MsgFlagWithTools   = "Also install the tools group"
	MsgFlagUpdateSubs  = "Update git submodules to their upstream heads first"
	MsgFlagNoBackup    = "Fail instead of backing up files that are in the way"
	MsgFlagAdopt       = "Move real files in the way into the package instead of backing them up"
	MsgFlagRemote      = "Pull the submodules' upstream heads"
	MsgFlagDeps        = "Probe each app's binaries"
	MsgFlagFonts       = "Check the configured font families"
	MsgFlagGit         = "Report git and submodule state"
	MsgFlagAll         = "Enable every optional status section"
	MsgFlagLimit       = "Number of runs to show"
	MsgFlagOutput      = "Write to this file instead of stdout"
	MsgFlagManDir      = "Directory to write the man pages to"
	MsgFlagRandom      = "Pick a random wallpaper instead of asking"
)

// MsgRootLong is the root command's long help
const MsgRootLong = `dotstow keeps a dotfiles repository linked into your home directory.

The repository holds one directory per package: "common" for files every
machine gets and one per OS ("macos", "linux", "windows"). Installing links
every file of the active packages into the target directory, backing up any
real file that is in the way first. Run with --simulate to see every decision
before anything changes.

Run "dotstow help topics" for the longer documentation.`
