// Package config loads dotstow's layered configuration.
//
// Layers, later wins:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. user file ($XDG_CONFIG_HOME/dotstow/config.toml)
//  3. repository file (<dotfiles>/dotstow.toml or .dotstow.toml)
//  4. DOTSTOW_<SECTION>_<KEY> environment variables
//  5. explicit overrides (CLI flags)
//
// The resulting Config also carries the application registry (apps.*) and the
// tool registry (tools.*, groups.*) used by the linker and the installer.
package config
