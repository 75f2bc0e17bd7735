// Package config provides user configuration management for wizlocal.
//
// This package manages a YAML-based configuration file that remembers the
// lights the controller has heard from, keyed by MAC, together with
// user-defined nicknames and application preferences. The configuration
// follows OS-specific conventions for storage location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/wizlocal/config.yaml or $HOME/.config/wizlocal/config.yaml
//   - macOS: $HOME/.config/wizlocal/config.yaml
//   - Windows: %LOCALAPPDATA%\wizlocal\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetLightNickname("a8bb50a4f94d", "Desk Lamp")
//	ip, err := registry.ResolveTarget("desk lamp")
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes. Registry
// methods that modify lights are safe to call from the listener callback.
package config
