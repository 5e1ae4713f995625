// Package registry provides the application registry for NexusOS.
//
// The registry is an immutable table mapping an application id to its
// descriptor: title, icon, default size, single-instance policy and the
// content provider that renders the window body. It is populated once,
// before any window can open, either from the builtin catalogue or from a
// manifest file, and is never mutated afterwards.
//
// Components:
//   - Manager: Read-only lookup table
//   - Catalog: Content provider keys resolved once per application at load
//   - LoadManifest: Reads .yaml, .toml or .json manifests
//
// Manifest Structure (YAML):
//
//	apps:
//	  - id: settings
//	    title: Sys Config
//	    default_width: 800
//	    default_height: 550
//	    singleton: true
//	    content: system_settings
//
// Example Usage:
//
//	reg, err := registry.Load(cfg.Registry.Manifest, registry.DefaultCatalog())
//	desc, ok := reg.Lookup("settings")
package registry
