// Package confloader loads layered configuration with koanf.
//
// Sources, lowest to highest priority:
//
//  1. Defaults already present in the target struct
//  2. A YAML configuration file
//  3. Prefixed environment variables (LTRGATE_SECTION_KEY)
//  4. Aliased environment variables (exact names mapped to keys)
//  5. Maps supplied by the caller, typically parsed flags
//
// Watcher reports changes to configuration files so the server can reload
// the settings that support it.
package confloader
