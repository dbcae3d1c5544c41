// Package config loads, normalizes, and validates soundmod configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a .env file from the working directory,
// and honours environment fallbacks such as SOUNDMOD_GAME_DIR. The Config type
// centralizes every knob the build pipeline and CLI need: game and source
// directories, the mod identity, WwiseCLI settings, and logging.
//
// Always obtain settings through this package so downstream code receives
// expanded paths, a mod prefix ending in "_", and clear validation errors.
package config
