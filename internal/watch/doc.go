// Package watch notices changes to files aether depends on: the terminal config
// (through fsnotify) and aether's own config file (by polling, for live reload).
package watch
