// Package theme resolves Ghostty theme files by name and parses them into a
// terminal palette. Themes are looked up in the terminal's bundled resources, the
// user's config and data directories, and finally the themes embedded in aether.
package theme
