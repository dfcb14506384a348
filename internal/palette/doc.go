// Package palette holds the sixteen color terminal palette read from a theme file
// and the base16 palette the highlight layer consumes. ToBase16 is the only bridge
// between the two and is a pure function of its input.
package palette
