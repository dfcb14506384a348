package theme

import (
	"embed"
	"io/fs"
)

//go:embed themes/*
var embeddedThemes embed.FS

// EmbeddedFS returns the theme files shipped with aether, rooted at the themes
// directory.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedThemes, "themes")
	if err != nil {
		// only fails for an invalid literal path
		panic(err)
	}
	return sub
}
