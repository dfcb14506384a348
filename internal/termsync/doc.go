// Package termsync keeps aether's palette in step with the terminal's theme.
//
// A sync reads the theme name from the terminal config, resolves and parses the
// theme file, maps it onto base16, merges it under the user's color overrides and
// asks the host to re-apply the theme. Syncs run on the host loop one at a time;
// automatic triggers are debounced and skipped when the theme name is unchanged.
package termsync
