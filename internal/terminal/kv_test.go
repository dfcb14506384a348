package terminal

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		input string
		key   string
		value string
		ok    bool
	}{
		{`theme = Dracula`, "theme", "Dracula", true},
		{`theme = "Dracula"`, "theme", "Dracula", true},
		{`theme='Catppuccin Mocha'`, "theme", "Catppuccin Mocha", true},
		{`   font-size   =   13   `, "font-size", "13", true},
		{`palette = 1=#ff0000`, "palette", "1=#ff0000", true},
		{`theme = "unbalanced`, "theme", `"unbalanced`, true},
		{`theme =`, "theme", "", true},
		{`# theme = Dracula`, "", "", false},
		{`   # indented comment`, "", "", false},
		{``, "", "", false},
		{`   `, "", "", false},
		{`not a pair`, "", "", false},
		{`= value`, "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			key, value, ok := ParseLine(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestParse_LastAssignmentWins(t *testing.T) {
	cfg, err := Parse(strings.NewReader("theme = One\n# comment\ngarbage line\ntheme = Two\n"))
	require.NoError(t, err)
	assert.Equal(t, Config{"theme": "Two"}, cfg)
}

func TestScan_ReportsRepeatedKeys(t *testing.T) {
	var values []string
	err := Scan(strings.NewReader("palette = 0=#000000\npalette = 1=#111111\n"), func(key, value string) {
		if key == "palette" {
			values = append(values, value)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"0=#000000", "1=#111111"}, values)
}

func TestFormat_StableOnCleanInput(t *testing.T) {
	input := "background = #101010\nfont-family = JetBrains Mono\ntheme = Dracula\n"

	cfg, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, cfg.format(&buf))
	assert.Equal(t, input, buf.String())

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}
