package preview

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/aether/internal/config"
	"github.com/jmylchreest/aether/internal/palette"
)

func TestContrastText(t *testing.T) {
	assert.Equal(t, "#000000", ContrastText("#ffffff"))
	assert.Equal(t, "#000000", ContrastText("#f1fa8c"))
	assert.Equal(t, "#ffffff", ContrastText("#000000"))
	assert.Equal(t, "#ffffff", ContrastText("#282a36"))
	assert.Equal(t, "#ffffff", ContrastText("not-a-color"))
}

func TestRender_ContainsEverySlot(t *testing.T) {
	var b palette.Base16
	b[palette.Base00] = "#1e1e2e"
	b[palette.Base08] = "#ff0000"

	out := Render(b)
	for _, s := range palette.Slots() {
		assert.Contains(t, out, s.String())
	}
	assert.Contains(t, out, "#1e1e2e")
	assert.Contains(t, out, "#ff0000")
}

func TestTable(t *testing.T) {
	var b palette.Base16
	b[palette.Base0A] = "#f1fa8c"

	lines := strings.Split(strings.TrimSpace(Table(b)), "\n")
	require.Len(t, lines, palette.SlotCount)
	assert.Equal(t, "base00  -", lines[0])
	assert.Equal(t, "base0A  #f1fa8c", lines[10])
}

func TestApplier_ApplyAndInvalidate(t *testing.T) {
	var buf bytes.Buffer
	a := NewApplier(&buf, nil)

	cfg := config.DefaultConfig()
	cfg.Colors["base00"] = "#101010"

	require.NoError(t, a.ApplyTheme(context.Background(), cfg))
	assert.Contains(t, buf.String(), "#101010")
	assert.True(t, a.valid)

	a.InvalidateCache()
	assert.False(t, a.valid)
	assert.Empty(t, a.cached)

	cfg.Colors["base00"] = "#202020"
	require.NoError(t, a.ApplyTheme(context.Background(), cfg))
	assert.Contains(t, buf.String(), "#202020")
	assert.Equal(t, 2, a.Applied())
}

func TestApplier_CanceledContext(t *testing.T) {
	a := NewApplier(nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, a.ApplyTheme(ctx, config.DefaultConfig()))
	assert.Equal(t, 0, a.Applied())
}
