package palette

import (
	"fmt"
	"sort"
	"strings"
)

// Slot identifies one of the sixteen base16 colors.
type Slot int

const (
	Base00 Slot = iota
	Base01
	Base02
	Base03
	Base04
	Base05
	Base06
	Base07
	Base08
	Base09
	Base0A
	Base0B
	Base0C
	Base0D
	Base0E
	Base0F
)

// SlotCount is the number of base16 slots.
const SlotCount = 16

// String returns the canonical slot name, e.g. "base0A".
func (s Slot) String() string {
	if s < 0 || s >= SlotCount {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return fmt.Sprintf("base0%X", int(s))
}

// Slots returns all slots in order.
func Slots() []Slot {
	slots := make([]Slot, SlotCount)
	for i := range slots {
		slots[i] = Slot(i)
	}
	return slots
}

// ParseSlot resolves a slot name. Matching is case-insensitive on the hex digit,
// so "base0a" and "base0A" are equivalent.
func ParseSlot(name string) (Slot, bool) {
	for _, s := range Slots() {
		if strings.EqualFold(s.String(), name) {
			return s, true
		}
	}
	return 0, false
}

// Base16 holds one hex color per slot. An empty string means the slot is absent
// and consumers should inherit rather than override.
type Base16 [SlotCount]string

// Get returns the color in a slot and whether it is present.
func (b Base16) Get(s Slot) (string, bool) {
	if s < 0 || s >= SlotCount || b[s] == "" {
		return "", false
	}
	return b[s], true
}

// Map returns the present slots keyed by slot name.
func (b Base16) Map() map[string]string {
	m := make(map[string]string, SlotCount)
	for _, s := range Slots() {
		if c, ok := b.Get(s); ok {
			m[s.String()] = c
		}
	}
	return m
}

// FromMap builds a Base16 from slot-name keys. Unknown keys are ignored.
func FromMap(m map[string]string) Base16 {
	var b Base16
	for k, v := range m {
		if s, ok := ParseSlot(k); ok {
			b[s] = v
		}
	}
	return b
}

// Terminal is a sixteen color terminal palette plus its named special colors.
// Indexes outside 0-15 are kept as parsed; they are simply never read by the mapper.
type Terminal struct {
	Colors      map[int]string `json:"colors" yaml:"colors" toml:"colors"`
	Background  string         `json:"background,omitempty" yaml:"background,omitempty" toml:"background,omitempty"`
	Foreground  string         `json:"foreground,omitempty" yaml:"foreground,omitempty" toml:"foreground,omitempty"`
	Cursor      string         `json:"cursor,omitempty" yaml:"cursor,omitempty" toml:"cursor,omitempty"`
	CursorText  string         `json:"cursor_text,omitempty" yaml:"cursor_text,omitempty" toml:"cursor_text,omitempty"`
	SelectionBG string         `json:"selection_bg,omitempty" yaml:"selection_bg,omitempty" toml:"selection_bg,omitempty"`
	SelectionFG string         `json:"selection_fg,omitempty" yaml:"selection_fg,omitempty" toml:"selection_fg,omitempty"`
}

// NewTerminal returns an empty terminal palette.
func NewTerminal() *Terminal {
	return &Terminal{Colors: make(map[int]string)}
}

// Color returns palette entry i and whether it is set.
func (t *Terminal) Color(i int) (string, bool) {
	if t == nil {
		return "", false
	}
	c, ok := t.Colors[i]
	return c, ok && c != ""
}

// Indexes returns the set palette indexes in ascending order.
func (t *Terminal) Indexes() []int {
	idx := make([]int, 0, len(t.Colors))
	for i := range t.Colors {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return idx
}
