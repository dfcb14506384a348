package palette

// Literal fallbacks for slots that always need a value when the terminal
// palette leaves them unset.
const (
	FallbackComment    = "#585858"
	FallbackDarkFG     = "#b8b8b8"
	FallbackBrightText = "#f8f8f8"
)

// source yields a candidate color for a slot.
type source func(t *Terminal) (string, bool)

func index(i int) source {
	return func(t *Terminal) (string, bool) { return t.Color(i) }
}

func literal(c string) source {
	return func(*Terminal) (string, bool) { return c, true }
}

func background(t *Terminal) (string, bool) { return t.Background, t.Background != "" }
func foreground(t *Terminal) (string, bool) { return t.Foreground, t.Foreground != "" }

// chains lists the candidate sources per slot, first match wins.
var chains = [SlotCount][]source{
	Base00: {background, index(0)},
	Base01: {index(8), index(0)},
	Base02: {index(8), index(0)},
	Base03: {index(8), literal(FallbackComment)},
	Base04: {index(7), literal(FallbackDarkFG)},
	Base05: {foreground, index(7)},
	Base06: {index(15), index(7)},
	Base07: {index(15), literal(FallbackBrightText)},
	Base08: {index(1)},
	Base09: {index(9), index(1)},
	Base0A: {index(3)},
	Base0B: {index(2)},
	Base0C: {index(6)},
	Base0D: {index(4)},
	Base0E: {index(5)},
	Base0F: {index(9), index(1)},
}

// ToBase16 maps a terminal palette onto the base16 slots. The result depends only
// on t; a slot whose chain has no satisfied source stays absent.
func ToBase16(t *Terminal) Base16 {
	var b Base16
	if t == nil {
		t = NewTerminal()
	}
	for slot, chain := range chains {
		for _, src := range chain {
			if c, ok := src(t); ok {
				b[slot] = c
				break
			}
		}
	}
	return b
}
