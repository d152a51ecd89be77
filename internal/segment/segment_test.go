package segment

import (
	"testing"

	"github.com/rcornwell/mips32/internal/layout"
)

func TestClassify(t *testing.T) {
	l := layout.Default()
	cases := []struct {
		name string
		addr uint32
		want Kind
	}{
		{"below text", l.Text.Start - 4, None},
		{"text start", l.Text.Start, Text},
		{"text end", l.Text.End, Text},
		{"just past text, in data gap", l.Text.End + 4, None},
		{"global bot", l.Global.Bot, Data},
		{"just below stack bot", l.Stack.Bot - 1, Data},
		{"stack bot", l.Stack.Bot, Stack},
		{"stack top", l.Stack.Top, Stack},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(l, c.addr); got != c.want {
				t.Errorf("Classify(0x%x) = %v, want %v", c.addr, got, c.want)
			}
		})
	}
}
