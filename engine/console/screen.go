package console

import (
	"sync"

	"github.com/gdamore/tcell/v2"
)

const (
	maxEscape = 16
	lampRune  = '@'
)

// Screen is a tiny ANSI terminal drawn on a tcell screen. It understands
// exactly what the frames use: ESC[2J, ESC[H, carriage return and line
// feed. Everything else that is not printable ASCII is dropped.
type Screen struct {
	mu sync.Mutex

	s     tcell.Screen
	style tcell.Style

	row, col int
	width    int
	esc      []byte

	lamp      bool
	lampStyle tcell.Style
}

func NewScreen(s tcell.Screen) *Screen {
	return &Screen{
		s:         s,
		style:     tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack),
		lampStyle: tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorBlack),
	}
}

func (sc *Screen) Write(p []byte) (int, error) {
	if err := sc.WriteAll(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (sc *Screen) WriteAll(p []byte) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for _, b := range p {
		sc.put(b)
	}
	sc.drawLamp()
	sc.s.Show()
	return nil
}

// Set switches the indicator drawn to the right of the first row.
func (sc *Screen) Set(on bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.lamp = on
	sc.drawLamp()
	sc.s.Show()
}

func (sc *Screen) drawLamp() {
	r := ' '
	if sc.lamp {
		r = lampRune
	}
	sc.s.SetContent(sc.width+1, 0, r, nil, sc.lampStyle)
}

func (sc *Screen) put(b byte) {
	if sc.esc != nil {
		sc.escape(b)
		return
	}

	switch {
	case b == 0x1b:
		sc.esc = append(make([]byte, 0, maxEscape), b)
	case b == '\r':
		sc.col = 0
	case b == '\n':
		sc.row++
	case b < 0x20 || b > 0x7e:
	default:
		sc.s.SetContent(sc.col, sc.row, rune(b), nil, sc.style)
		sc.col++
		if sc.row == 0 && sc.col > sc.width {
			sc.width = sc.col
		}
	}
}

func (sc *Screen) escape(b byte) {
	sc.esc = append(sc.esc, b)

	switch {
	case len(sc.esc) == 2:
		if b != '[' {
			sc.esc = nil
		}
	case b >= 0x40 && b <= 0x7e:
		sc.exec(sc.esc[2:len(sc.esc)-1], b)
		sc.esc = nil
	case len(sc.esc) >= maxEscape:
		sc.esc = nil
	}
}

func (sc *Screen) exec(params []byte, final byte) {
	switch final {
	case 'J':
		if string(params) == "2" {
			sc.s.Clear()
			sc.width = 0
		}
	case 'H':
		sc.row, sc.col = 0, 0
	}
}
