package console

import (
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/kuredoro/snake_serial/core"
)

var key2Byte = map[tcell.Key]byte{
	tcell.KeyUp:    'w',
	tcell.KeyLeft:  'a',
	tcell.KeyDown:  's',
	tcell.KeyRight: 'd',
	tcell.KeyEnter: '\r',
}

// KeySource turns key events of a tcell screen into the bytes a serial
// terminal would send. Arrow keys are translated to w/a/s/d. Escape and
// Ctrl-C close Quit instead.
type KeySource struct {
	keys     chan byte
	quit     chan struct{}
	quitOnce sync.Once
}

func NewKeySource(s tcell.Screen) *KeySource {
	ks := &KeySource{
		keys: make(chan byte, 16),
		quit: make(chan struct{}),
	}

	go ks.pump(s)

	return ks
}

func (ks *KeySource) pump(s tcell.Screen) {
	defer close(ks.keys)

	for {
		ev := s.PollEvent()
		if ev == nil {
			return
		}

		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				ks.quitOnce.Do(func() { close(ks.quit) })
				continue
			}

			b, ok := keyByte(ev)
			if !ok {
				continue
			}

			select {
			case ks.keys <- b:
			default:
			}
		}
	}
}

func keyByte(ev *tcell.EventKey) (byte, bool) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r > 0x7f {
			return 0, false
		}
		return byte(r), true
	}

	b, ok := key2Byte[ev.Key()]
	return b, ok
}

// Poll never blocks. Once the screen is finalized it reports core.ErrClosed.
// It competes with Keys for the same bytes.
func (ks *KeySource) Poll() (byte, bool, error) {
	select {
	case b, ok := <-ks.keys:
		if !ok {
			return 0, false, core.ErrClosed
		}
		return b, true, nil
	default:
		return 0, false, nil
	}
}

// Keys exposes the translated key bytes directly. It is the channel Poll
// drains, so a caller uses either Keys or Poll, never both.
func (ks *KeySource) Keys() <-chan byte {
	return ks.keys
}

func (ks *KeySource) Quit() <-chan struct{} {
	return ks.quit
}
