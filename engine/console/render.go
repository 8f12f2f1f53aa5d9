package console

import (
	"github.com/kuredoro/snake_serial/core"
	"github.com/kuredoro/snake_serial/engine/sim"
)

const (
	ClearHome = "\x1b[2J\x1b[H"
	Newline   = "\r\n"

	HintLine     = "Controls: w/a/s/d to move, r to restart"
	GameOverLine = "GAME OVER - press any key to restart"
	ReadErrLine  = "Input error!" + Newline

	Banner = "Snake Game Ready!" + Newline +
		"Type 'w', 'a', 's', 'd' to move:" + Newline
)

var cellChars = [...]byte{
	core.Empty:     ' ',
	core.Wall:      '#',
	core.SnakeBody: 'o',
	core.Food:      '*',
}

// Frame renders a snapshot into a complete terminal frame.
func Frame(s sim.Snapshot) []byte {
	return AppendFrame(make([]byte, 0, len(ClearHome)+s.Board.H*(s.Board.W+2)+128), s)
}

// AppendFrame appends the frame for s to dst: clear screen, the grid one
// row per line, the status line, the controls hint and, once the game is
// over, the restart notice.
func AppendFrame(dst []byte, s sim.Snapshot) []byte {
	dst = append(dst, ClearHome...)
	for y := 0; y < s.Board.H; y++ {
		for _, c := range s.Board.Row(y) {
			dst = append(dst, cellChar(c))
		}
		dst = append(dst, Newline...)
	}

	dst = append(dst, "Score: "...)
	dst = AppendUint(dst, uint32(s.Score))
	dst = append(dst, "  Length: "...)
	dst = AppendUint(dst, uint32(s.Length()))
	dst = append(dst, Newline...)

	dst = append(dst, HintLine...)
	dst = append(dst, Newline...)

	if s.GameOver {
		dst = append(dst, GameOverLine...)
		dst = append(dst, Newline...)
	}
	return dst
}

func cellChar(c core.Cell) byte {
	if int(c) >= len(cellChars) {
		return '?'
	}
	return cellChars[c]
}

// AppendUint appends the decimal form of v. Digits are collected least
// significant first and copied out in reverse.
func AppendUint(dst []byte, v uint32) []byte {
	if v == 0 {
		return append(dst, '0')
	}

	var buf [10]byte
	n := 0
	for v > 0 {
		buf[n] = byte('0' + v%10)
		v /= 10
		n++
	}
	for n > 0 {
		n--
		dst = append(dst, buf[n])
	}
	return dst
}
