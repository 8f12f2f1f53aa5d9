package console

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	welcome    = `Welcome to snake.`
	navigation = `w/a/s/d or arrows to move, r to restart, Esc to leave the game`
)

// Cover is the start screen of the local terminal front-end.
func Cover(app *tview.Application, play, quit func()) (content tview.Primitive) {
	frame := tview.NewFrame(tview.NewBox()).
		SetBorders(0, 0, 0, 0, 0, 0).
		AddText(welcome, true, tview.AlignCenter, tcell.ColorGreen).
		AddText("", true, tview.AlignCenter, tcell.ColorWhite).
		AddText(navigation, true, tview.AlignCenter, tcell.ColorDarkMagenta)

	playBtn := tview.NewButton("Play").SetSelectedFunc(play)
	quitBtn := tview.NewButton("Quit").SetSelectedFunc(quit)

	playBtn.SetExitFunc(func(tcell.Key) { app.SetFocus(quitBtn) })
	quitBtn.SetExitFunc(func(tcell.Key) { app.SetFocus(playBtn) })

	flex := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(tview.NewBox(), 0, 5, false).
		AddItem(frame, 0, 1, false).
		AddItem(tview.NewFlex().
			SetDirection(tview.FlexColumn).
			AddItem(tview.NewBox(), 0, 1, false).
			AddItem(playBtn, 20, 1, true).
			AddItem(quitBtn, 20, 1, false).
			AddItem(tview.NewBox(), 0, 1, false), 1, 1, true).
		AddItem(tview.NewBox(), 0, 5, false)
	return flex
}
