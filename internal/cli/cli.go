// Package cli holds what the commands print to the user.
package cli

import (
	"fmt"

	"github.com/i582/cfmt/cmd/cfmt"
)

// PrintErr prints a highlighted error line. The last argument is the
// error, the ones before it format m.
func PrintErr(m string, args ...interface{}) {
	if len(args) == 0 {
		panic("PrintErr: no arguments passed")
	}

	err := args[len(args)-1]

	header := m
	if len(args) > 1 {
		header = fmt.Sprintf(m, args[:len(args)-1]...)
	}

	cfmt.Printf("{{error:}}::lightRed|bold %s %v\n", header, err)
}
