package link

import (
	"errors"
	"fmt"

	"go.bug.st/serial"
)

// SerialLink is a Link over a UART. Its DTR line doubles as the
// direction lamp of the board.
type SerialLink struct {
	*Link

	port serial.Port
}

// OpenSerial opens a UART at baud, 8N1.
func OpenSerial(port string, baud int) (*SerialLink, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	p, err := serial.Open(port, mode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", port, err)
	}

	return &SerialLink{
		Link: New(port, p),
		port: p,
	}, nil
}

// Set drives DTR. Failures are only logged.
func (sl *SerialLink) Set(on bool) {
	if err := sl.port.SetDTR(on); err != nil {
		sl.log.Warn().Err(err).Bool("on", on).Msg("Set DTR")
	}
}

func isPortClosed(err error) bool {
	var pe *serial.PortError
	return errors.As(err, &pe) && pe.Code() == serial.PortClosed
}
