package link

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"

	"github.com/kuredoro/snake_serial/core"
	"github.com/libp2p/go-libp2p/core/network"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Link turns a byte stream into a non-blocking input source and an ordered
// output sink. A reader goroutine moves incoming bytes into a buffered
// channel which Poll drains one byte at a time.
type Link struct {
	name string
	rwc  io.ReadWriteCloser
	done chan struct{}
	in   chan byte
	errs chan error

	errMu    sync.Mutex
	err      error
	reported bool

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error

	log zerolog.Logger
}

// MaxReadFailures is how many reads in a row may fail without delivering
// a byte before the stream is treated as gone.
const MaxReadFailures = 16

func New(name string, rwc io.ReadWriteCloser) *Link {
	l := &Link{
		name: name,
		rwc:  rwc,
		done: make(chan struct{}),
		in:   make(chan byte, 64),
		errs: make(chan error, 1),

		log: log.Logger.With().Str("link", name).Logger(),
	}

	go l.readLoop()

	return l
}

func (l *Link) Name() string {
	return l.name
}

func (l *Link) readLoop() {
	defer close(l.in)

	buf := make([]byte, 64)
	failures := 0
	for {
		n, err := l.rwc.Read(buf)
		for _, b := range buf[:n] {
			select {
			case l.in <- b:
			case <-l.done:
				return
			}
		}

		if err == nil || n > 0 {
			failures = 0
		}
		if err == nil {
			continue
		}

		if !isClosed(err) {
			failures++
		}

		if isClosed(err) || failures >= MaxReadFailures {
			l.errMu.Lock()
			l.err = err
			l.errMu.Unlock()

			l.log.Debug().Err(err).Msg("Reader stopped")
			return
		}

		l.log.Debug().Err(err).Int("failures", failures).Msg("Read failed")

		// At most one error stays pending.
		select {
		case l.errs <- err:
		default:
		}
	}
}

// Poll returns the next received byte if there is one. A failed read is
// reported as an error and reading goes on. Once the stream has ended
// every call returns an error wrapping core.ErrClosed.
func (l *Link) Poll() (byte, bool, error) {
	select {
	case b, ok := <-l.in:
		if !ok {
			return 0, false, l.readErr()
		}
		return b, true, nil
	default:
	}

	select {
	case err := <-l.errs:
		return 0, false, &core.LinkError{Link: l.name, Err: err}
	default:
		return 0, false, nil
	}
}

// readErr reports why the reader gave up once, if it gave up on a failure
// rather than on closure.
func (l *Link) readErr() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()

	if l.err == nil || l.reported || isClosed(l.err) {
		return &core.LinkError{Link: l.name, Err: core.ErrClosed}
	}

	l.reported = true
	return &core.LinkError{Link: l.name, Err: l.err}
}

// WriteAll writes p completely or fails.
func (l *Link) WriteAll(p []byte) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	for len(p) > 0 {
		n, err := l.rwc.Write(p)
		if err != nil {
			if isClosed(err) {
				err = core.ErrClosed
			}
			return &core.LinkError{Link: l.name, Err: err}
		}
		if n == 0 {
			return &core.LinkError{Link: l.name, Err: io.ErrShortWrite}
		}
		p = p[n:]
	}

	return nil
}

func (l *Link) Close() error {
	l.closeOnce.Do(func() {
		close(l.done)
		if err := l.rwc.Close(); err != nil {
			l.closeErr = fmt.Errorf("close link %s: %w", l.name, err)
		}
	})
	return l.closeErr
}

func isClosed(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrClosedPipe) ||
		errors.Is(err, net.ErrClosed) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, network.ErrReset) ||
		isPortClosed(err)
}
