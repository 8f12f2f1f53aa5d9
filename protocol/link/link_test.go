package link_test

import (
	"errors"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/kuredoro/snake_serial/core"
	"github.com/kuredoro/snake_serial/protocol/link"
)

// pollWait polls until a byte or an error shows up.
func pollWait(t *testing.T, l *link.Link) (byte, error) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		b, ok, err := l.Poll()
		if err != nil || ok {
			return b, err
		}
		time.Sleep(time.Millisecond)
	}

	t.Fatal("nothing arrived on the link")
	return 0, nil
}

type failingStream struct {
	data []byte
	err  error
}

func (s *failingStream) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, s.err
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *failingStream) Write(p []byte) (int, error) {
	return 0, s.err
}

func (s *failingStream) Close() error {
	return nil
}

type read struct {
	data string
	err  error
}

// scriptedStream plays its reads in order and then blocks until closed.
type scriptedStream struct {
	reads  chan read
	closed chan struct{}
	once   sync.Once
}

func newScriptedStream(reads ...read) *scriptedStream {
	s := &scriptedStream{
		reads:  make(chan read, len(reads)),
		closed: make(chan struct{}),
	}
	for _, r := range reads {
		s.reads <- r
	}
	return s
}

func (s *scriptedStream) Read(p []byte) (int, error) {
	select {
	case r := <-s.reads:
		return copy(p, r.data), r.err
	default:
	}

	<-s.closed
	return 0, io.EOF
}

func (s *scriptedStream) Write(p []byte) (int, error) {
	return len(p), nil
}

func (s *scriptedStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func TestLinkPoll(t *testing.T) {
	t.Run("nothing available is not an error", func(t *testing.T) {
		a, b := net.Pipe()
		defer b.Close()
		l := link.New("pipe", a)
		defer l.Close()

		_, ok, err := l.Poll()
		if ok || err != nil {
			t.Errorf("Poll() = _, %v, %v, want false, nil", ok, err)
		}
	})

	t.Run("bytes arrive in order, then closure", func(t *testing.T) {
		a, b := net.Pipe()
		l := link.New("pipe", a)
		defer l.Close()

		go func() {
			b.Write([]byte("wasd"))
			b.Close()
		}()

		for _, want := range []byte("wasd") {
			got, err := pollWait(t, l)
			if err != nil {
				t.Fatalf("Poll() returned error: %v", err)
			}
			if got != want {
				t.Errorf("got byte %q, want %q", got, want)
			}
		}

		_, err := pollWait(t, l)
		if !errors.Is(err, core.ErrClosed) {
			t.Errorf("got error %v, want ErrClosed", err)
		}
	})

	t.Run("read failure is not the end", func(t *testing.T) {
		failure := errors.New("framing error")
		l := link.New("uart", newScriptedStream(
			read{err: failure},
			read{data: "w"},
		))
		defer l.Close()

		var gotErr error
		var gotByte bool
		for !(gotErr != nil && gotByte) {
			b, err := pollWait(t, l)
			switch {
			case err != nil:
				if !errors.Is(err, failure) {
					t.Fatalf("got error %v, want the framing error", err)
				}
				var le *core.LinkError
				if !errors.As(err, &le) || le.Link != "uart" {
					t.Errorf("got error %v, want a LinkError for uart", err)
				}
				gotErr = err
			case b != 'w':
				t.Fatalf("got byte %q, want 'w'", b)
			default:
				gotByte = true
			}
		}

		b, ok, err := l.Poll()
		if ok || err != nil {
			t.Errorf("Poll() = %q, %v, %v after the script, want nothing", b, ok, err)
		}
	})

	t.Run("closing ends a failing stream", func(t *testing.T) {
		s := newScriptedStream(read{err: errors.New("overrun")})
		l := link.New("uart", s)

		if _, err := pollWait(t, l); err == nil || errors.Is(err, core.ErrClosed) {
			t.Fatalf("got error %v, want the overrun", err)
		}

		l.Close()

		_, err := pollWait(t, l)
		if !errors.Is(err, core.ErrClosed) {
			t.Errorf("got error %v after Close, want ErrClosed", err)
		}
	})

	t.Run("persistent failure gives up", func(t *testing.T) {
		failure := errors.New("device gone")
		l := link.New("uart", &failingStream{err: failure})
		defer l.Close()

		deadline := time.Now().Add(2 * time.Second)
		for {
			_, _, err := l.Poll()
			if errors.Is(err, core.ErrClosed) {
				break
			}
			if err != nil && !errors.Is(err, failure) {
				t.Fatalf("got error %v, want the device error", err)
			}
			if time.Now().After(deadline) {
				t.Fatal("link never gave up on a stream that always fails")
			}
			time.Sleep(time.Millisecond)
		}
	})
}

func TestLinkWriteAll(t *testing.T) {
	t.Run("delivers everything", func(t *testing.T) {
		a, b := net.Pipe()
		l := link.New("pipe", a)
		defer l.Close()

		frame := []byte("\x1b[2J\x1b[H####\r\n")
		got := make(chan []byte, 1)
		go func() {
			buf := make([]byte, len(frame))
			io.ReadFull(b, buf)
			got <- buf
		}()

		if err := l.WriteAll(frame); err != nil {
			t.Fatalf("WriteAll() returned error: %v", err)
		}

		select {
		case buf := <-got:
			if string(buf) != string(frame) {
				t.Errorf("peer received %q, want %q", buf, frame)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("peer received nothing")
		}
	})

	t.Run("closed peer", func(t *testing.T) {
		a, b := net.Pipe()
		l := link.New("pipe", a)
		b.Close()
		l.Close()

		err := l.WriteAll([]byte("x"))
		if !errors.Is(err, core.ErrClosed) {
			t.Errorf("got error %v, want ErrClosed", err)
		}
	})

	t.Run("write failure", func(t *testing.T) {
		failure := errors.New("tx overrun")
		l := link.New("uart", &failingStream{err: failure})
		defer l.Close()

		if err := l.WriteAll([]byte("x")); !errors.Is(err, failure) {
			t.Errorf("got error %v, want tx overrun", err)
		}
	})
}
