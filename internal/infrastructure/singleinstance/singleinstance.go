package singleinstance

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/LanternOps/breeze-viewer/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// ErrAlreadyRunning means another live instance holds the socket. The
// caller should forward its arguments and exit.
var ErrAlreadyRunning = errors.New("another instance is already running")

// handoff is the wire format of one forwarded activation.
type handoff struct {
	Args []string `json:"args"`
}

// SocketPath returns the per-user hand-off socket path for a scheme.
func SocketPath(scheme string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-viewer-%d.sock", scheme, os.Getuid()))
}

// Listener is the primary instance's end of the hand-off socket.
type Listener struct {
	ln      net.Listener
	handler func(args []string)
	log     *logging.Logger
}

// Listen claims the hand-off socket and invokes handler with the
// argument list of every forwarding instance. Returns
// ErrAlreadyRunning when a live instance already holds the socket; a
// stale socket left by a crashed instance is removed and reclaimed.
func Listen(path string, handler func(args []string), log *logging.Logger) (*Listener, error) {
	ln, err := net.Listen("unix", path)
	if err != nil {
		if conn, derr := net.Dial("unix", path); derr == nil {
			conn.Close()
			return nil, ErrAlreadyRunning
		}
		// Nobody answers: a previous instance crashed without cleanup.
		log.Warn("Removing stale single-instance socket", zap.String("path", path))
		if rerr := os.Remove(path); rerr != nil {
			return nil, fmt.Errorf("remove stale socket: %w", rerr)
		}
		ln, err = net.Listen("unix", path)
		if err != nil {
			return nil, fmt.Errorf("claim single-instance socket: %w", err)
		}
	}

	l := &Listener{ln: ln, handler: handler, log: log}
	go l.accept()
	return l, nil
}

// Forward sends this process's argument list to the primary instance.
func Forward(path string, args []string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return fmt.Errorf("dial primary instance: %w", err)
	}
	defer conn.Close()

	if err := json.NewEncoder(conn).Encode(handoff{Args: args}); err != nil {
		return fmt.Errorf("forward arguments: %w", err)
	}
	return nil
}

// Close releases the socket.
func (l *Listener) Close() error {
	return l.ln.Close()
}

func (l *Listener) accept() {
	for {
		conn, err := l.ln.Accept()
		if err != nil {
			// Listener closed on shutdown.
			return
		}
		go l.handle(conn)
	}
}

func (l *Listener) handle(conn net.Conn) {
	defer conn.Close()

	var h handoff
	if err := json.NewDecoder(conn).Decode(&h); err != nil {
		l.log.Warn("Malformed single-instance hand-off", zap.Error(err))
		return
	}
	l.log.Info("Second instance forwarded activation",
		zap.Int("args", len(h.Args)),
	)
	l.handler(h.Args)
}
