package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/ricochet/internal/config"
	"github.com/tomz197/ricochet/internal/draw"
	"github.com/tomz197/ricochet/internal/loop"
	loopconfig "github.com/tomz197/ricochet/internal/loop/config"
	"github.com/tomz197/ricochet/internal/scene"
	"github.com/tomz197/ricochet/internal/sim"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger := config.NewLogger(os.Stderr, "ricochet-ssh")

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	scenePath := config.GetEnv("RICOCHET_SCENE", "")
	idle := config.GetEnvDuration("RICOCHET_IDLE_TIMEOUT", loopconfig.InactivityDisconnectUser)
	idleWarn := config.GetEnvDuration("RICOCHET_IDLE_WARN", loopconfig.InactivityWarnUser)
	maxBounces := config.GetEnvInt("RICOCHET_MAX_BOUNCES", sim.DefaultMaxBounces)

	// Every session gets its own world over this shared, read-only layout.
	layout, err := scene.LoadLayout(scenePath)
	if err != nil {
		logger.Fatal("failed to load scene", "err", err)
	}
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"scene", layout.Name, "idle", idle, "idleWarn", idleWarn, "maxBounces", maxBounces)

	ctx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()

	sessions := &sessionTracker{}
	handler := sandboxMiddleware(ctx, sessions, layout, logger, loop.Options{
		MaxBounces:  maxBounces,
		IdleTimeout: idle,
		IdleWarn:    idleWarn,
	})

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			handler,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY so key presses are not batched
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// End every session loop first so terminals are restored before the
	// connections close.
	cancelSessions()
	if !sessions.closeAndWait(5 * time.Second) {
		logger.Warn("sessions still running after timeout")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// sandboxMiddleware runs one independent sandbox per SSH session.
func sandboxMiddleware(ctx context.Context, sessions *sessionTracker, layout *scene.Layout, logger *log.Logger, opts loop.Options) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			if !sessions.begin() {
				fmt.Fprintln(sess, "Server is shutting down.")
				return
			}
			defer sessions.end()

			id := uuid.NewString()
			sessLogger := logger.With("session", id, "user", sess.User())
			sessLogger.Info("New sandbox session", "terminal", pty.Term,
				"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			// Stop when either the server shuts down or the client goes away.
			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				select {
				case <-sess.Context().Done():
					cancel()
				case <-runCtx.Done():
				}
			}()

			sessOpts := opts
			sessOpts.TermSizeFunc = sizeTracker.getSize
			sessOpts.Logger = sessLogger

			sandbox := loop.NewSession(layout, bufio.NewReader(sess), sess, sessOpts)
			if err := sandbox.Run(runCtx); err != nil {
				sessLogger.Error("Sandbox error", "err", err)
			}

			next(sess)
		}
	}
}

// sessionTracker counts running sandboxes and refuses new ones once
// shutdown has started.
type sessionTracker struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// begin registers a session. It returns false after closeAndWait.
func (t *sessionTracker) begin() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return false
	}
	t.wg.Add(1)
	return true
}

func (t *sessionTracker) end() {
	t.wg.Done()
}

// closeAndWait stops accepting sessions and waits for running ones,
// giving up after d. It reports whether every session ended.
func (t *sessionTracker) closeAndWait(d time.Duration) bool {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
