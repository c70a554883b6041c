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

	"github.com/tomz197/starfall/internal/config"
	"github.com/tomz197/starfall/internal/draw"
	loopconfig "github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/client"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/world"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

// games tracks the running per-connection games so shutdown can stop them.
type games struct {
	cfg    world.Config
	ctx    context.Context
	wg     sync.WaitGroup
	logger *log.Logger
}

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "starfall"})

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	logger.Info("ssh config", "host", host, "port", port, "hostKey", hostKeyPath)

	cfg, err := world.ConfigFromEnv(world.DefaultConfig())
	if err != nil {
		logger.Fatal("bad configuration", "err", err)
	}

	ctx, cancelGames := context.WithCancel(context.Background())
	defer cancelGames()
	g := &games{cfg: cfg, ctx: ctx, logger: logger}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			g.middleware,
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
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

	logger.Info("starting ssh server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("shutting down")

	// Stop every game first so clients restore their terminals
	cancelGames()
	g.wait(loopconfig.ShutdownDeadline)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// wait blocks until all games end or the deadline passes.
func (g *games) wait(deadline time.Duration) {
	finished := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
	case <-time.After(deadline):
		g.logger.Warn("games still running at shutdown deadline")
	}
}

// middleware runs one independent game per SSH session.
func (g *games) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		g.wg.Add(1)
		defer g.wg.Done()

		logger := g.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("game session", "term", pty.Term, "width", pty.Window.Width, "height", pty.Window.Height)

		win := newWindow(pty.Window)
		go win.follow(winCh)

		if err := g.play(sess, win, logger); err != nil {
			logger.Error("game error", "err", err)
		}
		logger.Info("session ended")
		next(sess)
	}
}

func (g *games) play(sess ssh.Session, win *window, logger *log.Logger) error {
	cfg := g.cfg
	cfg.Logger = logger.WithPrefix("world")

	game, err := server.New(cfg, server.Options{Logger: logger.WithPrefix("session")})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(g.ctx)
	defer cancel()
	go func() {
		select {
		case <-sess.Context().Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	go game.Run(ctx)

	// Remote players get no audio and no persisted settings.
	c := client.New(game, bufio.NewReader(sess), sess, client.Options{
		TermSizeFunc: win.size,
		Inactivity:   true,
		Logger:       logger.WithPrefix("client"),
	})
	return c.Run(ctx)
}

// window holds the latest PTY size reported by the remote terminal.
type window struct {
	mu   sync.Mutex
	w, h int
}

func newWindow(w ssh.Window) *window {
	return &window{w: w.Width, h: w.Height}
}

// follow applies resize events until the channel closes with the session.
func (win *window) follow(changes <-chan ssh.Window) {
	for c := range changes {
		win.mu.Lock()
		win.w, win.h = c.Width, c.Height
		win.mu.Unlock()
	}
}

func (win *window) size() (int, int, error) {
	win.mu.Lock()
	defer win.mu.Unlock()
	return win.w, win.h, nil
}

var _ draw.TermSizeFunc = (*window)(nil).size
