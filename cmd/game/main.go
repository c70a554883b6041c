package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/starfall/internal/audio"
	"github.com/tomz197/starfall/internal/config"
	loopconfig "github.com/tomz197/starfall/internal/loop/config"
	"github.com/tomz197/starfall/internal/loop/client"
	"github.com/tomz197/starfall/internal/loop/server"
	"github.com/tomz197/starfall/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the game, so logs go to a file when asked for
	// and nowhere otherwise.
	logger, closeLog, err := openLog(config.GetEnv("STARFALL_LOG", ""))
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := world.ConfigFromEnv(world.DefaultConfig())
	if err != nil {
		return err
	}
	cfg.Logger = logger.WithPrefix("world")

	settingsPath := config.DefaultSettingsPath()
	settings, err := config.LoadSettings(settingsPath)
	if err != nil {
		logger.Warn("using default settings", "err", err)
	}

	audioOn, err := config.GetEnvBool("STARFALL_AUDIO", true)
	if err != nil {
		return err
	}

	sess, err := server.New(cfg, server.Options{Logger: logger.WithPrefix("session")})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sess.Run(ctx)

	sound := audio.New(audio.Options{Enabled: audioOn, Logger: logger.WithPrefix("audio")})
	feed, unsubscribe := sess.Subscribe(loopconfig.EventBufferSize)
	defer unsubscribe()
	go sound.Run(ctx, feed)

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	c := client.New(sess, bufio.NewReader(os.Stdin), os.Stdout, client.Options{
		Settings:     settings,
		SettingsPath: settingsPath,
		Audio:        sound,
		Logger:       logger.WithPrefix("client"),
	})
	return c.Run(ctx)
}

func openLog(path string) (*log.Logger, func(), error) {
	if path == "" {
		return log.New(io.Discard), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Level: log.DebugLevel})
	return logger, func() { _ = f.Close() }, nil
}
