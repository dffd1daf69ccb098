package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/ricochet/internal/config"
	"github.com/tomz197/ricochet/internal/loop"
	"github.com/tomz197/ricochet/internal/scene"
	"github.com/tomz197/ricochet/internal/sim"
)

func main() {
	scenePath := flag.String("scene", config.GetEnv("RICOCHET_SCENE", ""), "scene file (default: built-in arena)")
	flag.Parse()

	if err := run(*scenePath); err != nil {
		fmt.Fprintf(os.Stderr, "ricochet: %v\n", err)
		os.Exit(1)
	}
}

func run(scenePath string) error {
	layout, err := scene.LoadLayout(scenePath)
	if err != nil {
		return err
	}

	// The terminal belongs to the sandbox, so logs only go to a file.
	logOut := io.Discard
	if path := config.GetEnv("RICOCHET_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	logger := config.NewLogger(logOut, "ricochet")

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting", "scene", layout.Name, "balls", len(layout.Balls))
	sess := loop.NewSession(layout, bufio.NewReader(os.Stdin), os.Stdout, loop.Options{
		Logger:     logger,
		MaxBounces: config.GetEnvInt("RICOCHET_MAX_BOUNCES", sim.DefaultMaxBounces),
	})
	return sess.Run(ctx)
}
