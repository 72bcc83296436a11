package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func runInteractive(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer a.close()

	logger.Info("session started", zap.String("profile", cfg.Store.Profile))
	a.run(ctx, cmd.InOrStdin())
	logger.Info("session ended", zap.Int("turns", a.engine.History().Len()))
	return nil
}

// run greets the user and handles lines until exit, end of input or ctx is
// cancelled. The conversation is saved on the way out in every case.
func (a *app) run(ctx context.Context, in io.Reader) {
	a.say(greeting)
	if a.userName != nil {
		a.say(fmt.Sprintf("Welcome back, %s!", *a.userName))
	}

	inputChan := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go readInput(in, inputChan, done)

	// save with a fresh context so an interrupt still gets persisted
	defer a.save(context.WithoutCancel(ctx))

	for {
		a.prompt()
		select {
		case <-ctx.Done():
			fmt.Fprintln(a.out)
			a.say(goodbye)
			return
		case line, ok := <-inputChan:
			if !ok {
				return
			}
			if a.handleLine(ctx, line) {
				return
			}
		}
	}
}

func (a *app) prompt() {
	fmt.Fprint(a.out, a.style(userStyle, "You: "))
}

func readInput(in io.Reader, ch chan<- string, done <-chan struct{}) {
	defer close(ch)
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		select {
		case ch <- scanner.Text():
		case <-done:
			return
		}
	}
}
