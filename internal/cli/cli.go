package cli

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"shopcart/internal/config"
	"shopcart/internal/session"

	"go.uber.org/zap"
)

type Runner struct {
	options Options
	logger  *zap.Logger
	session *session.Session
	in      io.Reader
	out     io.Writer
}

func NewRunner(cfg config.Config, logger *zap.Logger, sess *session.Session) *Runner {
	return &Runner{
		options: Options{Timeout: cfg.Timeout},
		logger:  logger.Named("cli"),
		session: sess,
		in:      os.Stdin,
		out:     os.Stdout,
	}
}

func (r *Runner) Execute() error {
	return r.run(os.Args[1:])
}

func (r *Runner) run(args []string) error {
	var timeoutSeconds int

	fs := flag.NewFlagSet("shopcart", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags] [command]\n", fs.Name())
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, "\nCommands:")
		fmt.Fprint(os.Stderr, usage)
	}
	fs.BoolVar(&r.options.JSON, "json", false, "Output JSON format")
	fs.IntVar(&timeoutSeconds, "timeout", int(r.options.Timeout.Seconds()), "Per-command timeout in seconds")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if timeoutSeconds > 0 {
		r.options.Timeout = time.Duration(timeoutSeconds) * time.Second
	}
	r.options.Command = strings.TrimSpace(strings.Join(fs.Args(), " "))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := r.session.Load(ctx); err != nil {
		return fmt.Errorf("loading cart: %w", err)
	}

	if r.options.Command != "" {
		return r.handle(ctx, r.options.Command)
	}
	return r.repl(ctx)
}

func (r *Runner) repl(ctx context.Context) error {
	reader := bufio.NewScanner(r.in)
	fmt.Fprintln(r.out, "Shop cart (type 'help' for commands, 'exit' to quit)")
	r.printStatusBanner()

	for {
		fmt.Fprint(r.out, "> ")
		if !reader.Scan() {
			return reader.Err()
		}

		line := strings.TrimSpace(reader.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := r.handle(ctx, line); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// handle runs one command line. Refusals and connectivity problems are
// printed as guidance; only unexpected failures are returned.
func (r *Runner) handle(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		fmt.Fprintln(r.out, err.Error())
		return nil
	}
	if len(args) == 0 {
		return nil
	}

	cmdCtx, cancel := context.WithTimeout(ctx, r.options.Timeout)
	defer cancel()

	r.logger.Debug("command received", zap.Strings("args", args))
	result, err := r.dispatch(cmdCtx, args)
	if err != nil {
		if msg, ok := guidance(err); ok {
			r.logger.Debug("command refused", zap.String("cmd", args[0]), zap.Error(err))
			return r.write(result.withNotice(msg))
		}
		r.logger.Error("command failed", zap.String("cmd", args[0]), zap.Error(err))
		return err
	}
	return r.write(result)
}
