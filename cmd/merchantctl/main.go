package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"github.com/samvad-hq/digest-merchant-sdk/internal/logger"
	"github.com/spf13/pflag"
)

const usage = `usage: merchantctl [flags] <command> [args]

commands:
  time                              print the timestamp requests would be signed with
  get <endpoint> [key=value ...]    signed GET with ordered query params
  post|put|delete <endpoint> [json] signed call with an optional JSON body
  checkout <order.yaml>             create customer + hosted checkout from an order file
  lookup <checkoutId>               show a checkout stored by a previous run

flags:
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "merchantctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("merchantctl", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	config.RegisterFlags(fs)
	fs.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("missing command")
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("merchantctl starting", "config", cfg.Redacted())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := &command{cfg: cfg, log: log, out: os.Stdout, status: os.Stderr}
	return cmd.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
}
