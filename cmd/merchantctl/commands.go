package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/samvad-hq/digest-merchant-sdk/internal/app"
	"github.com/samvad-hq/digest-merchant-sdk/internal/config"
	"github.com/samvad-hq/digest-merchant-sdk/internal/domain"
	"github.com/samvad-hq/digest-merchant-sdk/internal/logger"
	"github.com/samvad-hq/digest-merchant-sdk/internal/storage"
	"github.com/samvad-hq/digest-merchant-sdk/pkg/merchant"
	"gopkg.in/yaml.v3"
)

var (
	okColor   = color.New(color.FgGreen, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
)

// command carries what every subcommand needs. out receives machine-readable
// results, status the coloured summary lines.
type command struct {
	cfg        *config.Config
	log        logger.Logger
	out        io.Writer
	status     io.Writer
	clientOpts []merchant.Option
}

func (c *command) dispatch(ctx context.Context, name string, args []string) error {
	switch strings.ToLower(name) {
	case "time":
		return c.timestamp(ctx)
	case "get":
		return c.get(ctx, args)
	case "post", "put", "delete":
		return c.send(ctx, strings.ToUpper(name), args)
	case "checkout":
		return c.checkout(ctx, args)
	case "lookup":
		return c.lookup(args)
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}

func (c *command) client() (*merchant.Client, error) {
	return app.NewMerchantClient(c.cfg, c.log, c.clientOpts...)
}

func (c *command) timestamp(ctx context.Context) error {
	client, err := c.client()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.out, client.Timestamp(ctx))
	return err
}

func (c *command) get(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("get needs an endpoint")
	}
	params, err := parseParams(args[1:])
	if err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}
	resp, err := client.Get(ctx, args[0], params)
	if err != nil {
		return err
	}
	return c.printResponse(http.MethodGet, args[0], resp)
}

func (c *command) send(ctx context.Context, method string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%s needs an endpoint", strings.ToLower(method))
	}
	payload, err := parsePayload(args[1:])
	if err != nil {
		return err
	}
	client, err := c.client()
	if err != nil {
		return err
	}

	var resp merchant.Response
	switch method {
	case http.MethodPost:
		resp, err = client.Post(ctx, args[0], payload)
	case http.MethodPut:
		resp, err = client.Put(ctx, args[0], payload)
	default:
		resp, err = client.Delete(ctx, args[0], payload)
	}
	if err != nil {
		return err
	}
	return c.printResponse(method, args[0], resp)
}

func (c *command) checkout(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("checkout needs exactly one order file")
	}
	order, err := loadOrder(args[0])
	if err != nil {
		return err
	}

	flow, err := app.NewCheckoutFlow(ctx, c.cfg, c.log, c.clientOpts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := flow.Close(); cerr != nil {
			c.log.ErrorObj("checkout flow close failed", "error", cerr.Error())
		}
	}()

	checkout, runErr := flow.Run(ctx, order)
	if checkout.ID == "" {
		failColor.Fprintf(c.status, "checkout failed\n")
		return runErr
	}
	okColor.Fprintf(c.status, "checkout %s created\n", checkout.ID)
	if err := writeJSON(c.out, checkout); err != nil {
		return err
	}
	return runErr
}

func (c *command) lookup(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("lookup needs exactly one checkout id")
	}
	store, err := storage.NewStore(c.cfg.StorageType, c.cfg.BBoltPath, storage.Options{
		RecordTTL:       c.cfg.StorageTTL,
		CleanupInterval: c.cfg.StorageCleanupInterval,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()

	checkout, found, err := store.Checkout(args[0])
	if err != nil {
		return fmt.Errorf("lookup checkout: %w", err)
	}
	if !found {
		warnColor.Fprintf(c.status, "checkout %s not found\n", args[0])
		return fmt.Errorf("checkout %q not found", args[0])
	}
	return writeJSON(c.out, checkout)
}

// printResponse writes a coloured status line and the envelope. Anything but a
// completed 200 exchange is reported as an error so the exit code reflects it.
func (c *command) printResponse(method, endpoint string, resp merchant.Response) error {
	switch {
	case resp.HasTransportError():
		failColor.Fprintf(c.status, "%s %s: transport error %d: %s\n", method, endpoint, resp.TransportErrorCode, resp.TransportError)
	case resp.StatusCode == http.StatusOK:
		okColor.Fprintf(c.status, "%s %s: %d\n", method, endpoint, resp.StatusCode)
	case resp.StatusCode >= http.StatusInternalServerError:
		failColor.Fprintf(c.status, "%s %s: %d\n", method, endpoint, resp.StatusCode)
	default:
		warnColor.Fprintf(c.status, "%s %s: %d\n", method, endpoint, resp.StatusCode)
	}

	if err := writeJSON(c.out, resp); err != nil {
		return err
	}
	if !resp.OK() {
		return fmt.Errorf("%s %s did not succeed", method, endpoint)
	}
	return nil
}

// parseParams turns key=value arguments into ordered query params.
func parseParams(args []string) (merchant.Params, error) {
	var params merchant.Params
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query param %q (want key=value)", arg)
		}
		params = params.Add(key, value)
	}
	return params, nil
}

// parsePayload accepts inline JSON or @file. No argument means no body.
func parsePayload(args []string) (any, error) {
	switch len(args) {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("expected at most one JSON payload, got %d arguments", len(args))
	}

	raw := []byte(args[0])
	if path, ok := strings.CutPrefix(args[0], "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read payload file: %w", err)
		}
		raw = bytes.TrimSpace(data)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("payload is not valid JSON")
	}
	return json.RawMessage(raw), nil
}

func loadOrder(path string) (domain.Order, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Order{}, fmt.Errorf("open order file: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)

	var order domain.Order
	if err := dec.Decode(&order); err != nil {
		return domain.Order{}, fmt.Errorf("decode order file: %w", err)
	}
	return order, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
