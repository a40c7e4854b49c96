// cmd/va/commands.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/solana-va/internal/app"
	"github.com/rovshanmuradov/solana-va/internal/export"
	"github.com/rovshanmuradov/solana-va/internal/notify"
	"github.com/rovshanmuradov/solana-va/internal/overview"
	"github.com/rovshanmuradov/solana-va/internal/submit"
	"github.com/rovshanmuradov/solana-va/internal/tokens"
	"github.com/rovshanmuradov/solana-va/internal/units"
)

type cli struct {
	app      *app.App
	out      io.Writer
	notifier notify.Notifier
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "open":
		return c.open(ctx, args)
	case "deposit":
		return c.deposit(ctx, args)
	case "close":
		return c.close(ctx, args)
	case "orders":
		return c.orders(ctx, args)
	case "history":
		return c.history(ctx, args)
	case "tokens":
		return c.tokens(ctx, args)
	}
	fmt.Fprint(c.out, usage)
	return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
}

func (c *cli) report(res submit.Result) error {
	c.notifier.Notify(notify.FromResult(res))
	if !res.OK() {
		return fmt.Errorf("%w: %s: %s", errReported, res.Operation, res.Kind)
	}
	return nil
}

func (c *cli) open(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("open", flag.ContinueOnError)
	input := fs.String("input", "USDC", "Input token address or symbol")
	output := fs.String("output", "", "Output token address or symbol")
	deposit := fs.String("deposit", "", "Total deposit in input token units")
	increment := fs.String("increment", "", "Value increment per interval in the reference currency")
	every := fs.String("every", "", "Interval count (empty means 1)")
	timeframe := fs.String("timeframe", string(units.Day), "Interval unit: minute, hour, day, week, month")
	start := fs.String("start", "", "Start time (RFC3339), empty starts now")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	tf, err := units.ParseTimeframe(*timeframe)
	if err != nil {
		return err
	}
	form := app.OpenForm{
		Input:     *input,
		Output:    *output,
		Interval:  *every,
		Timeframe: tf,
		Deposit:   *deposit,
		Increment: *increment,
	}
	if *start != "" {
		ts, err := time.Parse(time.RFC3339, *start)
		if err != nil {
			return fmt.Errorf("invalid start time: %w", err)
		}
		form.StartAt = &ts
	}

	req, err := c.app.PrepareOpen(ctx, form)
	if err != nil {
		return err
	}
	return c.report(c.app.Submitter().Open(ctx, req))
}

func parseOrder(fs *flag.FlagSet, args []string) (solana.PublicKey, error) {
	if err := fs.Parse(args); err != nil {
		return solana.PublicKey{}, fmt.Errorf("%w: %v", errUsage, err)
	}
	raw := fs.Lookup("order").Value.String()
	if raw == "" {
		return solana.PublicKey{}, fmt.Errorf("%w: -order is required", errUsage)
	}
	key, err := solana.PublicKeyFromBase58(raw)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid order address: %w", err)
	}
	return key, nil
}

func (c *cli) deposit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("deposit", flag.ContinueOnError)
	fs.String("order", "", "Order address")
	amount := fs.String("amount", "", "Amount in input token units")
	orderAddr, err := parseOrder(fs, args)
	if err != nil {
		return err
	}

	base, err := c.app.PrepareDeposit(ctx, orderAddr, *amount)
	if err != nil {
		return err
	}
	return c.report(c.app.Submitter().Deposit(ctx, orderAddr, base))
}

func (c *cli) close(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("close", flag.ContinueOnError)
	fs.String("order", "", "Order address")
	orderAddr, err := parseOrder(fs, args)
	if err != nil {
		return err
	}
	return c.report(c.app.Submitter().WithdrawAllAndClose(ctx, orderAddr))
}

func (c *cli) printRows(rows []overview.Row) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\n", r.Label, r.Value)
	}
	_ = tw.Flush()
	fmt.Fprintln(c.out)
}

func (c *cli) orders(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("orders", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	open, err := c.app.OpenOrders(ctx)
	if err != nil {
		return err
	}
	if len(open) == 0 {
		fmt.Fprintln(c.out, "No open orders.")
		return nil
	}
	for _, o := range open {
		c.printRows(o.Rows())
	}
	return nil
}

func (c *cli) history(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	format := fs.String("export", "", "Export fills as csv or json")
	outDir := fs.String("out", "exports", "Export directory")
	mint := fs.String("mint", "", "Only export fills involving this mint")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	closed, err := c.app.ClosedOrders(ctx)
	if err != nil {
		return err
	}
	if len(closed) == 0 {
		fmt.Fprintln(c.out, "No closed orders.")
		return nil
	}

	for _, o := range closed {
		c.printRows(o.Rows())
		tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "FROM\tRATE\tTO\tDATE\tTX")
		for _, f := range o.Fills {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				f.In.Fixed(4), f.Rate.StringFixed(2), f.Out.Fixed(4),
				f.ConfirmedAt.Local().Format("2006-01-02 15:04"), tokens.ShortenAddress(f.Signature, 6))
		}
		_ = tw.Flush()
		fmt.Fprintln(c.out)
	}

	if *format == "" {
		return nil
	}
	f, err := export.ParseFormat(*format)
	if err != nil {
		return err
	}
	path, err := export.NewFillExporter(c.app.Logger()).ExportFills(closed, export.ExportOptions{
		Format:     f,
		MintFilter: *mint,
		OutputDir:  *outDir,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Exported to %s\n", path)
	return nil
}

func (c *cli) tokens(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tokens", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "Maximum results")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	r, err := c.app.Tokens(ctx)
	if err != nil {
		return err
	}
	found := r.Directory().Search(strings.Join(fs.Args(), " "))
	if *limit > 0 && len(found) > *limit {
		found = found[:*limit]
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYMBOL\tNAME\tDECIMALS\tADDRESS")
	for _, t := range found {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", t.Symbol, t.Name, t.Decimals, t.Address)
	}
	return tw.Flush()
}
