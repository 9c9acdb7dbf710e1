// Command element-demo runs Mount, Submit and Serialize against the in-memory
// SDK and prints the serialized payment method. It never contacts Stripe.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/prometheus/common/expfmt"

	"github.com/wolfman30/payment-element/internal/app/bootstrap"
	appconfig "github.com/wolfman30/payment-element/internal/config"
	"github.com/wolfman30/payment-element/internal/element"
	"github.com/wolfman30/payment-element/internal/element/fake"
	"github.com/wolfman30/payment-element/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.NewWithWriter(cfg.LogLevel, os.Stderr)
	if err := run(context.Background(), os.Args[1:], cfg, os.Stdout, logger); err != nil {
		logger.Error("dry run failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *appconfig.Config, out io.Writer, logger *logging.Logger) error {
	fs := flag.NewFlagSet("element-demo", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	price := fs.Int64("price", int64(cfg.DefaultPriceCents), "amount in minor currency units")
	validationErr := fs.String("validation-error", "", "message returned by the session submit step")
	createErr := fs.String("create-error", "", "message returned by createPaymentMethod")
	paymentMethod := fs.String("payment-method", "", "JSON the payment method resolves to")
	timeout := fs.Duration("timeout", cfg.SubmitTimeout, "bound on awaiting the payment method")
	printMetrics := fs.Bool("metrics", false, "print payment_element metrics after the run")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("element-demo: %w", err)
	}

	sdk := fake.New()
	sdk.PaymentMethodJSON = *paymentMethod
	if *validationErr != "" {
		sdk.SubmitErr = element.NewAdapterError(*validationErr)
	}
	if *createErr != "" {
		sdk.CreatePaymentMethodErr = element.NewAdapterError(*createErr)
	}

	settings := cfg.ElementSettings()
	settings.SubmitTimeout = *timeout
	if settings.PublicKey == "" {
		settings.PublicKey = "pk_test_dry_run"
	}
	m := bootstrap.BuildMetrics()
	adapter := element.New(settings, sdk, logger).WithObserver(m.Element)
	if *printMetrics {
		defer writeMetrics(m, out, logger)
	}

	mounted, err := adapter.Mount(ctx, *price)
	if err != nil {
		return err
	}
	display := &fake.Display{}
	method, err := adapter.Submit(ctx, mounted.Session, display, mounted.Client)
	for _, text := range display.History() {
		fmt.Fprintf(out, "error element: %s\n", text)
	}
	if err != nil {
		return err
	}
	serialized, err := adapter.Serialize(method)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, serialized)
	return err
}

// writeMetrics prints the payment_element families in the text exposition format.
func writeMetrics(m *bootstrap.Metrics, out io.Writer, logger *logging.Logger) {
	families, err := m.Gatherer.Gather()
	if err != nil {
		logger.Warn("gather metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "payment_element_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			logger.Warn("write metrics failed", "error", err)
			return
		}
	}
}
