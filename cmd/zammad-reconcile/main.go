package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/zammad-reconcile/internal/config"
	"github.com/spec-kit/zammad-reconcile/internal/manifest"
	"github.com/spec-kit/zammad-reconcile/internal/observability"
	"github.com/spec-kit/zammad-reconcile/internal/reconcile"
	"github.com/spec-kit/zammad-reconcile/internal/zammad"
	"github.com/spec-kit/zammad-reconcile/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger = logger.With(zap.String("run_id", uuid.NewString()))

	in, dryRun, err := parseInvocation(os.Args[1:])
	if err != nil {
		logger.Error("invalid invocation", zap.Error(err))
		emitFailure(err)
		os.Exit(1)
	}

	if cfg.Zammad.URL == "" || !cfg.Zammad.HasCredentials() {
		err := fmt.Errorf("ZAMMAD_URL and either ZAMMAD_API_TOKEN or ZAMMAD_API_USER/ZAMMAD_API_SECRET must be set")
		logger.Error("missing connection config", zap.Error(err))
		emitFailure(err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	client := zammad.NewClient(cfg.Zammad, logger).WithMetrics(metrics)
	reconciler := reconcile.New(reconcile.Dependencies{
		Client: client,
		Logger: logger,
		DryRun: dryRun,
	})

	result, err := reconciler.Run(context.Background(), *in)
	requests, requestErrors := metrics.Totals()
	if err != nil {
		logger.Error("reconciliation failed",
			zap.Error(err),
			zap.Int64("api_requests", requests),
			zap.Int64("api_errors", requestErrors))
		emitFailure(err)
		os.Exit(1)
	}

	logger.Info("reconciliation complete",
		zap.Bool("changed", result.Changed),
		zap.Int64("api_requests", requests),
		zap.Int64("api_errors", requestErrors))

	encoded, err := json.Marshal(result)
	if err != nil {
		logger.Error("failed to encode result", zap.Error(err))
		os.Exit(1)
	}
	fmt.Println(string(encoded))
}

// parseInvocation merges the optional YAML manifest with flag overrides
// into one reconciler input. A flag that was explicitly set wins over the
// manifest value for the same field.
func parseInvocation(args []string) (*reconcile.Input, bool, error) {
	flags := pflag.NewFlagSet("zammad-reconcile", pflag.ContinueOnError)

	manifestPath := flags.StringP("manifest", "f", "", "path to a YAML ticket manifest")
	state := flags.String("state", "", "desired state: present or absent")
	ticketID := flags.Int("ticket-id", 0, "id of the ticket to update or close")
	objectID := flags.String("object-id", "", "i-doit object id to associate with the ticket")
	customer := flags.String("customer", "", "customer email address")
	title := flags.String("title", "", "ticket title")
	group := flags.String("group", "", "group handling the ticket")
	subject := flags.String("subject", "", "article subject")
	body := flags.String("body", "", "article body")
	internal := flags.Bool("internal", false, "mark the article internal")
	ticketState := flags.String("ticket-state", "", "ticket state name (close target with --state=absent)")
	priority := flags.String("priority", "", "ticket priority name")
	owner := flags.String("owner", "", "owner display name (\"Firstname Lastname\")")
	dryRun := flags.Bool("dry-run", false, "report what would change without writing")

	if err := flags.Parse(args); err != nil {
		return nil, false, err
	}

	in := reconcile.Input{}
	if *manifestPath != "" {
		m, err := manifest.Load(*manifestPath)
		if err != nil {
			return nil, false, err
		}
		in = m.Input()
	}

	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "state":
			in.State = *state
		case "ticket-id":
			in.TicketID = ticketID
		case "object-id":
			in.ObjectID = *objectID
		case "customer":
			in.Desired.Customer = customer
		case "title":
			in.Desired.Title = title
		case "group":
			in.Desired.Group = group
		case "subject":
			in.Desired.Subject = subject
		case "body":
			in.Desired.Body = body
		case "internal":
			in.Desired.Internal = internal
		case "ticket-state":
			in.Desired.TicketState = ticketState
		case "priority":
			in.Desired.Priority = priority
		case "owner":
			in.Desired.Owner = owner
		}
	})

	// The close target derives from the merged state and ticket_state, so
	// it must be computed after both sources have been applied.
	in.CloseState = ""
	if in.State == reconcile.StateAbsent && in.Desired.TicketState != nil {
		in.CloseState = *in.Desired.TicketState
	}

	return &in, *dryRun, nil
}

// emitFailure prints a terminal-failure result on stdout so the calling
// automation always receives the same JSON shape.
func emitFailure(err error) {
	result := reconcile.Result{
		Changed:    false,
		StatusCode: util.StatusCode(err),
		Message:    err.Error(),
	}
	if encoded, encodeErr := json.Marshal(result); encodeErr == nil {
		fmt.Println(string(encoded))
	}
}
