package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-signup/internal/ctxlog"
	"github.com/goliatone/go-signup/pkg/form"
	"github.com/goliatone/go-signup/pkg/renderers/tui"
)

func runPrompt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("prompt", flag.ContinueOnError)
	configPath := commonFlags(fs)
	format := fs.String("format", "", "print the submitted payload as json, form or pretty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer a.Close()

	session, err := tui.New(a.controller,
		tui.WithPromptDriver(tui.NewSurveyDriver(os.Stdout)),
		tui.WithOutputFormat(tui.OutputFormat(*format)),
		tui.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}

	result, err := session.Run(ctxlog.WithLogger(ctx, a.logger))
	switch {
	case errors.Is(err, tui.ErrAborted), errors.Is(err, tui.ErrDeclined):
		a.logger.Info("prompt ended without submitting", "reason", err)
		return nil
	case err != nil:
		return err
	}

	if *format == "" || result.Outcome != form.OutcomeSuccess {
		return nil
	}
	out, err := session.Summary(result.Payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}
