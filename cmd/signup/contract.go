package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/goliatone/go-signup/pkg/contract"
	"github.com/goliatone/go-signup/pkg/field"
)

var errContractMismatch = errors.New("registry does not match the endpoint contract")

func runContract(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("contract", flag.ContinueOnError)
	source := fs.String("source", "", "OpenAPI document to check against (embedded contract when empty)")
	operation := fs.String("operation", contract.DefaultOperationID, "operation ID to check")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry, err := field.Newsletter(field.NewInputSet())
	if err != nil {
		return err
	}

	raw := contract.Document()
	if *source != "" {
		raw, err = os.ReadFile(*source)
		if err != nil {
			return fmt.Errorf("read contract: %w", err)
		}
	}

	report, err := contract.CheckDocument(ctx, registry, raw, *operation)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, report.String())
	if !report.OK() {
		return errContractMismatch
	}
	return nil
}
