package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: signup <command> [flags]

commands:
  serve     serve the signup form over HTTP
  prompt    fill in and submit the form from the terminal
  contract  check the field registry against the endpoint contract
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "serve":
		err = runServe(ctx, args)
	case "prompt":
		err = runPrompt(ctx, args)
	case "contract":
		err = runContract(ctx, args)
	case "-h", "--help", "help":
		fmt.Fprint(os.Stdout, usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("signup %s: %v", os.Args[1], err)
	}
}

// commonFlags registers the flags every command understands.
func commonFlags(fs *flag.FlagSet) *string {
	return fs.String("config", "", "YAML config file (defaults apply when empty)")
}
