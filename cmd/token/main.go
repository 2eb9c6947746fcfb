// Command token mints a bearer token for a webhook caller or an operator.
// WEBHOOK_SECRET must be set to the server's secret.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"notifier/config"
	"notifier/pkg/lib/jwt"
)

type options struct {
	service string
	admin   bool
	expire  time.Duration
}

// parseFlags reads the command line. defaultExpire comes from webhook.token_expire.
func parseFlags(args []string, defaultExpire time.Duration, output io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.service, "service", "", "name of the calling service")
	fs.BoolVar(&opts.admin, "admin", false, "grant access to /v1/admin")
	fs.DurationVar(&opts.expire, "expire", defaultExpire, "token lifetime, 0 for no expiry")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.service == "" {
		return options{}, errors.New("-service is required")
	}
	if opts.expire < 0 {
		return options{}, fmt.Errorf("-expire must not be negative, got %s", opts.expire)
	}
	return opts, nil
}

func main() {
	cfg := config.MustLoad()
	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	opts, err := parseFlags(os.Args[1:], cfg.WebhookConfig.TokenExpire, os.Stderr)
	if err != nil {
		log.Error("invalid arguments", slog.String("error", err.Error()))
		os.Exit(2)
	}

	token, err := jwt.GenerateServiceToken(opts.service, opts.admin, opts.expire)
	if err != nil {
		log.Error("failed to mint token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
