// Command coursetoken prints a bearer token for registering courses.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"backend-courseplay/internal/auth"
	"backend-courseplay/internal/config"
)

type tokenConfig struct {
	Editor string
	TTL    time.Duration
}

func parseFlags(fs *flag.FlagSet, args []string) (tokenConfig, error) {
	var cfg tokenConfig
	fs.StringVar(&cfg.Editor, "editor", "", "name recorded in the token")
	fs.DurationVar(&cfg.TTL, "ttl", 24*time.Hour, "token lifetime")
	if err := fs.Parse(args); err != nil {
		return tokenConfig{}, err
	}
	if cfg.Editor == "" {
		return tokenConfig{}, errors.New("-editor is required")
	}
	if cfg.TTL <= 0 {
		return tokenConfig{}, errors.New("-ttl must be positive")
	}
	return cfg, nil
}

func run(cfg tokenConfig, secret string, out io.Writer) error {
	token, err := auth.IssueToken(secret, cfg.Editor, cfg.TTL)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, token)
	return err
}

func main() {
	cfg, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg, config.Load().JWTSecret, os.Stdout); err != nil {
		log.Fatalf("issue token: %v", err)
	}
}
