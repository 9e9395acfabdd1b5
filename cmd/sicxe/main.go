// Package main provides the sicxe command line decoder.
//
// Usage:
//
//	sicxe [flags] [hexcode ...]
//
// With hex codes as arguments, each is decoded in order. Without arguments,
// codes are read from standard input one per line; an empty line decodes
// the configured sample and "quit" exits.
//
// Flags:
//
//	-config  Path to JSON configuration file
//	-pc      PC register value in hex (default 003000)
//	-base    Base register value in hex (default 006000)
//	-json    Print decoded fields as JSON
//	-check   Check an exercise sheet (YAML) instead of decoding
//	-v       Verbose output
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/config"
	"github.com/sarchlab/sicxe/insts"
)

var (
	configPath = flag.String("config", "", "Path to JSON configuration file")
	pcValue    = flag.String("pc", "", "PC register value in hex (default 003000)")
	baseValue  = flag.String("base", "", "Base register value in hex (default 006000)")
	jsonOutput = flag.Bool("json", false, "Print decoded fields as JSON")
	checkPath  = flag.String("check", "", "Check an exercise sheet (YAML) instead of decoding")
	verbose    = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	a := &app{
		cfg:     cfg,
		decoder: insts.NewDecoder(),
		cache:   cache.New(cfg.CacheConfig()),
		out:     os.Stdout,
		log:     log,
		json:    *jsonOutput,
	}

	if *checkPath != "" {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		code := a.check(ctx, *checkPath)
		stop()
		os.Exit(code)
	}

	if flag.NArg() > 0 {
		os.Exit(a.decodeAll(flag.Args()))
	}

	os.Exit(a.repl(os.Stdin, term.IsTerminal(int(os.Stdin.Fd()))))
}

// loadConfig reads the config file, if any, and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *pcValue != "" {
		pc, err := config.ParseRegister(*pcValue)
		if err != nil {
			return nil, fmt.Errorf("-pc: %w", err)
		}
		cfg.PC = pc
	}
	if *baseValue != "" {
		base, err := config.ParseRegister(*baseValue)
		if err != nil {
			return nil, fmt.Errorf("-base: %w", err)
		}
		cfg.Base = base
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
