package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/config"
	"github.com/sarchlab/sicxe/exercise"
	"github.com/sarchlab/sicxe/insts"
)

// app is the decoder driver. Decode errors are reported to out and never
// stop the driver.
type app struct {
	cfg     *config.Config
	decoder *insts.Decoder
	cache   *cache.Cache
	out     io.Writer
	log     logrus.FieldLogger
	json    bool
}

// decode decodes and prints one code.
func (a *app) decode(code string) error {
	log := a.log.WithField("code", code)

	inst, err := a.cache.Decode(a.decoder, code, a.cfg.PC, a.cfg.Base)
	if err != nil {
		log.WithField("kind", insts.ErrorKind(err)).Debug("Decode failed")
		a.writeError(code, err)
		return err
	}

	if !inst.EBitAgrees() {
		log.WithFields(logrus.Fields{
			"format": inst.Encoding.Format,
			"e":      inst.Flags.E,
		}).Warn("e bit disagrees with encoding length, using length")
	}
	log.WithField("mode", inst.Mode).Debug("Decoded")

	a.writeInstruction(code, inst)
	return nil
}

// decodeAll decodes every code and returns the exit status.
func (a *app) decodeAll(codes []string) int {
	status := 0
	for _, code := range codes {
		if err := a.decode(code); err != nil {
			status = 1
		}
	}
	return status
}

// repl reads codes from in until EOF or "quit". Prompts are only written
// when in is a terminal.
func (a *app) repl(in io.Reader, interactive bool) int {
	if interactive {
		fmt.Fprintf(a.out, "PC register: %s\n", insts.Hex(int64(a.cfg.PC)))
		fmt.Fprintf(a.out, "Base register: %s\n", insts.Hex(int64(a.cfg.Base)))
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprintf(a.out, "\nHEX code to decode (e.g. %s): ", a.cfg.Sample)
		}
		if !scanner.Scan() {
			break
		}

		code := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(code) {
		case "quit", "exit":
			return 0
		case "":
			code = a.cfg.Sample
		}

		if !a.json {
			fmt.Fprintf(a.out, "\nInput HEX code: %s\n", code)
		}
		_ = a.decode(code)
	}

	if err := scanner.Err(); err != nil {
		a.log.WithError(err).Error("Failed to read input")
		return 1
	}
	return 0
}

// check checks an exercise sheet and returns the exit status.
func (a *app) check(ctx context.Context, path string) int {
	log := a.log.WithField("sheet", path)

	sheet, err := exercise.LoadSheet(path)
	if err != nil {
		log.WithError(err).Error("Failed to load exercise sheet")
		return 1
	}

	checker := exercise.NewChecker(
		exercise.WithWorkers(a.cfg.Workers),
		exercise.WithCache(a.cache),
		exercise.WithRegisters(a.cfg.PC, a.cfg.Base),
		exercise.WithLogger(log),
	)

	report, err := checker.Check(ctx, sheet)
	if err != nil {
		log.WithError(err).Error("Failed to check exercise sheet")
		return 1
	}

	a.writeReport(report)

	if report.Failed() > 0 {
		return 1
	}
	return 0
}
