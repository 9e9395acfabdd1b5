package exercise

import (
	"context"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/sicxe/cache"
	"github.com/sarchlab/sicxe/insts"
)

// Result is the outcome of one problem.
type Result struct {
	Index  int // 1-based position in the sheet
	Code   string
	Passed bool
	// Diff lists mismatching fields as a go-cmp diff (-want +got).
	Diff   string
	Actual Answer
}

// Report is the outcome of checking a sheet.
type Report struct {
	ID      string
	Title   string
	PC      uint32
	Base    uint32
	Results []Result
}

// Passed returns the number of correct answers.
func (r *Report) Passed() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

// Failed returns the number of wrong answers.
func (r *Report) Failed() int {
	return len(r.Results) - r.Passed()
}

// Checker checks exercise sheets.
type Checker struct {
	decoder *insts.Decoder
	cache   *cache.Cache
	workers int
	pc      uint32
	base    uint32
	log     logrus.FieldLogger
}

// CheckerOption is a functional option for configuring the Checker.
type CheckerOption func(*Checker)

// WithWorkers bounds the number of problems checked concurrently.
func WithWorkers(n int) CheckerOption {
	return func(c *Checker) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithCache decodes through a shared decode cache.
func WithCache(dc *cache.Cache) CheckerOption {
	return func(c *Checker) {
		c.cache = dc
	}
}

// WithRegisters sets the pc and base used when a sheet does not set them.
func WithRegisters(pc, base uint32) CheckerOption {
	return func(c *Checker) {
		c.pc = pc
		c.base = base
	}
}

// WithLogger sets the logger.
func WithLogger(log logrus.FieldLogger) CheckerOption {
	return func(c *Checker) {
		c.log = log
	}
}

// NewChecker creates a new Checker.
func NewChecker(opts ...CheckerOption) *Checker {
	c := &Checker{
		decoder: insts.NewDecoder(),
		workers: 1,
		pc:      0x3000,
		base:    0x6000,
		log:     logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Check decodes every problem of the sheet and compares the answers.
func (c *Checker) Check(ctx context.Context, sheet *Sheet) (*Report, error) {
	pc, base, err := sheet.Registers(c.pc, c.base)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:      xid.New().String(),
		Title:   sheet.Title,
		PC:      pc,
		Base:    base,
		Results: make([]Result, len(sheet.Problems)),
	}
	log := c.log.WithField("report", report.ID)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, p := range sheet.Problems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			res := c.checkProblem(p, pc, base)
			res.Index = i + 1
			report.Results[i] = res

			log.WithFields(logrus.Fields{
				"problem": res.Index,
				"code":    p.Code,
				"passed":  res.Passed,
			}).Debug("Checked problem")

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("check %q: %w", sheet.Title, err)
	}

	log.WithFields(logrus.Fields{
		"passed": report.Passed(),
		"failed": report.Failed(),
	}).Info("Checked exercise sheet")

	return report, nil
}

func (c *Checker) checkProblem(p Problem, pc, base uint32) Result {
	actual := c.answer(p.Code, pc, base)

	// Compare only what the sheet answers.
	got := Answer{}
	want := p.Answer
	if want.Opcode != "" {
		got.Opcode = actual.Opcode
	}
	if want.Flags != "" {
		got.Flags = actual.Flags
	}
	if want.Mode != "" {
		got.Mode = actual.Mode
	}
	if want.Disp != "" {
		got.Disp = actual.Disp
	}
	if want.TA != "" {
		got.TA = actual.TA
	}
	// An unexpected decode error is always reported.
	got.Error = actual.Error

	diff := cmp.Diff(want, got)

	return Result{
		Code:   p.Code,
		Passed: diff == "",
		Diff:   diff,
		Actual: actual,
	}
}

func (c *Checker) decode(code string, pc, base uint32) (*insts.Instruction, error) {
	if c.cache != nil {
		return c.cache.Decode(c.decoder, code, pc, base)
	}
	return c.decoder.Decode(code, pc, base)
}

// answer decodes code into a normalized Answer.
func (c *Checker) answer(code string, pc, base uint32) Answer {
	inst, err := c.decode(code, pc, base)
	if err != nil {
		return Answer{Error: insts.ErrorKind(err)}
	}

	a := Answer{
		Opcode: fmt.Sprintf("0x%02X", inst.Opcode),
		Flags:  normalizeFlags(inst.Flags.String()),
		Mode:   inst.Mode.String(),
		Disp:   insts.Hex(inst.Disp),
		TA:     NoTarget,
	}
	if inst.HasTarget {
		a.TA = insts.Hex(inst.TA)
	}

	return a
}
