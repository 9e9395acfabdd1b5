// Package exercise checks manual decoding exercises against the decoder.
//
// An exercise sheet is a YAML document listing instruction encodings and
// the answers a student worked out by hand:
//
//	title: Addressing modes
//	pc: "0x3000"
//	base: "0x6000"
//	problems:
//	  - code: "032600"
//	    mode: Simple (PC-relative)
//	    ta: "0x3600"
//	  - code: "03260"
//	    error: unsupported_format
//
// Only the answered fields are checked.
package exercise

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/sarchlab/sicxe/config"
	"github.com/sarchlab/sicxe/insts"
)

// NoTarget is the normalized answer for an operand without a target address.
const NoTarget = "none"

// Sheet is a parsed exercise sheet.
type Sheet struct {
	Title    string    `yaml:"title"`
	PC       string    `yaml:"pc"`
	Base     string    `yaml:"base"`
	Problems []Problem `yaml:"problems"`
}

// Problem is one encoding and its expected answer.
type Problem struct {
	Code   string `yaml:"code"`
	Answer `yaml:",inline"`
}

// Answer holds the fields of a decode as comparable strings. Empty fields
// are not checked.
type Answer struct {
	Opcode string `yaml:"opcode,omitempty"`
	Flags  string `yaml:"flags,omitempty"`
	Mode   string `yaml:"mode,omitempty"`
	Disp   string `yaml:"disp,omitempty"`
	TA     string `yaml:"ta,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// LoadSheet reads and parses an exercise sheet file.
func LoadSheet(path string) (*Sheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exercise sheet: %w", err)
	}

	return ParseSheet(data)
}

// ParseSheet parses an exercise sheet and normalizes its answers.
func ParseSheet(data []byte) (*Sheet, error) {
	sheet := &Sheet{}
	if err := yaml.Unmarshal(data, sheet); err != nil {
		return nil, fmt.Errorf("failed to parse exercise sheet: %w", err)
	}

	if len(sheet.Problems) == 0 {
		return nil, fmt.Errorf("exercise sheet has no problems")
	}

	for i := range sheet.Problems {
		p := &sheet.Problems[i]
		p.Code = strings.TrimSpace(p.Code)
		answer, err := p.Answer.normalize()
		if err != nil {
			return nil, fmt.Errorf("problem %d (%s): %w", i+1, p.Code, err)
		}
		p.Answer = answer
	}

	return sheet, nil
}

// Registers returns the sheet's pc and base, falling back to the given
// defaults for values the sheet leaves out.
func (s *Sheet) Registers(pc, base uint32) (uint32, uint32, error) {
	var err error
	if s.PC != "" {
		if pc, err = config.ParseRegister(s.PC); err != nil {
			return 0, 0, fmt.Errorf("invalid pc: %w", err)
		}
	}
	if s.Base != "" {
		if base, err = config.ParseRegister(s.Base); err != nil {
			return 0, 0, fmt.Errorf("invalid base: %w", err)
		}
	}
	return pc, base, nil
}

// parseNumber parses an answer value. Hex needs a 0x prefix; plain digits
// are decimal.
func parseNumber(s string) (int64, error) {
	return strconv.ParseInt(strings.ToLower(s), 0, 64)
}

func (a Answer) normalize() (Answer, error) {
	if a.Opcode != "" {
		v, err := parseNumber(strings.TrimSpace(a.Opcode))
		if err != nil || v < 0 || v > 0xFF {
			return a, fmt.Errorf("invalid opcode %q", a.Opcode)
		}
		a.Opcode = fmt.Sprintf("0x%02X", v)
	}

	if a.Flags != "" {
		a.Flags = normalizeFlags(a.Flags)
	}

	a.Mode = strings.Join(strings.Fields(a.Mode), " ")

	if a.Disp != "" {
		v, err := parseNumber(strings.TrimSpace(a.Disp))
		if err != nil {
			return a, fmt.Errorf("invalid disp %q", a.Disp)
		}
		a.Disp = insts.Hex(v)
	}

	switch ta := strings.ToLower(strings.TrimSpace(a.TA)); ta {
	case "":
	case NoTarget, "meaningless", "-":
		a.TA = NoTarget
	default:
		v, err := parseNumber(ta)
		if err != nil {
			return a, fmt.Errorf("invalid ta %q", a.TA)
		}
		a.TA = insts.Hex(v)
	}

	a.Error = strings.TrimSpace(a.Error)

	return a, nil
}

// normalizeFlags lowercases flags and drops separators, so
// "n=1, i=1, x=0, b=0, p=1, e=0" and "N=1 I=1 X=0 B=0 P=1 E=0" compare equal.
func normalizeFlags(s string) string {
	s = strings.ToLower(s)
	return strings.Join(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}), " ")
}
