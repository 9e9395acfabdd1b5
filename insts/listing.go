package insts

import (
	"fmt"
	"strconv"
)

// Line is one labelled field of a decode report.
type Line struct {
	Label string
	Value string
}

// Lines returns the decoded fields as labelled report lines.
func (inst *Instruction) Lines() []Line {
	disp := Hex(inst.Disp)
	ta := "meaningless (Immediate mode)"
	if inst.Mode.Mode != ModeImmediate {
		disp = fmt.Sprintf("%s (%d)", disp, inst.Disp)
	}
	if inst.HasTarget {
		ta = Hex(inst.TA)
	}

	return []Line{
		{"Binary code", inst.Encoding.Binary()},
		{"Opcode", fmt.Sprintf("0x%02X", inst.Opcode)},
		{"Flag bit", inst.Flags.String()},
		{"Addressing mode", inst.Mode.String()},
		{"Disp/Addr", disp},
		{"TA", ta},
		{"Register A value", inst.RegisterA},
	}
}

// Hex formats v as lowercase hex with a 0x prefix; negative values keep
// their sign, e.g. -0x14.
func Hex(v int64) string {
	if v < 0 {
		return "-0x" + strconv.FormatUint(uint64(-v), 16)
	}
	return "0x" + strconv.FormatInt(v, 16)
}
