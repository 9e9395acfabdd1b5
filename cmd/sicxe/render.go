package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sarchlab/sicxe/exercise"
	"github.com/sarchlab/sicxe/insts"
)

// decodeOutput is the JSON form of a decode.
type decodeOutput struct {
	Code      string  `json:"code"`
	Format    string  `json:"format,omitempty"`
	Binary    string  `json:"binary,omitempty"`
	Opcode    string  `json:"opcode,omitempty"`
	Flags     string  `json:"flags,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	Disp      *int64  `json:"disp,omitempty"`
	TA        *string `json:"ta,omitempty"`
	RegisterA string  `json:"register_a,omitempty"`
	Error     string  `json:"error,omitempty"`
	Message   string  `json:"message,omitempty"`
}

func (a *app) writeInstruction(code string, inst *insts.Instruction) {
	if a.json {
		disp := inst.Disp
		out := decodeOutput{
			Code:      code,
			Format:    inst.Encoding.Format.String(),
			Binary:    inst.Encoding.Binary(),
			Opcode:    fmt.Sprintf("0x%02X", inst.Opcode),
			Flags:     inst.Flags.String(),
			Mode:      inst.Mode.String(),
			Disp:      &disp,
			RegisterA: inst.RegisterA,
		}
		if inst.HasTarget {
			ta := insts.Hex(inst.TA)
			out.TA = &ta
		}
		a.writeJSON(out)
		return
	}

	for i, line := range inst.Lines() {
		fmt.Fprintf(a.out, "%d. %s: %s\n", i+1, line.Label, line.Value)
	}
}

func (a *app) writeError(code string, err error) {
	if a.json {
		a.writeJSON(decodeOutput{
			Code:    code,
			Error:   insts.ErrorKind(err),
			Message: err.Error(),
		})
		return
	}

	fmt.Fprintf(a.out, "Error: %v\n", err)
}

func (a *app) writeJSON(v any) {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		a.log.WithError(err).Error("Failed to write JSON")
	}
}

func (a *app) writeReport(report *exercise.Report) {
	if a.json {
		a.writeJSON(report)
		return
	}

	fmt.Fprintf(a.out, "Report %s", report.ID)
	if report.Title != "" {
		fmt.Fprintf(a.out, ": %s", report.Title)
	}
	fmt.Fprintf(a.out, "\nPC register: %s, Base register: %s\n\n",
		insts.Hex(int64(report.PC)), insts.Hex(int64(report.Base)))

	for _, res := range report.Results {
		if res.Passed {
			fmt.Fprintf(a.out, "[%d] %s ok\n", res.Index, res.Code)
			continue
		}
		fmt.Fprintf(a.out, "[%d] %s FAIL (-want +got)\n", res.Index, res.Code)
		for _, line := range strings.Split(strings.TrimRight(res.Diff, "\n"), "\n") {
			fmt.Fprintf(a.out, "    %s\n", line)
		}
	}

	fmt.Fprintf(a.out, "\n%d/%d correct\n", report.Passed(), len(report.Results))
}
