package insts

// Decoder decodes SIC/XE machine code into instructions.
// It holds no state and is safe for concurrent use.
type Decoder struct{}

// NewDecoder creates a new SIC/XE instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode decodes a Format 3 or Format 4 instruction given as hex digits.
// pc and base are the register values used for relative addressing.
func (d *Decoder) Decode(hexCode string, pc, base uint32) (*Instruction, error) {
	enc, err := ParseEncoding(hexCode)
	if err != nil {
		return nil, err
	}

	fields, err := d.Fields(enc)
	if err != nil {
		return nil, err
	}

	return fields.Resolve(pc, base), nil
}

// Fields extracts the register-independent fields of an encoding.
//
// Layout, most significant bit first:
//
//	Format 3: opcode(6) | n i x b p e | disp(12)
//	Format 4: opcode(6) | n i x b p e | address(20)
func (d *Decoder) Fields(enc Encoding) (Fields, error) {
	dispBits := enc.Format.dispBits()
	if dispBits <= 0 {
		return Fields{}, &DecodeError{Code: enc.Raw, Err: ErrUnsupportedFormat}
	}

	word := enc.Word
	prefix := uint8(word >> (enc.Format.Bits() - 6)) // bits 0-5
	flagBits := (word >> dispBits) & 0x3F
	rawDisp := word & (1<<dispBits - 1)

	f := Fields{
		Encoding: enc,
		Prefix:   prefix,
		Opcode:   prefix & 0xFC,
		Flags: Flags{
			N: flagBits&0x20 != 0,
			I: flagBits&0x10 != 0,
			X: flagBits&0x08 != 0,
			B: flagBits&0x04 != 0,
			P: flagBits&0x02 != 0,
			E: flagBits&0x01 != 0,
		},
		RawDisp: rawDisp,
		Disp:    int64(rawDisp),
	}

	mode, err := classifyMode(f.Flags, enc.Format)
	if err != nil {
		return Fields{}, &DecodeError{Code: enc.Raw, Err: err}
	}
	f.Mode = mode

	if enc.Format == Format3 && f.pcRelative() && rawDisp&0x800 != 0 {
		f.Disp -= 4096
	}

	return f, nil
}

// pcRelative reports whether b=0, p=1. This holds for every n/i
// combination; only the mode qualifier ignores b and p in SIC compatible
// encodings.
func (f Fields) pcRelative() bool {
	return !f.Flags.B && f.Flags.P
}

// Resolve computes the target address for the given register values.
func (f Fields) Resolve(pc, base uint32) *Instruction {
	inst := &Instruction{
		Fields:    f,
		RegisterA: RegisterANote,
	}

	if f.Mode.Mode == ModeImmediate {
		return inst
	}

	// The e bit selects the rule: e=1 carries a full address, e=0 a
	// displacement. Under e=0, b=p=1 (only reachable in SIC compatible
	// encodings) has no address rule and yields 0.
	ta := f.Disp
	if !f.Flags.E {
		switch {
		case f.Flags.B && !f.Flags.P:
			ta = int64(base) + f.Disp
		case !f.Flags.B && f.Flags.P:
			ta = int64(pc) + f.Disp
		case f.Flags.B && f.Flags.P:
			ta = 0
		}
	}

	if f.Flags.X {
		ta += IndexOffset
	}

	inst.TA = ta
	inst.HasTarget = true

	return inst
}
