package insts

// Mode is the addressing mode selected by the n and i bits.
type Mode uint8

// Addressing modes.
const (
	ModeUnknown   Mode = iota
	ModeSimple         // n=1, i=1
	ModeSICDirect      // n=0, i=0 in Format 3 (SIC compatible)
	ModeDirect         // n=0, i=0 in Format 4
	ModeImmediate      // n=0, i=1
	ModeIndirect       // n=1, i=0
)

func (m Mode) String() string {
	switch m {
	case ModeSimple:
		return "Simple"
	case ModeSICDirect:
		return "Simple (SIC direct addressing)"
	case ModeDirect:
		return "Simple (Direct addressing)"
	case ModeImmediate:
		return "Immediate"
	case ModeIndirect:
		return "Indirect"
	default:
		return "Unknown"
	}
}

// Qualified reports whether the b and p bits refine this mode.
func (m Mode) Qualified() bool {
	return m == ModeSimple || m == ModeIndirect
}

// Qualifier refines a Simple or Indirect mode by the b and p bits.
type Qualifier uint8

// Addressing mode qualifiers.
const (
	QualifierNone Qualifier = iota
	QualifierPCRelative
	QualifierBaseRelative
	QualifierDirect   // b=0, p=0 in Format 3
	QualifierAbsolute // b=0, p=0 in Format 4
)

func (q Qualifier) String() string {
	switch q {
	case QualifierPCRelative:
		return "PC-relative"
	case QualifierBaseRelative:
		return "Base-relative"
	case QualifierDirect:
		return "Direct"
	case QualifierAbsolute:
		return "Absolute"
	default:
		return ""
	}
}

// AddressingMode is a mode plus its optional qualifier.
type AddressingMode struct {
	Mode      Mode
	Qualifier Qualifier
}

func (a AddressingMode) String() string {
	if a.Qualifier == QualifierNone {
		return a.Mode.String()
	}
	return a.Mode.String() + " (" + a.Qualifier.String() + ")"
}

// classifyMode derives the addressing mode from the n/i and b/p bits.
func classifyMode(flags Flags, format Format) (AddressingMode, error) {
	var am AddressingMode

	switch {
	case !flags.N && !flags.I:
		// SIC compatible encodings ignore b and p.
		if format == Format3 {
			am.Mode = ModeSICDirect
		} else {
			am.Mode = ModeDirect
		}
	case flags.N && flags.I:
		am.Mode = ModeSimple
	case !flags.N && flags.I:
		am.Mode = ModeImmediate
	default:
		am.Mode = ModeIndirect
	}

	if !am.Mode.Qualified() {
		return am, nil
	}

	switch {
	case !flags.B && flags.P:
		am.Qualifier = QualifierPCRelative
	case flags.B && !flags.P:
		am.Qualifier = QualifierBaseRelative
	case !flags.B && !flags.P:
		if format == Format3 {
			am.Qualifier = QualifierDirect
		} else {
			am.Qualifier = QualifierAbsolute
		}
	default:
		return am, ErrInvalidFlagCombination
	}

	return am, nil
}
