/*
 * mips32 - Instruction decoder and opcode constants.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package isa decodes a 32-bit MIPS32 word into its fields and carries the
// opcode/funct constants the execution engine dispatches on.
package isa

// Format identifies which of the three encodings a decoded word uses.
type Format int

const (
	FormatR Format = iota
	FormatI
	FormatJ
)

// Opcode primary dispatch values (§4.4).
const (
	OpSpecial  = 0x00
	OpRegimm   = 0x01
	OpJ        = 0x02
	OpJal      = 0x03
	OpSpecial2 = 0x1C
	OpSpecial3 = 0x1F
)

// SPECIAL funct values.
const (
	FnSLL     = 0x00
	FnSRL     = 0x02 // also ROTR when rs==1
	FnSRA     = 0x03
	FnSLLV    = 0x04
	FnSRLV    = 0x06 // also ROTRV when shamt==1
	FnSRAV    = 0x07
	FnJR      = 0x08
	FnJALR    = 0x09
	FnMOVZ    = 0x0A
	FnMOVN    = 0x0B
	FnSYSCALL = 0x0C
	FnBREAK   = 0x0D
	FnMFHI    = 0x10
	FnMTHI    = 0x11
	FnMFLO    = 0x12
	FnMTLO    = 0x13
	FnMULT    = 0x18
	FnMULTU   = 0x19
	FnDIV     = 0x1A
	FnDIVU    = 0x1B
	FnADD     = 0x20
	FnADDU    = 0x21
	FnSUB     = 0x22
	FnSUBU    = 0x23
	FnAND     = 0x24
	FnOR      = 0x25
	FnXOR     = 0x26
	FnNOR     = 0x27
	FnSLT     = 0x2A
	FnSLTU    = 0x2B
	FnTGE     = 0x30
	FnTGEU    = 0x31
	FnTLT     = 0x32
	FnTLTU    = 0x33
	FnTEQ     = 0x34
	FnTNE     = 0x36
)

// SPECIAL2 funct values.
const (
	Fn2MADD  = 0x00
	Fn2MADDU = 0x01
	Fn2MUL   = 0x02
	Fn2MSUB  = 0x04
	Fn2MSUBU = 0x05
)

// SPECIAL3 funct/shamt values.
const (
	Fn3BSHFL = 0x20
	ShWSBH   = 0x02
	ShSEB    = 0x10
	ShSEH    = 0x18
)

// REGIMM rt values.
const (
	RtBLTZ   = 0x00
	RtBGEZ   = 0x01
	RtTGEI   = 0x08
	RtTGEIU  = 0x09
	RtTLTI   = 0x0A
	RtTLTIU  = 0x0B
	RtTEQI   = 0x0C
	RtTNEI   = 0x0E
	RtBLTZAL = 0x10
	RtBGEZAL = 0x11
)

// I-type opcodes.
const (
	OpBEQ   = 0x04
	OpBNE   = 0x05
	OpBLEZ  = 0x06
	OpBGTZ  = 0x07
	OpADDI  = 0x08
	OpADDIU = 0x09
	OpSLTI  = 0x0A
	OpSLTIU = 0x0B
	OpANDI  = 0x0C
	OpORI   = 0x0D
	OpXORI  = 0x0E
	OpLUI   = 0x0F
	OpLB    = 0x20
	OpLH    = 0x21
	OpLWL   = 0x22
	OpLW    = 0x23
	OpLBU   = 0x24
	OpLHU   = 0x25
	OpLWR   = 0x26
	OpSB    = 0x28
	OpSH    = 0x29
	OpSWL   = 0x2A
	OpSW    = 0x2B
	OpLWC1  = 0x31
	OpSWC1  = 0x39
)

// Word is a decoded instruction. Every field is extracted unconditionally;
// which fields are meaningful depends on Opcode/Format as documented on
// the execution engine's dispatch tables.
type Word struct {
	Raw    uint32
	Opcode uint32
	RS     uint32
	RT     uint32
	RD     uint32
	Shamt  uint32
	Funct  uint32
	Imm    int16  // sign-interpreted low 16 bits
	ImmU   uint16 // zero-interpreted low 16 bits
	JAddr  uint32 // low 26 bits, for J-type
}

// Decode extracts opcode, rs, rt, rd, shamt, funct, imm, and j-target from
// a 32-bit instruction word (§4.4).
func Decode(w uint32) Word {
	return Word{
		Raw:    w,
		Opcode: w >> 26,
		RS:     (w >> 21) & 0x1F,
		RT:     (w >> 16) & 0x1F,
		RD:     (w >> 11) & 0x1F,
		Shamt:  (w >> 6) & 0x1F,
		Funct:  w & 0x3F,
		Imm:    int16(w & 0xFFFF),
		ImmU:   uint16(w & 0xFFFF),
		JAddr:  w & 0x03FFFFFF,
	}
}

// Format reports which executor a decoded word routes to, per §4.4's
// primary dispatch rule.
func (d Word) Format() Format {
	switch d.Opcode {
	case OpSpecial, OpSpecial2, OpSpecial3:
		return FormatR
	case OpJ, OpJal:
		return FormatJ
	default:
		// Regimm (opcode 1: branches and immediate traps keyed on rt)
		// is dispatched as an I-type word; see cpu.executeI.
		return FormatI
	}
}

// SignExtendImm sign-extends the 16-bit immediate field to int32.
func (d Word) SignExtendImm() int32 {
	return int32(d.Imm)
}

// ZeroExtendImm zero-extends the 16-bit immediate field to uint32.
func (d Word) ZeroExtendImm() uint32 {
	return uint32(d.ImmU)
}
