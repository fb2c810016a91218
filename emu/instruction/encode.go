/*
 * riscii - Instruction encoder
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

package instruction

import "fmt"

// opColumn maps each Op back to the (row, column) pair Decode used to
// find it, the exact inverse of the tables in decode.go.
var opColumn = map[Op]struct{ row, col uint32 }{
	Calli: {0, 1}, GetPSW: {0, 2}, GetLPC: {0, 3}, PutPSW: {0, 4},
	Callx: {0, 8}, Callr: {0, 9}, Jmpx: {0, 12}, Jmpr: {0, 13},
	Ret: {0, 14}, Reti: {0, 15},

	Sll: {1, 1}, Sra: {1, 2}, Srl: {1, 3}, Ldhi: {1, 4}, And: {1, 5},
	Or: {1, 6}, Xor: {1, 7}, Add: {1, 8}, Addc: {1, 9}, Sub: {1, 12},
	Subc: {1, 13}, Subi: {1, 14}, Subci: {1, 15},

	Ldxw: {2, 6}, Ldrw: {2, 7}, Ldxhu: {2, 8}, Ldrhu: {2, 9},
	Ldxhs: {2, 10}, Ldrhs: {2, 11}, Ldxbu: {2, 12}, Ldrbu: {2, 13},
	Ldxbs: {2, 14}, Ldrbs: {2, 15},

	Stxw: {3, 6}, Strw: {3, 7}, Stxh: {3, 10}, Strh: {3, 11},
	Stxb: {3, 14}, Strb: {3, 15},
}

func opcodeBits(o Op) uint32 {
	rc := opColumn[o]
	return (rc.row<<5 | rc.col) << 25
}

func sourceBits(s ShortSource) uint32 {
	if s.Kind == SourceImm13 {
		return 0x2000 | (s.Imm13 & 0x1fff)
	}
	return uint32(s.Reg) & 0x1f
}

func sccBit(scc bool) uint32 {
	if scc {
		return 0x01000000
	}
	return 0
}

// Encode is the exact inverse of Decode: encode(decode(w)) == w for
// every w whose reserved bits conform, and decode(encode(x)) == x for
// every valid x.
func Encode(inst Instruction) (uint32, error) {
	switch v := inst.(type) {
	case Short:
		return opcodeBits(v.Op) | sccBit(v.SCC) |
			uint32(v.Dest&0x1f)<<19 | uint32(v.RS1&0x1f)<<14 |
			sourceBits(v.Source), nil
	case Long:
		return opcodeBits(v.Op) | sccBit(v.SCC) |
			uint32(v.Dest&0x1f)<<19 | (v.Imm19 & 0x7ffff), nil
	case ShortConditional:
		return opcodeBits(v.Op) | sccBit(v.SCC) |
			uint32(v.Cond&0xf)<<19 | uint32(v.RS1&0x1f)<<14 |
			sourceBits(v.Source), nil
	case LongConditional:
		return opcodeBits(v.Op) | sccBit(v.SCC) |
			uint32(v.Cond&0xf)<<19 | (v.Imm19 & 0x7ffff), nil
	default:
		return 0, fmt.Errorf("instruction: unencodable instruction type %T", inst)
	}
}
