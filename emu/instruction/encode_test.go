package instruction

import "testing"

func TestEncodeDecodeRoundTripAllShortOps(t *testing.T) {
	ops := []Op{Calli, GetPSW, GetLPC, PutPSW, Callx, Sll, Sra, Srl, And, Or,
		Xor, Add, Addc, Sub, Subc, Subi, Subci, Ldxw, Ldxhu, Ldxhs, Ldxbu,
		Ldxbs, Stxw, Stxh, Stxb}
	for _, op := range ops {
		original := Short{Op: op, SCC: true, Dest: 17, RS1: 9, Source: ShortSource{Kind: SourceReg, Reg: 3}}
		word, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", op, err)
		}
		decoded, err := Decode(word)
		if err != nil {
			t.Fatalf("Decode(%v) error: %v", op, err)
		}
		if decoded != Instruction(original) {
			t.Errorf("round trip %v got: %+v expected: %+v", op, decoded, original)
		}
	}
}

func TestEncodeDecodeRoundTripLongOps(t *testing.T) {
	ops := []Op{Callr, Ldhi, Ldrw, Ldrhu, Ldrhs, Ldrbu, Ldrbs, Strw, Strh, Strb}
	for _, op := range ops {
		original := Long{Op: op, SCC: false, Dest: 22, Imm19: 0x3cafe}
		word, err := Encode(original)
		if err != nil {
			t.Fatalf("Encode(%v) error: %v", op, err)
		}
		decoded, err := Decode(word)
		if err != nil {
			t.Fatalf("Decode(%v) error: %v", op, err)
		}
		if decoded != Instruction(original) {
			t.Errorf("round trip %v got: %+v expected: %+v", op, decoded, original)
		}
	}
}

func TestEncodeDecodeRoundTripShortConditional(t *testing.T) {
	for _, op := range []Op{Jmpx, Ret, Reti} {
		for cond := Gt; cond <= Alw; cond++ {
			original := ShortConditional{Op: op, SCC: false, Cond: cond, RS1: 11, Source: ShortSource{Kind: SourceImm13, Imm13: 0x1abc}}
			word, err := Encode(original)
			if err != nil {
				t.Fatalf("Encode(%v,%v) error: %v", op, cond, err)
			}
			decoded, err := Decode(word)
			if err != nil {
				t.Fatalf("Decode(%v,%v) error: %v", op, cond, err)
			}
			if decoded != Instruction(original) {
				t.Errorf("round trip %v/%v got: %+v expected: %+v", op, cond, decoded, original)
			}
		}
	}
}

func TestEncodeDecodeRoundTripLongConditional(t *testing.T) {
	original := LongConditional{Op: Jmpr, SCC: true, Cond: Ne, Imm19: 0x7fffe}
	word, err := Encode(original)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	decoded, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if decoded != Instruction(original) {
		t.Errorf("round trip got: %+v expected: %+v", decoded, original)
	}
}

func TestEncodeRejectsUnknownType(t *testing.T) {
	if _, err := Encode(struct{ Instruction }{}); err == nil {
		t.Errorf("Encode expected error for unencodable type")
	}
}
