package disasm

import (
	"testing"

	"github.com/zinc-lang/armbe/config"
	"github.com/zinc-lang/armbe/encoder"
	"github.com/zinc-lang/armbe/ir"
)

func encodeOne(t *testing.T, instr ir.Instr) uint32 {
	t.Helper()
	sec := ir.NewSection("t")
	sec.Emit(instr)
	result, err := encoder.EncodeSection(sec)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if len(result.Code) != 4 {
		t.Fatalf("expected exactly one word, got %d bytes", len(result.Code))
	}
	return uint32(result.Code[0]) | uint32(result.Code[1])<<8 | uint32(result.Code[2])<<16 | uint32(result.Code[3])<<24
}

func TestDecodeAddImmediate(t *testing.T) {
	word := encodeOne(t, &ir.DataProcessing{Cond: ir.CondAL, Op: ir.OpADD, Rd: 0, Rn: 1, Op2: ir.Imm12{Value: 1}})
	if word != 0xE2810001 {
		t.Fatalf("ADD r0,r1,#1 encoded to 0x%08X, want 0xE2810001", word)
	}

	got, err := Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	dp, ok := got.(*ir.DataProcessing)
	if !ok {
		t.Fatalf("decoded %T, want *ir.DataProcessing", got)
	}
	if dp.Op != ir.OpADD || dp.Rd != 0 || dp.Rn != 1 {
		t.Fatalf("decoded %+v, want Op=ADD Rd=0 Rn=1", dp)
	}
	if imm, ok := dp.Op2.(ir.Imm12); !ok || imm.Value != 1 {
		t.Fatalf("decoded Op2 = %+v, want Imm12{1}", dp.Op2)
	}
}

func TestDecodeSWI(t *testing.T) {
	word := encodeOne(t, &ir.SoftwareInterrupt{Cond: ir.CondAL, Comment: 0x11})

	got, err := Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	swi, ok := got.(*ir.SoftwareInterrupt)
	if !ok {
		t.Fatalf("decoded %T, want *ir.SoftwareInterrupt", got)
	}
	if swi.Cond != ir.CondAL || swi.Comment != 0x11 {
		t.Fatalf("decoded %+v, want Cond=AL Comment=0x11", swi)
	}
}

func TestDecodeSingleTransferRoundTrip(t *testing.T) {
	orig := &ir.SingleTransfer{
		Cond: ir.CondEQ,
		Load: true,
		Size: ir.TransferByte,
		Rd:   3,
		Addr: ir.AddrMode{Base: 4, Offset: ir.OffsetImm{Value: 12}, PreIndex: true, WriteBack: true},
	}
	word := encodeOne(t, orig)

	got, err := Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	st, ok := got.(*ir.SingleTransfer)
	if !ok {
		t.Fatalf("decoded %T, want *ir.SingleTransfer", got)
	}
	if st.Cond != orig.Cond || st.Load != orig.Load || st.Size != orig.Size || st.Rd != orig.Rd {
		t.Fatalf("decoded %+v, want match for %+v", st, orig)
	}
	if st.Addr.Base != 4 || st.Addr.PreIndex != true || st.Addr.WriteBack != true || st.Addr.Subtract {
		t.Fatalf("decoded Addr = %+v", st.Addr)
	}
	if off, ok := st.Addr.Offset.(ir.OffsetImm); !ok || off.Value != 12 {
		t.Fatalf("decoded Offset = %+v, want OffsetImm{12}", st.Addr.Offset)
	}
}

func TestDecodeMiscTransferHalfwordLoadStore(t *testing.T) {
	load := &ir.MiscTransfer{Cond: ir.CondAL, Kind: ir.MiscLDRH, Rd: 1, Rn: 2, Offset: ir.OffsetImm{Value: 4}, PreIndex: true}
	word := encodeOne(t, load)
	got, err := Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode LDRH: %v", err)
	}
	mt, ok := got.(*ir.MiscTransfer)
	if !ok || mt.Kind != ir.MiscLDRH {
		t.Fatalf("decoded %+v, want Kind=LDRH", got)
	}

	store := &ir.MiscTransfer{Cond: ir.CondAL, Kind: ir.MiscSTRH, Rd: 1, Rn: 2, Offset: ir.OffsetImm{Value: 4}, PreIndex: true}
	word = encodeOne(t, store)
	got, err = Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode STRH: %v", err)
	}
	mt, ok = got.(*ir.MiscTransfer)
	if !ok || mt.Kind != ir.MiscSTRH {
		t.Fatalf("decoded %+v, want Kind=STRH", got)
	}
}

func TestDecodeFPADataRejectsWrongFloatModel(t *testing.T) {
	word := encodeOne(t, &ir.FPAData{Cond: ir.CondAL, Op: ir.FPADataOp(0), Fd: 0, Fn: 1, Fm: 2})
	if _, err := Decode(word, config.FloatVFP); err == nil {
		t.Fatalf("expected decode under the wrong float model to fail")
	}
	if _, err := Decode(word, config.FloatFPA); err != nil {
		t.Fatalf("decode under the matching float model: %v", err)
	}
}

func TestDecodeMultiplyAccumulate(t *testing.T) {
	orig := &ir.Multiply{Cond: ir.CondAL, Accumulate: true, Rd: 1, Rm: 2, Rs: 3, Rn: 4}
	word := encodeOne(t, orig)

	got, err := Decode(word, config.FloatFPA)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	m, ok := got.(*ir.Multiply)
	if !ok {
		t.Fatalf("decoded %T, want *ir.Multiply", got)
	}
	if !m.Accumulate || m.Rd != 1 || m.Rm != 2 || m.Rs != 3 || m.Rn != 4 {
		t.Fatalf("decoded %+v, want match for %+v", m, orig)
	}
}
