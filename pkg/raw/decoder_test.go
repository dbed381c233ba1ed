package raw

import (
	"bytes"
	"encoding/binary"
	"errors"
	"reflect"
	"testing"
)

// logBuilder assembles synthetic EVTC buffers for decoder tests.
type logBuilder struct {
	buf bytes.Buffer
}

func newLogBuilder(buildDate string, revision uint8, encounterID uint16) *logBuilder {
	b := &logBuilder{}
	b.buf.WriteString("EVTC")
	b.buf.WriteString(buildDate)
	b.buf.WriteByte(revision)
	binary.Write(&b.buf, binary.LittleEndian, encounterID)
	b.buf.WriteByte(0) // reserved
	return b
}

func (b *logBuilder) agentCount(n uint32) *logBuilder {
	binary.Write(&b.buf, binary.LittleEndian, n)
	return b
}

func (b *logBuilder) agent(addr uint64, profession, elite uint32, name string) *logBuilder {
	rec := make([]byte, agentRecordLen)
	binary.LittleEndian.PutUint64(rec[0:8], addr)
	binary.LittleEndian.PutUint32(rec[8:12], profession)
	binary.LittleEndian.PutUint32(rec[12:16], elite)
	binary.LittleEndian.PutUint16(rec[16:18], 100) // toughness
	binary.LittleEndian.PutUint16(rec[18:20], 200) // concentration
	binary.LittleEndian.PutUint16(rec[20:22], 300) // healing
	binary.LittleEndian.PutUint16(rec[24:26], 400) // condition
	copy(rec[28:28+NameLen], name)
	b.buf.Write(rec)
	return b
}

func (b *logBuilder) skillCount(n uint32) *logBuilder {
	binary.Write(&b.buf, binary.LittleEndian, n)
	return b
}

func (b *logBuilder) skill(id int32, name string) *logBuilder {
	rec := make([]byte, skillRecordLen)
	binary.LittleEndian.PutUint32(rec[0:4], uint32(id))
	copy(rec[4:4+NameLen], name)
	b.buf.Write(rec)
	return b
}

func (b *logBuilder) raw(data []byte) *logBuilder {
	b.buf.Write(data)
	return b
}

func (b *logBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// empty returns a structurally complete log with no agents, skills or events.
func (b *logBuilder) empty() []byte {
	return b.agentCount(0).skillCount(0).bytes()
}

func TestDecode_Header(t *testing.T) {
	data := newLogBuilder("20200101", 1, 0x3C4E).empty()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if log.Header.BuildDate != "20200101" {
		t.Errorf("Expected build date 20200101, got %q", log.Header.BuildDate)
	}
	if log.Header.Revision != 1 {
		t.Errorf("Expected revision 1, got %d", log.Header.Revision)
	}
	if log.Header.EncounterID != 0x3C4E {
		t.Errorf("Expected encounter id 0x3C4E, got %#x", log.Header.EncounterID)
	}
	if len(log.Warnings) != 0 {
		t.Errorf("Expected no warnings, got %v", log.Warnings)
	}
	if len(log.Agents) != 0 || len(log.Skills) != 0 || len(log.Events) != 0 {
		t.Error("Expected empty tables")
	}
}

func TestDecode_BadMagic(t *testing.T) {
	data := newLogBuilder("20200101", 1, 1).empty()
	data[0] = 'X'

	_, err := Decode(data)
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("Expected ErrBadMagic, got %v", err)
	}
	var se *StructuralError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *StructuralError, got %T", err)
	}
}

func TestDecode_TruncatedHeader(t *testing.T) {
	for _, n := range []int{0, 3, 4, 10, 12} {
		full := newLogBuilder("20200101", 1, 1).empty()
		_, err := Decode(full[:n])
		if !errors.Is(err, ErrTruncated) {
			t.Errorf("len %d: expected ErrTruncated, got %v", n, err)
		}
	}
}

func TestDecodeHeader_ShortHeaderDefaultsEncounterID(t *testing.T) {
	// Magic, build date and revision only. Old capture headers end here,
	// so the encounter id defaults to zero.
	data := []byte("EVTC" + "20170101")
	data = append(data, 0)

	h, err := DecodeHeader(data)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if h.EncounterID != 0 {
		t.Errorf("Expected encounter id 0, got %d", h.EncounterID)
	}

	// A full decode still needs the agent table that follows.
	if _, err := Decode(data); !errors.Is(err, ErrTruncated) {
		t.Errorf("Expected ErrTruncated from a full decode, got %v", err)
	}
}

func TestDecode_UnsupportedRevisionWarns(t *testing.T) {
	data := newLogBuilder("20300101", 7, 1).empty()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(log.Warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(log.Warnings))
	}
	if !errors.Is(log.Warnings[0], ErrUnsupportedRevision) {
		t.Errorf("Expected ErrUnsupportedRevision, got %v", log.Warnings[0])
	}
}

func TestDecode_Agents(t *testing.T) {
	data := newLogBuilder("20200101", 1, 1).
		agentCount(2).
		agent(0xDEAD, 4, 48, "Commander\x00Account.1234\x002\x00").
		agent(0xBEEF, 0x4321, 0xFFFFFFFF, "Boss\x00").
		skillCount(0).
		bytes()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(log.Agents) != 2 {
		t.Fatalf("Expected 2 agents, got %d", len(log.Agents))
	}

	a := log.Agents[0]
	if a.Addr != 0xDEAD || a.Profession != 4 || a.Elite != 48 {
		t.Errorf("Agent 0 identity mismatch: %+v", a)
	}
	if a.Toughness != 100 || a.Concentration != 200 || a.Healing != 300 || a.Condition != 400 {
		t.Errorf("Agent 0 stats mismatch: %+v", a)
	}
	name, err := CString(a.Name[:])
	if err != nil {
		t.Fatalf("CString failed: %v", err)
	}
	if name != "Commander" {
		t.Errorf("Expected name Commander, got %q", name)
	}

	if log.Agents[1].Elite != 0xFFFFFFFF {
		t.Errorf("Agent 1 elite mismatch: %#x", log.Agents[1].Elite)
	}
}

func TestDecode_TruncatedAgentTable(t *testing.T) {
	data := newLogBuilder("20200101", 1, 1).
		agentCount(3).
		agent(1, 1, 0, "One\x00").
		bytes()

	_, err := Decode(data)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Expected ErrTruncated, got %v", err)
	}
}

func TestDecode_Skills(t *testing.T) {
	data := newLogBuilder("20200101", 1, 1).
		agentCount(0).
		skillCount(2).
		skill(1175, "Bandage\x00").
		skill(-2, "Dodge\x00").
		bytes()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(log.Skills) != 2 {
		t.Fatalf("Expected 2 skills, got %d", len(log.Skills))
	}
	if log.Skills[0].ID != 1175 {
		t.Errorf("Expected skill id 1175, got %d", log.Skills[0].ID)
	}
	if log.Skills[1].ID != -2 {
		t.Errorf("Expected skill id -2, got %d", log.Skills[1].ID)
	}
	name, _ := CString(log.Skills[1].Name[:])
	if name != "Dodge" {
		t.Errorf("Expected skill name Dodge, got %q", name)
	}
}

func TestDecode_EventRev1(t *testing.T) {
	rec := make([]byte, eventRecordLen)
	binary.LittleEndian.PutUint64(rec[0:8], 5000)           // time
	binary.LittleEndian.PutUint64(rec[8:16], 0xAA)          // src agent
	binary.LittleEndian.PutUint64(rec[16:24], 0xBB)         // dst agent
	binary.LittleEndian.PutUint32(rec[24:28], 0xFFFFFF9C)   // value = -100
	binary.LittleEndian.PutUint32(rec[28:32], 77)           // buff damage
	binary.LittleEndian.PutUint32(rec[32:36], 0x12345678)   // overstack
	binary.LittleEndian.PutUint32(rec[36:40], 0x0001_0001)  // skill id, needs full u32
	binary.LittleEndian.PutUint16(rec[40:42], 11)           // src instance
	binary.LittleEndian.PutUint16(rec[42:44], 22)           // dst instance
	binary.LittleEndian.PutUint16(rec[44:46], 33)           // src master instance
	binary.LittleEndian.PutUint16(rec[46:48], 44)           // dst master instance
	rec[48] = byte(IFFFoe)
	rec[49] = 1 // buff
	rec[50] = byte(ResultCritical)
	rec[51] = byte(ActivationNormal)
	rec[52] = byte(RemoveSingle)
	rec[53] = 1 // high health
	rec[55] = 1 // moving
	rec[56] = byte(StateNone)
	rec[57] = 1 // flanking
	rec[59] = 1 // off cycle

	data := newLogBuilder("20200101", 1, 1).
		agentCount(0).
		skillCount(0).
		raw(rec).
		bytes()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(log.Events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(log.Events))
	}

	e := log.Events[0]
	if e.Time != 5000 || e.SrcAgent != 0xAA || e.DstAgent != 0xBB {
		t.Errorf("Event identity mismatch: %+v", e)
	}
	if e.Value != -100 || e.BuffDamage != 77 {
		t.Errorf("Event payload mismatch: value=%d buffDamage=%d", e.Value, e.BuffDamage)
	}
	if e.OverstackValue != 0x12345678 || e.SkillID != 0x0001_0001 {
		t.Errorf("Expected 32-bit overstack and skill id, got %#x %#x", e.OverstackValue, e.SkillID)
	}
	if e.SrcInstance != 11 || e.DstInstance != 22 || e.SrcMasterInstance != 33 || e.DstMasterInstance != 44 {
		t.Errorf("Instance fields mismatch: %+v", e)
	}
	if e.IFF != IFFFoe || e.Buff != 1 || e.Result != ResultCritical {
		t.Errorf("Flag bytes mismatch: %+v", e)
	}
	if e.Activation != ActivationNormal || e.BuffRemove != RemoveSingle {
		t.Errorf("Activation/remove mismatch: %+v", e)
	}
	if !e.HighHealth || e.LowHealth || !e.Moving || !e.Flanking || e.Shields || !e.OffCycle {
		t.Errorf("Bool flags mismatch: %+v", e)
	}
}

func TestDecode_EventRev0(t *testing.T) {
	rec := make([]byte, eventRecordLen)
	binary.LittleEndian.PutUint64(rec[0:8], 9000)
	binary.LittleEndian.PutUint64(rec[8:16], 0xCC)
	binary.LittleEndian.PutUint16(rec[32:34], 321)   // overstack is u16 in rev 0
	binary.LittleEndian.PutUint16(rec[34:36], 10987) // skill id is u16 in rev 0
	binary.LittleEndian.PutUint16(rec[36:38], 5)     // src instance
	binary.LittleEndian.PutUint16(rec[40:42], 9)     // src master instance
	rec[51] = byte(IFFFriend)
	rec[59] = byte(StateEnterCombat)

	data := newLogBuilder("20190101", 0, 1).
		agentCount(0).
		skillCount(0).
		raw(rec).
		bytes()

	log, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	e := log.Events[0]
	if e.Time != 9000 || e.SrcAgent != 0xCC {
		t.Errorf("Event identity mismatch: %+v", e)
	}
	if e.OverstackValue != 321 || e.SkillID != 10987 {
		t.Errorf("Expected 16-bit overstack and skill id, got %d %d", e.OverstackValue, e.SkillID)
	}
	if e.SrcInstance != 5 || e.SrcMasterInstance != 9 {
		t.Errorf("Instance fields mismatch: %+v", e)
	}
	if e.DstMasterInstance != 0 {
		t.Errorf("Revision 0 has no dst master instance, got %d", e.DstMasterInstance)
	}
	if e.StateChange != StateEnterCombat {
		t.Errorf("Expected StateEnterCombat, got %d", e.StateChange)
	}
}

func TestDecode_TrailingPartialEvent(t *testing.T) {
	data := newLogBuilder("20200101", 1, 1).
		agentCount(0).
		skillCount(0).
		raw(make([]byte, eventRecordLen+17)).
		bytes()

	_, err := Decode(data)
	if !errors.Is(err, ErrTruncated) {
		t.Fatalf("Expected ErrTruncated, got %v", err)
	}
}

func TestDecodeHeader(t *testing.T) {
	data := newLogBuilder("20200101", 1, 0x1234).
		agentCount(0).
		skillCount(0).
		bytes()

	h, err := DecodeHeader(data)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if h.EncounterID != 0x1234 || h.Revision != 1 {
		t.Errorf("Header mismatch: %+v", h)
	}
}

func TestDecode_Deterministic(t *testing.T) {
	data := newLogBuilder("20200101", 1, 0x3C4E).
		agentCount(1).
		agent(0xDEAD, 4, 48, "Commander\x00Account.1234\x002\x00").
		skillCount(1).
		skill(1175, "Bandage\x00").
		raw(make([]byte, 2*eventRecordLen)).
		bytes()

	first, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	second, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Expected identical decode results for the same buffer")
	}
}

func TestCString(t *testing.T) {
	tests := []struct {
		name    string
		buf     []byte
		want    string
		wantErr bool
	}{
		{"terminated", []byte("hello\x00world"), "hello", false},
		{"unterminated", []byte("full"), "full", false},
		{"empty", []byte{0, 'x'}, "", false},
		{"multibyte", []byte("Zoé\x00"), "Zoé", false},
		{"invalid utf8", []byte{'a', 'b', 0xFF, 'c', 0}, "ab", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CString(tt.buf)
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidText) {
				t.Errorf("Expected ErrInvalidText, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
