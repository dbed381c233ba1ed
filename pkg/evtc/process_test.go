package evtc

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/evtcflow/evtcflow/pkg/gamedata"
	"github.com/evtcflow/evtcflow/pkg/raw"
)

// syntheticCapture builds a minimal but complete binary capture: one boss,
// one player, a log start, a combat hit and the boss death.
func syntheticCapture() []byte {
	var buf bytes.Buffer
	buf.WriteString("EVTC")
	buf.WriteString("20200101")
	buf.WriteByte(1) // revision
	binary.Write(&buf, binary.LittleEndian, uint16(gamedata.ValeGuardian))
	buf.WriteByte(0) // reserved

	writeAgent := func(addr uint64, profession, elite uint32, name string) {
		rec := make([]byte, 96)
		binary.LittleEndian.PutUint64(rec[0:8], addr)
		binary.LittleEndian.PutUint32(rec[8:12], profession)
		binary.LittleEndian.PutUint32(rec[12:16], elite)
		copy(rec[28:92], name)
		buf.Write(rec)
	}
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	writeAgent(10, uint32(gamedata.ValeGuardian), 0xFFFFFFFF, "Vale Guardian\x00")
	writeAgent(20, uint32(gamedata.Guardian), 0, "Striker\x00:Strike.1234\x001\x00")

	binary.Write(&buf, binary.LittleEndian, uint32(1))
	skill := make([]byte, 68)
	binary.LittleEndian.PutUint32(skill[0:4], 9000)
	copy(skill[4:68], "Strike\x00")
	buf.Write(skill)

	writeEvent := func(time, src, dst uint64, value int32, skillID uint32, iff raw.IFF, state raw.StateChange) {
		rec := make([]byte, 64)
		binary.LittleEndian.PutUint64(rec[0:8], time)
		binary.LittleEndian.PutUint64(rec[8:16], src)
		binary.LittleEndian.PutUint64(rec[16:24], dst)
		binary.LittleEndian.PutUint32(rec[24:28], uint32(value))
		binary.LittleEndian.PutUint32(rec[36:40], skillID)
		rec[48] = byte(iff)
		rec[56] = byte(state)
		buf.Write(rec)
	}
	writeEvent(100, 0, 0, 0, 0, raw.IFFUnknown, raw.StateLogStart)
	writeEvent(500, 20, 10, 1200, 9000, raw.IFFFoe, raw.StateNone)
	writeEvent(9000, 10, 0, 0, 0, raw.IFFUnknown, raw.StateChangeDead)
	writeEvent(9500, 0, 0, 0, 0, raw.IFFUnknown, raw.StateLogEnd)
	return buf.Bytes()
}

func checkCapture(t *testing.T, log *Log) {
	t.Helper()
	if len(log.Warnings()) != 0 {
		t.Errorf("Expected no warnings, got %v", log.Warnings())
	}
	enc, ok := log.Encounter()
	if !ok || enc != gamedata.EncValeGuardian {
		t.Fatalf("Encounter mismatch: %v ok=%v", enc, ok)
	}
	if len(log.Players()) != 1 || len(log.Characters()) != 1 {
		t.Fatalf("Agent counts mismatch: %d players, %d characters",
			len(log.Players()), len(log.Characters()))
	}
	if got := log.SkillName(9000); got != "Strike" {
		t.Errorf("Expected skill Strike, got %q", got)
	}

	var sawHit, sawDeath bool
	for _, ev := range log.Events() {
		switch k := ev.Kind.(type) {
		case Physical:
			sawHit = k.Source == 20 && k.Target == 10 && k.Damage == 1200
		case ChangeDead:
			sawDeath = k.Agent == 10
		}
	}
	if !sawHit || !sawDeath {
		t.Errorf("Events missing: hit=%v death=%v", sawHit, sawDeath)
	}
	if !log.HasLogEnd() {
		t.Error("Expected an end marker")
	}
}

func TestProcess_Plain(t *testing.T) {
	log, err := Process(syntheticCapture())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	checkCapture(t, log)
}

func TestProcess_Zipped(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("capture.evtc")
	if err != nil {
		t.Fatalf("zip create failed: %v", err)
	}
	if _, err := f.Write(syntheticCapture()); err != nil {
		t.Fatalf("zip write failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zip close failed: %v", err)
	}

	log, err := Process(buf.Bytes())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	checkCapture(t, log)
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.evtc")
	if err := os.WriteFile(path, syntheticCapture(), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	log, err := ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	checkCapture(t, log)

	if _, err := ProcessFile(filepath.Join(t.TempDir(), "missing.evtc")); err == nil {
		t.Fatal("Expected an error for a missing file")
	}
}

func TestProcess_BadData(t *testing.T) {
	if _, err := Process([]byte("definitely not a capture")); err == nil {
		t.Fatal("Expected an error for garbage input")
	}
}
