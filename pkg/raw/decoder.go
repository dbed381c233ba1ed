package raw

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

const (
	headerLen      = 16
	agentRecordLen = 96
	skillRecordLen = 68
	eventRecordLen = 64

	// newestRevision is the newest event layout this decoder knows.
	newestRevision = 1
)

var magic = []byte("EVTC")

// Decode parses a complete capture from a fully materialized byte buffer.
//
// Structural failures (bad magic, truncation) abort the decode and return a
// *StructuralError. Non-fatal conditions (unsupported revision, invalid name
// text) are absorbed and reported through LogData.Warnings.
func Decode(buf []byte) (*LogData, error) {
	d := &decoder{buf: buf}

	header, err := d.header()
	if err != nil {
		return nil, err
	}

	agents, err := d.agents()
	if err != nil {
		return nil, err
	}

	skills, err := d.skills()
	if err != nil {
		return nil, err
	}

	events, err := d.events(header.Revision)
	if err != nil {
		return nil, err
	}

	return &LogData{
		Header:   header,
		Agents:   agents,
		Skills:   skills,
		Events:   events,
		Warnings: d.warnings,
	}, nil
}

// DecodeHeader parses only the 16-byte file header. Useful for callers that
// want to identify a capture without paying for the full decode.
func DecodeHeader(buf []byte) (Header, error) {
	d := &decoder{buf: buf}
	return d.header()
}

type decoder struct {
	buf      []byte
	off      int
	warnings []error
}

func (d *decoder) remaining() int {
	return len(d.buf) - d.off
}

// take returns the next n bytes or a Truncated error with position context.
func (d *decoder) take(n int) ([]byte, error) {
	if d.remaining() < n {
		return nil, &StructuralError{
			Err:       ErrTruncated,
			Offset:    d.off,
			Expected:  n,
			Available: d.remaining(),
		}
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b, nil
}

func (d *decoder) header() (Header, error) {
	m, err := d.take(len(magic))
	if err != nil {
		return Header{}, err
	}
	if !bytes.Equal(m, magic) {
		return Header{}, &StructuralError{Err: ErrBadMagic, Offset: 0, Expected: len(magic), Available: len(magic)}
	}

	build, err := d.take(8)
	if err != nil {
		return Header{}, err
	}

	rev, err := d.take(1)
	if err != nil {
		return Header{}, err
	}

	h := Header{
		BuildDate: string(build),
		Revision:  rev[0],
	}

	// Very old captures stop after the revision byte; the encounter id and
	// the reserved byte default rather than fail.
	if d.remaining() >= 3 {
		id, _ := d.take(2)
		h.EncounterID = binary.LittleEndian.Uint16(id)
		d.take(1) // reserved
	} else {
		d.off = len(d.buf)
	}

	if h.Revision > newestRevision {
		d.warnings = append(d.warnings,
			fmt.Errorf("%w: revision %d, decoding with revision %d layout", ErrUnsupportedRevision, h.Revision, newestRevision))
	}
	return h, nil
}

func (d *decoder) agents() ([]Agent, error) {
	countBytes, err := d.take(4)
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBytes)

	if d.remaining() < int(count)*agentRecordLen {
		return nil, &StructuralError{
			Err:       ErrTruncated,
			Offset:    d.off,
			Expected:  int(count) * agentRecordLen,
			Available: d.remaining(),
		}
	}

	agents := make([]Agent, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := d.take(agentRecordLen)
		if err != nil {
			return nil, err
		}
		var a Agent
		a.Addr = binary.LittleEndian.Uint64(rec[0:8])
		a.Profession = binary.LittleEndian.Uint32(rec[8:12])
		a.Elite = binary.LittleEndian.Uint32(rec[12:16])
		a.Toughness = int16(binary.LittleEndian.Uint16(rec[16:18]))
		a.Concentration = int16(binary.LittleEndian.Uint16(rec[18:20]))
		a.Healing = int16(binary.LittleEndian.Uint16(rec[20:22]))
		// rec[22:24] is padding.
		a.Condition = int16(binary.LittleEndian.Uint16(rec[24:26]))
		// rec[26:28] is padding.
		copy(a.Name[:], rec[28:28+NameLen])
		// rec[92:96] is trailing struct padding.
		agents = append(agents, a)
	}
	return agents, nil
}

func (d *decoder) skills() ([]Skill, error) {
	countBytes, err := d.take(4)
	if err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(countBytes)

	if d.remaining() < int(count)*skillRecordLen {
		return nil, &StructuralError{
			Err:       ErrTruncated,
			Offset:    d.off,
			Expected:  int(count) * skillRecordLen,
			Available: d.remaining(),
		}
	}

	skills := make([]Skill, 0, count)
	for i := uint32(0); i < count; i++ {
		rec, err := d.take(skillRecordLen)
		if err != nil {
			return nil, err
		}
		var s Skill
		s.ID = int32(binary.LittleEndian.Uint32(rec[0:4]))
		copy(s.Name[:], rec[4:4+NameLen])
		skills = append(skills, s)
	}
	return skills, nil
}

// events reads fixed-size records until the input is exhausted. A trailing
// partial record means the capture was cut mid-write and is a Truncated
// error, not a silent drop.
func (d *decoder) events(revision uint8) ([]Event, error) {
	if rem := d.remaining(); rem%eventRecordLen != 0 {
		return nil, &StructuralError{
			Err:       ErrTruncated,
			Offset:    d.off + rem - rem%eventRecordLen,
			Expected:  eventRecordLen,
			Available: rem % eventRecordLen,
		}
	}

	events := make([]Event, 0, d.remaining()/eventRecordLen)
	for d.remaining() > 0 {
		rec, err := d.take(eventRecordLen)
		if err != nil {
			return nil, err
		}
		if revision == 0 {
			events = append(events, decodeEventRev0(rec))
		} else {
			// Revision 1 layout, also the best-effort fallback for
			// revisions newer than this decoder.
			events = append(events, decodeEventRev1(rec))
		}
	}
	return events, nil
}

func decodeEventRev0(rec []byte) Event {
	var e Event
	e.Time = binary.LittleEndian.Uint64(rec[0:8])
	e.SrcAgent = binary.LittleEndian.Uint64(rec[8:16])
	e.DstAgent = binary.LittleEndian.Uint64(rec[16:24])
	e.Value = int32(binary.LittleEndian.Uint32(rec[24:28]))
	e.BuffDamage = int32(binary.LittleEndian.Uint32(rec[28:32]))
	e.OverstackValue = uint32(binary.LittleEndian.Uint16(rec[32:34]))
	e.SkillID = uint32(binary.LittleEndian.Uint16(rec[34:36]))
	e.SrcInstance = binary.LittleEndian.Uint16(rec[36:38])
	e.DstInstance = binary.LittleEndian.Uint16(rec[38:40])
	e.SrcMasterInstance = binary.LittleEndian.Uint16(rec[40:42])
	// rec[42:51] is internal tracking state, preserved but not interpreted.
	e.IFF = IFF(rec[51])
	e.Buff = rec[52]
	e.Result = Result(rec[53])
	e.Activation = Activation(rec[54])
	e.BuffRemove = BuffRemove(rec[55])
	e.HighHealth = rec[56] != 0
	e.LowHealth = rec[57] != 0
	e.Moving = rec[58] != 0
	e.StateChange = StateChange(rec[59])
	e.Flanking = rec[60] != 0
	e.Shields = rec[61] != 0
	// rec[62:64] is internal tracking state.
	return e
}

func decodeEventRev1(rec []byte) Event {
	var e Event
	e.Time = binary.LittleEndian.Uint64(rec[0:8])
	e.SrcAgent = binary.LittleEndian.Uint64(rec[8:16])
	e.DstAgent = binary.LittleEndian.Uint64(rec[16:24])
	e.Value = int32(binary.LittleEndian.Uint32(rec[24:28]))
	e.BuffDamage = int32(binary.LittleEndian.Uint32(rec[28:32]))
	e.OverstackValue = binary.LittleEndian.Uint32(rec[32:36])
	e.SkillID = binary.LittleEndian.Uint32(rec[36:40])
	e.SrcInstance = binary.LittleEndian.Uint16(rec[40:42])
	e.DstInstance = binary.LittleEndian.Uint16(rec[42:44])
	e.SrcMasterInstance = binary.LittleEndian.Uint16(rec[44:46])
	e.DstMasterInstance = binary.LittleEndian.Uint16(rec[46:48])
	e.IFF = IFF(rec[48])
	e.Buff = rec[49]
	e.Result = Result(rec[50])
	e.Activation = Activation(rec[51])
	e.BuffRemove = BuffRemove(rec[52])
	e.HighHealth = rec[53] != 0
	e.LowHealth = rec[54] != 0
	e.Moving = rec[55] != 0
	e.StateChange = StateChange(rec[56])
	e.Flanking = rec[57] != 0
	e.Shields = rec[58] != 0
	e.OffCycle = rec[59] != 0
	// rec[60:64] is internal tracking state.
	return e
}

// CString decodes a NUL-terminated fixed-width name buffer. Decoding stops
// at the first NUL or the buffer end; bytes beyond the terminator are
// ignored. If the used portion is not valid UTF-8, the longest valid prefix
// is returned together with ErrInvalidText.
func CString(buf []byte) (string, error) {
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	if utf8.Valid(buf) {
		return string(buf), nil
	}
	// Keep the valid prefix; the remainder is unrecoverable.
	valid := 0
	for valid < len(buf) {
		r, size := utf8.DecodeRune(buf[valid:])
		if r == utf8.RuneError && size == 1 {
			break
		}
		valid += size
	}
	return string(buf[:valid]), ErrInvalidText
}
