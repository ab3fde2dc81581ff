// Package midi provides the MIDI message type and the time-ordered event queue
// used by the render path.
package midi

import "fmt"

// Status type nibbles (high nibble of the status byte).
const (
	StatusNoteOff         byte = 0x80
	StatusNoteOn          byte = 0x90
	StatusPolyPressure    byte = 0xA0
	StatusControlChange   byte = 0xB0
	StatusProgramChange   byte = 0xC0
	StatusChannelPressure byte = 0xD0
	StatusPitchBend       byte = 0xE0
)

// Common controller numbers.
const (
	CCModWheel    byte = 1
	CCVolume      byte = 7
	CCPan         byte = 10
	CCExpression  byte = 11
	CCSustain     byte = 64
	CCAllSoundOff byte = 120
	CCAllNotesOff byte = 123
)

// Message is an immutable short MIDI message with sample-accurate timing.
// Offset is relative to the start of the delivery it arrived in; the queue
// rewrites it when stamping and draining.
type Message struct {
	Offset int32
	Status byte // type nibble | channel nibble
	Data1  byte
	Data2  byte
}

// NewNoteOn builds a note-on message.
func NewNoteOn(channel, note, velocity byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusNoteOn | (channel & 0x0F), Data1: note & 0x7F, Data2: velocity & 0x7F}
}

// NewNoteOff builds a note-off message.
func NewNoteOff(channel, note, velocity byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusNoteOff | (channel & 0x0F), Data1: note & 0x7F, Data2: velocity & 0x7F}
}

// NewControlChange builds a control-change message.
func NewControlChange(channel, controller, value byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusControlChange | (channel & 0x0F), Data1: controller & 0x7F, Data2: value & 0x7F}
}

// NewPitchBend builds a pitch-bend message from a 14-bit value (0..16383,
// 8192 is center).
func NewPitchBend(channel byte, value14 uint16, offset int32) Message {
	return Message{
		Offset: offset,
		Status: StatusPitchBend | (channel & 0x0F),
		Data1:  byte(value14 & 0x7F),
		Data2:  byte((value14 >> 7) & 0x7F),
	}
}

// NewProgramChange builds a program-change message.
func NewProgramChange(channel, program byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusProgramChange | (channel & 0x0F), Data1: program & 0x7F}
}

// NewChannelPressure builds a channel-pressure (aftertouch) message.
func NewChannelPressure(channel, pressure byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusChannelPressure | (channel & 0x0F), Data1: pressure & 0x7F}
}

// NewPolyPressure builds a polyphonic key-pressure message.
func NewPolyPressure(channel, note, pressure byte, offset int32) Message {
	return Message{Offset: offset, Status: StatusPolyPressure | (channel & 0x0F), Data1: note & 0x7F, Data2: pressure & 0x7F}
}

// Type returns the status type nibble (StatusNoteOn, StatusControlChange, ...).
func (m Message) Type() byte {
	return m.Status & 0xF0
}

// Channel returns the MIDI channel (0-15).
func (m Message) Channel() byte {
	return m.Status & 0x0F
}

// IsNoteOn reports whether the message starts a note. A note-on with
// velocity 0 does not count: it is a note-off by convention.
func (m Message) IsNoteOn() bool {
	return m.Type() == StatusNoteOn && m.Data2 > 0
}

// IsNoteOff reports whether the message ends a note, including the
// note-on-with-velocity-0 form.
func (m Message) IsNoteOff() bool {
	return m.Type() == StatusNoteOff || (m.Type() == StatusNoteOn && m.Data2 == 0)
}

// NoteNumber returns the note number for note and poly-pressure messages.
func (m Message) NoteNumber() byte {
	return m.Data1
}

// Velocity returns the velocity for note messages.
func (m Message) Velocity() byte {
	return m.Data2
}

// Controller returns the controller number for control-change messages.
func (m Message) Controller() byte {
	return m.Data1
}

// ControlValue returns the controller value for control-change messages.
func (m Message) ControlValue() byte {
	return m.Data2
}

// PitchBend returns the bend amount in [-1.0, 1.0), 0 at center.
func (m Message) PitchBend() float64 {
	value14 := int32(m.Data2)<<7 | int32(m.Data1)
	return float64(value14-8192) / 8192.0
}

// Aftertouch returns the pressure for channel-pressure messages.
func (m Message) Aftertouch() byte {
	return m.Data1
}

// PolyPressure returns the pressure for polyphonic key-pressure messages.
func (m Message) PolyPressure() byte {
	return m.Data2
}

// Program returns the program number for program-change messages.
func (m Message) Program() byte {
	return m.Data1
}

func (m Message) String() string {
	switch m.Type() {
	case StatusNoteOn:
		if m.Data2 == 0 {
			return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:0, offset:%d}", m.Channel(), m.Data1, m.Offset)
		}
		return fmt.Sprintf("NoteOn{ch:%d, note:%d, vel:%d, offset:%d}", m.Channel(), m.Data1, m.Data2, m.Offset)
	case StatusNoteOff:
		return fmt.Sprintf("NoteOff{ch:%d, note:%d, vel:%d, offset:%d}", m.Channel(), m.Data1, m.Data2, m.Offset)
	case StatusControlChange:
		return fmt.Sprintf("CC{ch:%d, ctrl:%d, val:%d, offset:%d}", m.Channel(), m.Data1, m.Data2, m.Offset)
	case StatusPitchBend:
		return fmt.Sprintf("PitchBend{ch:%d, val:%.4f, offset:%d}", m.Channel(), m.PitchBend(), m.Offset)
	case StatusProgramChange:
		return fmt.Sprintf("ProgramChange{ch:%d, prog:%d, offset:%d}", m.Channel(), m.Data1, m.Offset)
	case StatusChannelPressure:
		return fmt.Sprintf("ChannelPressure{ch:%d, pressure:%d, offset:%d}", m.Channel(), m.Data1, m.Offset)
	case StatusPolyPressure:
		return fmt.Sprintf("PolyPressure{ch:%d, note:%d, pressure:%d, offset:%d}", m.Channel(), m.Data1, m.Data2, m.Offset)
	default:
		return fmt.Sprintf("Message{status:0x%02X, d1:%d, d2:%d, offset:%d}", m.Status, m.Data1, m.Data2, m.Offset)
	}
}
