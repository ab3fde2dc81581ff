package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Interop with gitlab.com/gomidi/midi/v2, used by wrappers that source MIDI
// from OS-level drivers. Not for the render path: conversions allocate.

// FromBytes builds a Message from a raw short MIDI message (status plus up
// to two data bytes) and a delivery-relative frame offset. System messages
// and anything that is not a short channel message are rejected.
func FromBytes(raw []byte, offset int32) (Message, bool) {
	if len(raw) < 1 || raw[0] < 0x80 || raw[0] >= 0xF0 {
		return Message{}, false
	}
	m := Message{Offset: offset, Status: raw[0]}
	need := dataByteCount(raw[0] & 0xF0)
	if len(raw) < 1+need {
		return Message{}, false
	}
	if need >= 1 {
		m.Data1 = raw[1]
	}
	if need == 2 {
		m.Data2 = raw[2]
	}
	return m, true
}

// FromGomidi converts a gomidi channel message. Returns false for system
// and meta messages, which the queue does not carry.
func FromGomidi(msg gomidi.Message, offset int32) (Message, bool) {
	return FromBytes(msg, offset)
}

// Gomidi returns the message as a gomidi raw message, sized per status type.
func (m Message) Gomidi() gomidi.Message {
	switch dataByteCount(m.Type()) {
	case 1:
		return gomidi.Message{m.Status, m.Data1}
	default:
		return gomidi.Message{m.Status, m.Data1, m.Data2}
	}
}

func dataByteCount(statusType byte) int {
	switch statusType {
	case StatusProgramChange, StatusChannelPressure:
		return 1
	default:
		return 2
	}
}
