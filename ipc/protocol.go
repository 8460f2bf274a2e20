package ipc

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MaxMessageSize bounds a single frame. Batch summaries carrying every
// outcome are the largest messages.
const MaxMessageSize = 16 << 20

var ErrMessageSize = errors.New("invalid message length")

// Envelope is the wire format shared with clients. Data is kept as
// RawMessage so handlers can defer deserialization to the concrete type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func NewEnvelope(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// Decode unmarshals the envelope's payload into v.
func (e Envelope) Decode(v any) error {
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", e.Type, err)
	}
	return nil
}

// ReadEnvelope reads a single length-prefixed JSON envelope. The prefix is
// a 4-byte little-endian payload length.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}

	// Guard against corrupted frames or malicious payloads.
	if length == 0 || length > MaxMessageSize {
		return Envelope{}, fmt.Errorf("%w: %d", ErrMessageSize, length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	return env, nil
}

func WriteEnvelope(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > MaxMessageSize {
		return fmt.Errorf("%w: %d", ErrMessageSize, len(payload))
	}

	// One write per frame so concurrent readers never see a split prefix.
	frame := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(frame, uint32(len(payload)))
	frame = append(frame, payload...)
	if _, err := w.Write(frame); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
