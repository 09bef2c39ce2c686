// Package pb holds the hospital.v1 scheduler service messages and descriptor.
// Messages are encoded by hand with protowire in proto3 wire format, so any
// standard protobuf client built from the same field numbers interoperates.
package pb

import (
	"errors"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/types/known/timestamppb"
)

var errParse = errors.New("pb: malformed message")

// Message is implemented by every request and response type.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire([]byte) error
}

// Codec plugs Message into grpc. It is named "proto" so the content-type on
// the wire stays application/grpc+proto.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("pb: cannot marshal %T", v)
	}
	return m.MarshalWire(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("pb: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

func (Codec) Name() string { return "proto" }

// walk visits every field of b. Bytes fields arrive in val, varints in u;
// other wire types are skipped.
func walk(b []byte, fn func(num protowire.Number, typ protowire.Type, val []byte, u uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errParse
		}
		b = b[n:]
		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return errParse
			}
			if err := fn(num, typ, v, 0); err != nil {
				return err
			}
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return errParse
			}
			if err := fn(num, typ, nil, v); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errParse
			}
			b = b[n:]
		}
	}
	return nil
}

func appendString(out []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return out
	}
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendString(out, s)
}

// appendOptString writes a present field even when empty.
func appendOptString(out []byte, num protowire.Number, s *string) []byte {
	if s == nil {
		return out
	}
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendString(out, *s)
}

func appendMessage(out []byte, num protowire.Number, inner []byte) []byte {
	out = protowire.AppendTag(out, num, protowire.BytesType)
	return protowire.AppendBytes(out, inner)
}

func appendTimestamp(out []byte, num protowire.Number, ts *timestamppb.Timestamp) []byte {
	if ts == nil {
		return out
	}
	var inner []byte
	if ts.Seconds != 0 {
		inner = protowire.AppendTag(inner, 1, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Seconds))
	}
	if ts.Nanos != 0 {
		inner = protowire.AppendTag(inner, 2, protowire.VarintType)
		inner = protowire.AppendVarint(inner, uint64(ts.Nanos))
	}
	return appendMessage(out, num, inner)
}

func parseTimestamp(b []byte) (*timestamppb.Timestamp, error) {
	ts := &timestamppb.Timestamp{}
	err := walk(b, func(num protowire.Number, typ protowire.Type, _ []byte, u uint64) error {
		switch {
		case num == 1 && typ == protowire.VarintType:
			ts.Seconds = int64(u)
		case num == 2 && typ == protowire.VarintType:
			ts.Nanos = int32(u)
		}
		return nil
	})
	return ts, err
}

func strPtr(b []byte) *string {
	s := string(b)
	return &s
}

// Timestamp converts a non-zero time; zero maps to nil (field absent).
func Timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

// Time converts an optional timestamp; nil maps to the zero time.
func Time(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime()
}
