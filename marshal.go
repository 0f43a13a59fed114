package syncqueue

import (
	"fmt"
	"reflect"
	"time"

	"github.com/dogmatiq/marshalkit"
	"github.com/dogmatiq/marshalkit/codec"
	"github.com/dogmatiq/marshalkit/codec/json"
)

// documentVersion is the version of the persisted queue layout.
const documentVersion = 1

// document is the persisted representation of the queue.
type document struct {
	Version    int                 `json:"version"`
	Operations []documentOperation `json:"operations"`
}

// documentOperation is the persisted representation of a PendingOperation.
type documentOperation struct {
	ID        string `json:"id"`
	DeviceID  string `json:"device_id,omitempty"`
	Type      string `json:"type"`
	Payload   []byte `json:"payload"`
	Timestamp int64  `json:"timestamp"`
}

// NewDefaultMarshaler returns the default marshaler used to encode the
// persisted queue.
func NewDefaultMarshaler() marshalkit.Marshaler {
	m, err := codec.NewMarshaler(
		[]reflect.Type{
			reflect.TypeOf(document{}),
		},
		[]codec.Codec{
			&json.Codec{},
		},
	)
	if err != nil {
		panic(err)
	}

	return m
}

// marshalQueue encodes ops into a packet.
func marshalQueue(
	m marshalkit.ValueMarshaler,
	ops []PendingOperation,
) (marshalkit.Packet, error) {
	doc := document{
		Version:    documentVersion,
		Operations: make([]documentOperation, len(ops)),
	}

	for i, op := range ops {
		doc.Operations[i] = documentOperation{
			ID:        op.ID,
			DeviceID:  op.DeviceID,
			Type:      op.Type,
			Payload:   op.Payload,
			Timestamp: op.Timestamp.UnixMilli(),
		}
	}

	return m.Marshal(doc)
}

// unmarshalQueue decodes a packet produced by marshalQueue().
func unmarshalQueue(
	m marshalkit.ValueMarshaler,
	p marshalkit.Packet,
) ([]PendingOperation, error) {
	v, err := m.Unmarshal(p)
	if err != nil {
		return nil, err
	}

	var doc document
	switch v := v.(type) {
	case document:
		doc = v
	case *document:
		doc = *v
	default:
		return nil, fmt.Errorf("unexpected document type %T", v)
	}

	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported document version %d", doc.Version)
	}

	ops := make([]PendingOperation, 0, len(doc.Operations))
	for _, op := range doc.Operations {
		ops = append(ops, PendingOperation{
			ID:        op.ID,
			DeviceID:  op.DeviceID,
			Type:      op.Type,
			Payload:   op.Payload,
			Timestamp: time.UnixMilli(op.Timestamp),
		})
	}

	return ops, nil
}
