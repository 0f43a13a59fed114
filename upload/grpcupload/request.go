package grpcupload

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/fieldpos/syncqueue"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Field names used in the request message.
const (
	idField           = "id"
	deviceIDField     = "device_id"
	typeField         = "type"
	timestampField    = "timestamp"
	payloadField      = "payload"
	payloadBytesField = "payload_bytes"
)

// NewRequest returns the request message used to upload op.
//
// If the payload is valid JSON it is embedded as a structured value under the
// "payload" field. Otherwise, it is sent as a base64 string under the
// "payload_bytes" field.
func NewRequest(op syncqueue.PendingOperation) (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{
		idField:        structpb.NewStringValue(op.ID),
		deviceIDField:  structpb.NewStringValue(op.DeviceID),
		typeField:      structpb.NewStringValue(op.Type),
		timestampField: structpb.NewNumberValue(float64(op.Timestamp.UnixMilli())),
	}

	payload := &structpb.Value{}
	if len(op.Payload) == 0 {
		payload = structpb.NewNullValue()
		fields[payloadField] = payload
	} else if err := protojson.Unmarshal(op.Payload, payload); err == nil {
		fields[payloadField] = payload
	} else {
		b, err := structpb.NewValue(op.Payload)
		if err != nil {
			return nil, err
		}
		fields[payloadBytesField] = b
	}

	return &structpb.Struct{Fields: fields}, nil
}

// ParseRequest returns the operation described by a request message produced
// by NewRequest().
func ParseRequest(req *structpb.Struct) (syncqueue.PendingOperation, error) {
	var op syncqueue.PendingOperation

	id, err := stringField(req, idField, true)
	if err != nil {
		return op, err
	}

	op.ID = id

	if op.DeviceID, err = stringField(req, deviceIDField, false); err != nil {
		return op, err
	}

	if op.Type, err = stringField(req, typeField, false); err != nil {
		return op, err
	}

	ts, ok := req.GetFields()[timestampField]
	if _, isNumber := ts.GetKind().(*structpb.Value_NumberValue); !ok || !isNumber {
		return op, &FieldError{timestampField, "must be a number"}
	}
	op.Timestamp = time.UnixMilli(int64(ts.GetNumberValue()))

	if v, ok := req.GetFields()[payloadField]; ok {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); !isNull {
			op.Payload, err = protojson.Marshal(v)
			if err != nil {
				return op, &FieldError{payloadField, err.Error()}
			}
		}
	} else if v, ok := req.GetFields()[payloadBytesField]; ok {
		s, isString := v.GetKind().(*structpb.Value_StringValue)
		if !isString {
			return op, &FieldError{payloadBytesField, "must be a base64 string"}
		}

		op.Payload, err = base64.StdEncoding.DecodeString(s.StringValue)
		if err != nil {
			return op, &FieldError{payloadBytesField, err.Error()}
		}
	}

	return op, nil
}

// stringField returns the string value of the field named n.
func stringField(req *structpb.Struct, n string, required bool) (string, error) {
	v, ok := req.GetFields()[n]
	if !ok {
		if required {
			return "", &FieldError{n, "is required"}
		}
		return "", nil
	}

	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", &FieldError{n, "must be a string"}
	}

	if required && s.StringValue == "" {
		return "", &FieldError{n, "must not be empty"}
	}

	return s.StringValue, nil
}

// FieldError indicates that a request message contains an invalid field.
type FieldError struct {
	Field       string
	Description string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Description)
}
