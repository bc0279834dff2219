package models

import (
	"fmt"
	json "github.com/goccy/go-json"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"time"
)

// TimestampLayout is fixed-width and zero-padded, so two formatted values
// order lexicographically exactly as the instants they encode.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var timestampParseLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// Timestamp is a UTC instant with millisecond precision, stored and
// transmitted as an ISO-8601 string.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.UTC().Truncate(time.Millisecond)}
}

func ParseTimestamp(s string) (Timestamp, error) {
	for _, layout := range timestampParseLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimestamp(t), nil
		}
	}
	return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) String() string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.String())
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = Timestamp{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if t.IsZero() {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(t.String())
}

func (t *Timestamp) UnmarshalBSONValue(typ bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: typ, Value: data}
	switch typ {
	case bson.TypeNull, bson.TypeUndefined:
		*t = Timestamp{}
		return nil
	case bson.TypeDateTime:
		*t = NewTimestamp(raw.Time())
		return nil
	case bson.TypeString:
		parsed, err := ParseTimestamp(raw.StringValue())
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}
	return fmt.Errorf("cannot decode bson %s into Timestamp", typ)
}
