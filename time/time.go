// SPDX-License-Identifier: ice License 1.0

package time

import (
	"context"
	stdlibtime "time"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

func Now() *Time {
	now := stdlibtime.Now().UTC()

	return &Time{Time: &now}
}

func New(time stdlibtime.Time) *Time {
	time = time.UTC()

	return &Time{Time: &time}
}

func (t *Time) MarshalJSON(_ context.Context) ([]byte, error) {
	if t == nil || t.Time == nil || t.UnixNano() == 0 {
		return []byte("null"), nil
	}
	if t.Location() != stdlibtime.UTC {
		*t.Time = t.Time.UTC()
	}

	//nolint:wrapcheck // We're just proxying it.
	return t.Time.MarshalJSON()
}

func (t *Time) UnmarshalJSON(_ context.Context, data []byte) error {
	if string(data) == "null" {
		return nil
	}
	t.Time = new(stdlibtime.Time)
	if err := t.Time.UnmarshalJSON(data); err != nil {
		return errors.Wrapf(err, "failed to unmarshal %v into a time", string(data))
	}
	*t.Time = t.Time.UTC()

	return nil
}

func (t *Time) EncodeMsgpack(enc *msgpack.Encoder) error {
	var nanos uint64
	if t.Time != nil {
		nanos = uint64(t.UTC().UnixNano())
	}

	return errors.Wrap(enc.EncodeUint64(nanos), "failed to EncodeUint64")
}

func (t *Time) DecodeMsgpack(dec *msgpack.Decoder) error {
	nanos, err := dec.DecodeUint64()
	if err != nil {
		return errors.Wrap(err, "failed to DecodeUint64")
	}
	t.Time = new(stdlibtime.Time)
	*t.Time = stdlibtime.Unix(0, int64(nanos)).UTC()

	return nil
}

func (t *Time) Scan(src any) error {
	switch val := src.(type) {
	case stdlibtime.Time:
		t.Time = new(stdlibtime.Time)
		*t.Time = val.UTC()

		return nil
	case nil:
		return nil
	default:
		return errors.Errorf("unexpected type %[1]T for time value %[1]v", src)
	}
}
