package rfctime

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Format string for date-time in RFC3339, disallowing Z as time-offset.
//
// Use it to stringify time.Time forcing timezone offset not to use "Z".
const RFC3339DateTimeFormat string = "2006-01-02T15:04:05.999-07:00"

// Format string for date-time in RFC3339, allowing Z as time-offset.
const RFC3339DateTimeFormatZ string = time.RFC3339Nano

// date-time in https://www.ietf.org/rfc/rfc3339.txt .
//
// This type is useful to interchange timestamps via network/file.
type RFC3339 time.Time

func (rfctime RFC3339) Time() time.Time {
	return time.Time(rfctime)
}

func (rfctime RFC3339) Equal(other RFC3339) bool {
	return rfctime.Time().Equal(other.Time())
}

func (rfctime RFC3339) String() string {
	return rfctime.Time().Format(RFC3339DateTimeFormat)
}

func (rfctime RFC3339) MarshalJSON() ([]byte, error) {
	return json.Marshal(rfctime.String())
}

func (rfctime *RFC3339) UnmarshalJSON(b []byte) error {
	var expr string
	if err := json.Unmarshal(b, &expr); err != nil {
		return err
	}
	t, err := ParseRFC3339DateTime(expr)
	if err != nil {
		return err
	}
	*rfctime = t
	return nil
}

// parse RFC3339 date-time expression, accepting both "Z" and numeric offsets.
func ParseRFC3339DateTime(s string) (RFC3339, error) {
	t, err := time.Parse(RFC3339DateTimeFormatZ, s)
	if err != nil {
		return RFC3339{}, fmt.Errorf("not a RFC3339 date-time: %s: %w", s, err)
	}
	return RFC3339(t), nil
}

// ParseLooseRFC3339 accepts also a date-only expression ("2006-01-02"),
// completing midnight UTC.
func ParseLooseRFC3339(s string) (RFC3339, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return RFC3339(t), nil
	}
	return ParseRFC3339DateTime(s)
}

var _ json.Marshaler = RFC3339{}
var _ json.Unmarshaler = &RFC3339{}

func init() {
	// sanity check for format constants; panic at startup, not on first use.
	example := []byte(`"2021-10-22T12:34:56.78+00:00"`)
	v := new(RFC3339)
	if err := json.Unmarshal(example, v); err != nil {
		panic(err)
	}
	marshalled, err := json.Marshal(*v)
	if err != nil {
		panic(err)
	}
	if !bytes.Equal(example, marshalled) {
		panic(fmt.Sprintf("rfctime roundtrip mismatch: %s != %s", example, marshalled))
	}
}
