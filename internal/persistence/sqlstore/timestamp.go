package sqlstore

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"
)

// TimestampLayout is a fixed-width UTC layout whose lexical order matches
// chronological order. Backends that store timestamps as text use it.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTimestamp renders t with TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// timestamp scans either native time values or their text rendering.
type timestamp struct {
	Time time.Time
}

func (ts *timestamp) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		ts.Time = v.UTC()
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("sqlstore: cannot scan %T into timestamp", src)
	}
}

func (ts *timestamp) parse(value string) error {
	for _, layout := range []string{TimestampLayout, time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			ts.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("sqlstore: unrecognised timestamp %q", value)
}

var (
	_ sql.Scanner   = (*timestamp)(nil)
	_ driver.Valuer = textTime{}
)

// textTime is a driver.Valuer writing TimestampLayout strings.
type textTime time.Time

func (t textTime) Value() (driver.Value, error) {
	return FormatTimestamp(time.Time(t)), nil
}

// TextTime adapts t for backends storing timestamps as text.
func TextTime(t time.Time) any {
	return textTime(t)
}
