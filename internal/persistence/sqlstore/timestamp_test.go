package sqlstore

import (
	"fmt"
	"testing"
	"time"
)

type dollarDialect struct{}

func (dollarDialect) Name() string               { return "dollar" }
func (dollarDialect) Placeholder(n int) string   { return fmt.Sprintf("$%d", n) }
func (dollarDialect) EncodeTime(t time.Time) any { return t }
func (dollarDialect) MapError(err error) error   { return err }

func TestRebind(t *testing.T) {
	pool := NewConnectionPool(nil, dollarDialect{})
	got := pool.rebind("UPDATE homeworks SET title = ? WHERE id = ?")
	if got != "UPDATE homeworks SET title = $1 WHERE id = $2" {
		t.Fatalf("unexpected query %q", got)
	}
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, time.January, 22, 15, 30, 0, 0, time.UTC)

	for _, src := range []any{
		FormatTimestamp(want),
		[]byte(FormatTimestamp(want)),
		want.In(time.FixedZone("JST", 9*60*60)),
		"2024-01-22T15:30:00Z",
	} {
		var ts timestamp
		if err := ts.Scan(src); err != nil {
			t.Fatalf("Scan(%v) returned error: %v", src, err)
		}
		if !ts.Time.Equal(want) || ts.Time.Location() != time.UTC {
			t.Fatalf("Scan(%v) = %v", src, ts.Time)
		}
	}

	var ts timestamp
	if err := ts.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported source")
	}
}

func TestFormatTimestampSortsLexically(t *testing.T) {
	earlier := FormatTimestamp(time.Date(2024, time.January, 22, 9, 0, 0, 5, time.UTC))
	later := FormatTimestamp(time.Date(2024, time.January, 22, 9, 0, 1, 0, time.UTC))
	if !(earlier < later) {
		t.Fatalf("expected %q < %q", earlier, later)
	}
	if len(earlier) != len(later) {
		t.Fatalf("expected fixed width, got %q and %q", earlier, later)
	}
}
