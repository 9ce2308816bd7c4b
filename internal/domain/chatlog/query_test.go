package chatlog

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("-1001234", "")
	if err != nil {
		t.Fatalf("ParseFilter: %v", err)
	}
	if f.ChatID == nil || *f.ChatID != -1001234 || f.ThreadID != nil {
		t.Fatalf("filter = %+v", f)
	}
	if _, err := ParseFilter("abc", ""); !errors.Is(err, ErrInvalidChatID) {
		t.Fatalf("err = %v, want ErrInvalidChatID", err)
	}
	if _, err := ParseFilter("", "1.5"); !errors.Is(err, ErrInvalidThreadID) {
		t.Fatalf("err = %v, want ErrInvalidThreadID", err)
	}
}

func TestWindowBucket(t *testing.T) {
	now := time.Now()
	if b := (Window{From: now.Add(-24 * time.Hour), To: now}).Bucket(); b != BucketHour {
		t.Fatalf("1 day bucket = %s", b)
	}
	if b := (Window{From: now.Add(-48 * time.Hour), To: now}).Bucket(); b != BucketHour {
		t.Fatalf("2 day bucket = %s", b)
	}
	if b := (Window{From: now.Add(-7 * 24 * time.Hour), To: now}).Bucket(); b != BucketDay {
		t.Fatalf("7 day bucket = %s", b)
	}
}

func TestExtractLinks(t *testing.T) {
	got := ExtractLinks(`смотри https://github.com/x/y, и (https://youtu.be/abc). ещё "http://a.b/c?d=1"!`)
	want := []string{"https://github.com/x/y", "https://youtu.be/abc", "http://a.b/c?d=1"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ExtractLinks = %v, want %v", got, want)
	}
	if len(ExtractLinks("без ссылок")) != 0 {
		t.Fatalf("expected no links")
	}
}
