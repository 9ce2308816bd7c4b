package logger

import (
	"strings"
	"testing"
)

func TestSanitizeRedactsSecrets(t *testing.T) {
	got := sanitizeKVs([]interface{}{"bot_token", "123:abc", "OPENROUTER_API_KEY", "sk", "chat_id", "-100"})
	if got[1] != "[REDACTED]" || got[3] != "[REDACTED]" {
		t.Fatalf("secrets leaked: %v", got)
	}
	if got[5] != "-100" {
		t.Fatalf("chat_id should pass through: %v", got)
	}
}

func TestSanitizeClipsPayloads(t *testing.T) {
	long := strings.Repeat("я", clipLimit+20)
	got := sanitizeKVs([]interface{}{"raw", long, "dangling"})
	s, _ := got[1].(string)
	if !strings.HasSuffix(s, "…(+20)") || len(got) != 3 {
		t.Fatalf("raw not clipped: %d %v", len(got), strings.HasSuffix(s, "…(+20)"))
	}
}

func TestClip(t *testing.T) {
	if Clip("abc", 5) != "abc" || Clip("abcdef", 0) != "abcdef" {
		t.Fatalf("short strings should be unchanged")
	}
	if got := Clip("абвгд", 2); got != "аб…(+3)" {
		t.Fatalf("Clip = %q", got)
	}
}
