package controller

import (
	"encoding/json"
	"testing"
)

func parseBody(t *testing.T, raw string) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatal(err)
	}
	return body
}

func TestSniffSessionId(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"camelCase", `{"sessionId": "abc"}`, "abc"},
		{"snake_case", `{"session_id": "def"}`, "def"},
		{"bare id", `{"id": "ghi"}`, "ghi"},
		{"camelCase wins over id", `{"sessionId": "abc", "id": "ghi"}`, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sniffSessionId(parseBody(t, tt.body)); got != tt.want {
				t.Errorf("sniffSessionId() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSniffSessionIdGeneratesWhenAbsent(t *testing.T) {
	got := sniffSessionId(parseBody(t, `{"message": "hi"}`))
	if got == "" {
		t.Error("missing session id must be generated, not empty")
	}
}

func TestSniffMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantText   string
		wantObject bool
	}{
		{"object with text", `{"message": {"text": "hello"}}`, "hello", true},
		{"object with content", `{"message": {"content": "hello"}}`, "hello", true},
		{"object without text", `{"message": {"sender": "x"}}`, "", true},
		{"message string", `{"message": "hello"}`, "hello", false},
		{"text field", `{"text": "hello"}`, "hello", false},
		{"content field", `{"content": "hello"}`, "hello", false},
		{"input field", `{"input": "hello"}`, "hello", false},
		{"nothing usable", `{"foo": "bar"}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotText, gotObject := sniffMessage(parseBody(t, tt.body))
			if gotText != tt.wantText {
				t.Errorf("text = %q, want %q", gotText, tt.wantText)
			}
			if gotObject != tt.wantObject {
				t.Errorf("isObject = %v, want %v", gotObject, tt.wantObject)
			}
		})
	}
}

func TestSniffHistory(t *testing.T) {
	body := parseBody(t, `{
		"conversationHistory": [
			{"sender": "scammer", "text": "pay now"},
			{"role": "user", "content": "why?"},
			{"text": "no role at all"},
			"not an object"
		]
	}`)

	history := sniffHistory(body)

	if len(history) != 3 {
		t.Fatalf("history length = %d, want 3", len(history))
	}
	if history[0].Role != "scammer" || history[0].Content != "pay now" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "user" || history[1].Content != "why?" {
		t.Errorf("history[1] = %+v", history[1])
	}
	if history[2].Role != "user" {
		t.Errorf("history[2].Role = %q, want default user", history[2].Role)
	}
}

func TestSniffHistoryAbsent(t *testing.T) {
	if got := sniffHistory(parseBody(t, `{"message": "hi"}`)); got != nil {
		t.Errorf("sniffHistory() = %v, want nil", got)
	}
}
