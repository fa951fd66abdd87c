package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func evaluationSchema() *Schema {
	return &Schema{
		Name:        "test-evaluation",
		Description: "A test evaluation",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"score":    map[string]any{"type": "integer", "minimum": 0, "maximum": 100},
				"feedback": map[string]any{"type": "string"},
				"grade":    map[string]any{"type": "string", "enum": []any{"Excellent", "Good", "Fair"}},
			},
			"required": []any{"score", "feedback"},
		},
	}
}

func TestValidateResponse_ValidJSON(t *testing.T) {
	raw := json.RawMessage(`{"score":85,"feedback":"clear","grade":"Good"}`)
	got, err := validateResponse(evaluationSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content = %s, want %s", got, raw)
	}
}

func TestValidateResponse_ExtractsFromProse(t *testing.T) {
	raw := json.RawMessage("Here is my evaluation:\n```json\n{\"score\":70,\"feedback\":\"uses {braces} well\"}\n```\nGood luck!")
	got, err := validateResponse(evaluationSchema(), raw)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	want := `{"score":70,"feedback":"uses {braces} well"}`
	if string(got) != want {
		t.Fatalf("content = %s, want %s", got, want)
	}
}

func TestValidateResponse_MissingRequired(t *testing.T) {
	_, err := validateResponse(evaluationSchema(), json.RawMessage(`{"score":50}`))
	if err == nil {
		t.Fatal("expected error for missing required field")
	}
	var invErr *ErrInvalidResponse
	if !errors.As(err, &invErr) {
		t.Fatalf("expected ErrInvalidResponse, got: %T", err)
	}
}

func TestValidateResponse_OutOfRange(t *testing.T) {
	_, err := validateResponse(evaluationSchema(), json.RawMessage(`{"score":150,"feedback":"x"}`))
	if err == nil {
		t.Fatal("expected error for score above maximum")
	}
}

func TestValidateResponse_InvalidEnum(t *testing.T) {
	_, err := validateResponse(evaluationSchema(), json.RawMessage(`{"score":50,"feedback":"x","grade":"Superb"}`))
	if err == nil {
		t.Fatal("expected error for invalid enum value")
	}
}

func TestValidateResponse_NoObject(t *testing.T) {
	for _, raw := range []string{``, `just words`, `{"score": 5`} {
		_, err := validateResponse(evaluationSchema(), json.RawMessage(raw))
		var invErr *ErrInvalidResponse
		if !errors.As(err, &invErr) {
			t.Fatalf("%q: expected ErrInvalidResponse, got: %v", raw, err)
		}
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	raw := json.RawMessage(`plain text reply`)
	got, err := validateResponse(nil, raw)
	if err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
	if string(got) != string(raw) {
		t.Fatalf("content = %s, want raw text", got)
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, true},
		{"nested", `x {"a":{"b":2}} y`, `{"a":{"b":2}}`, true},
		{"escaped quote", `{"a":"say \"}\" now"}`, `{"a":"say \"}\" now"}`, true},
		{"first of two", `{"a":1} {"b":2}`, `{"a":1}`, true},
		{"unbalanced", `{"a":1`, ``, false},
		{"none", `no json here`, ``, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Fatalf("ExtractJSONObject(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
