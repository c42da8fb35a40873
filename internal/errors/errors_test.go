package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "render error",
			code:    CodeRenderFailed,
			wantMsg: "Component render failed",
			wantCat: CategoryRender,
		},
		{
			name:    "hydration error",
			code:    CodeMismatchElement,
			wantMsg: "Hydration mismatch: element type differs",
			wantCat: CategoryHydration,
		},
		{
			name:    "invariant error",
			code:    CodeFrameDiff,
			wantMsg: "Frame nodes cannot be diffed",
			wantCat: CategoryInvariant,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestRmxError_Error(t *testing.T) {
	cause := stderrors.New("boom")
	tests := []struct {
		name string
		err  *RmxError
		want string
	}{
		{"code only", New(CodeTaskFailed), "E102: Task failed"},
		{"with component", New(CodeRenderFailed).WithComponent("Counter"), "E100: Component render failed (Counter)"},
		{"with cause", New(CodeRenderFailed).Wrap(cause), "E100: Component render failed: boom"},
		{"no code", &RmxError{Message: "plain"}, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIs(t *testing.T) {
	cause := stderrors.New("network down")
	err := fmt.Errorf("hydrate region: %w", New(CodeModuleLoadFailed).Wrap(cause))

	if !Is(err, CodeModuleLoadFailed) {
		t.Error("Is() should find the code through fmt.Errorf wrapping")
	}
	if Is(err, CodeModuleNotFound) {
		t.Error("Is() matched the wrong code")
	}
	if !stderrors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
	if !stderrors.Is(err, New(CodeModuleLoadFailed)) {
		t.Error("errors.Is should match an RmxError sentinel by code")
	}
	if CodeOf(stderrors.New("plain")) != "" {
		t.Error("CodeOf(plain) should be empty")
	}
}

func TestIsInvariant(t *testing.T) {
	if !IsInvariant(New(CodeFrameDiff)) {
		t.Error("frame diff should be an invariant violation")
	}
	if IsInvariant(New(CodeRenderFailed)) {
		t.Error("render failure is not an invariant violation")
	}
	if IsInvariant(nil) {
		t.Error("nil is not an invariant violation")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, CodeTaskFailed) != nil {
		t.Error("FromError(nil) should be nil")
	}

	orig := New(CodeRenderPanic)
	if got := FromError(fmt.Errorf("wrapped: %w", orig), CodeTaskFailed); got != orig {
		t.Error("FromError should return an existing RmxError unchanged")
	}

	plain := stderrors.New("x")
	got := FromError(plain, CodeTaskFailed)
	if got.Code != CodeTaskFailed || got.Wrapped != plain {
		t.Errorf("FromError(plain) = %+v", got)
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New(CodeRenderFailed).
		WithComponent("Counter").
		WithSuggestion("Wrap the component in a Catch boundary").
		Wrap(stderrors.New("boom"))
	out := err.Format()

	for _, want := range []string{
		"ERROR E100: Component render failed",
		"in Counter",
		"cause: boom",
		"Hint: Wrap the component in a Catch boundary",
		"Learn more: https://rmx.dev/docs/errors/E100",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
}

func TestFormatJSON(t *testing.T) {
	err := New(CodeConfigInvalid).WithDetail("scheduler.concurrency must be positive")

	var got map[string]any
	if e := json.Unmarshal([]byte(err.FormatJSON()), &got); e != nil {
		t.Fatalf("FormatJSON() is not valid JSON: %v", e)
	}
	if got["code"] != CodeConfigInvalid || got["category"] != string(CategoryConfig) {
		t.Errorf("FormatJSON() = %v", got)
	}
	if got["detail"] != "scheduler.concurrency must be positive" {
		t.Errorf("detail = %v", got["detail"])
	}
}

func TestRegistryComplete(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("registry is empty")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("%s has an incomplete template", code)
		}
		if !strings.HasSuffix(tmpl.DocURL, code) {
			t.Errorf("%s DocURL = %q", code, tmpl.DocURL)
		}
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText(strings.Repeat("word ", 30), 20)
	for _, l := range lines {
		if len(l) > 20 {
			t.Errorf("line %q longer than 20", l)
		}
	}
	if wrapText("", 10) != nil {
		t.Error("wrapText(\"\") should be nil")
	}
}
