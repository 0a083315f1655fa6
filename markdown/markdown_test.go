package markdown

import (
	"strings"
	"testing"
)

func TestFormatInline(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"text **bold** more", "text <strong>bold</strong> more"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
		{"use `**raw**` here", "use <code>**raw**</code> here"},
		{"snake_case_name stays", "snake_case_name stays"},
		{"restart/recovery (systemd)", "restart/recovery (systemd)"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline(`<script>alert("x")</script> & more`)
	if strings.Contains(got, "<script>") {
		t.Errorf("FormatInline did not escape script tag: %q", got)
	}
	if !strings.Contains(got, "&amp; more") {
		t.Errorf("FormatInline did not escape ampersand: %q", got)
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
		{"[site](https://example.com)^", `<a href="https://example.com" target="_blank" rel="noopener noreferrer">site</a>`},
		{"[home](/)", `<a href="/">home</a>`},
		{"[x](javascript:alert(1))", "x)"},
		{"[a_b](https://example.com/a*b*c)", `<a href="https://example.com/a*b*c">a_b</a>`},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single paragraph", "Hello world", "<p>Hello world</p>"},
		{"joined lines", "one\ntwo", "<p>one two</p>"},
		{"two paragraphs", "one\n\ntwo", "<p>one</p><p>two</p>"},
		{"list", "- a\n- b", "<ul><li>a</li><li>b</li></ul>"},
		{"paragraph then list", "intro\n- **a**\n* b\n\nend", "<p>intro</p><ul><li><strong>a</strong></li><li>b</li></ul><p>end</p>"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.input); got != tt.expected {
				t.Errorf("Render(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"https://example.com", "https://example.com"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"/cv/", "/cv/"},
		{"#top", "#top"},
		{"javascript:alert(1)", ""},
		{"data:text/html,hi", ""},
		{"relative/path", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.input); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
