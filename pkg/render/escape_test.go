package render

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHTML string
		wantAttr string
	}{
		{"empty string", "", "", ""},
		{"plain text", "Hello, World!", "Hello, World!", "Hello, World!"},
		{"ampersand", "Tom & Jerry", "Tom &amp; Jerry", "Tom &amp; Jerry"},
		{"angle brackets", "a < b > c", "a &lt; b &gt; c", "a &lt; b &gt; c"},
		{"quotes", `say "hi" it's`, "say &quot;hi&quot; it&#39;s", "say &quot;hi&quot; it&#39;s"},
		{"whitespace", "a\n\r\tb", "a\n\r\tb", "a&#10;&#13;&#9;b"},
		{"already escaped", "&amp;", "&amp;amp;", "&amp;amp;"},
		{"unicode", "héllo 世界", "héllo 世界", "héllo 世界"},
		{"all special chars", `<>&"'` + "\n", "&lt;&gt;&amp;&quot;&#39;\n", "&lt;&gt;&amp;&quot;&#39;&#10;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := escapeHTML(tt.input); got != tt.wantHTML {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, got, tt.wantHTML)
			}
			if got := escapeAttr(tt.input); got != tt.wantAttr {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, got, tt.wantAttr)
			}
		})
	}
}

func BenchmarkEscapeHTML(b *testing.B) {
	b.Run("plain text", func(b *testing.B) {
		s := "Hello, World! This is a plain text string without special characters."
		for i := 0; i < b.N; i++ {
			escapeHTML(s)
		}
	})

	b.Run("with special chars", func(b *testing.B) {
		s := `<script>alert("xss")</script> & more content here`
		for i := 0; i < b.N; i++ {
			escapeHTML(s)
		}
	})
}
