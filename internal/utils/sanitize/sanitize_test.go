package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Meeting notes", "Meeting notes"},
		{"empty", "", ""},
		{"wrapping tags", "<p>hi</p>", "hi"},
		{"spaces between tags", "<p>Hello</p>   <p>World</p>", "Hello World"},
		{"outer whitespace", "  <p>Hello</p>  ", "Hello"},
		{"script dropped", `  <script>alert('xss')</script>Hello world  `, "Hello world"},
		{"newlines folded", "# Heading\n**bold** text", "# Heading **bold** text"},
		{"entities unescaped", "Tom &amp; Jerry", "Tom & Jerry"},
		{"nbsp normalized", "a&nbsp;b", "a b"},
		{"nested markup", "<div><p>Hello <b>world</b></p><br><a href='#'>link</a></div>", "Hello world link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Line(tt.input)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "<script")
		})
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"keeps whitespace as typed", "line one\n\n  indented", "line one\n\n  indented"},
		{"keeps ampersand", "Tom & Jerry", "Tom & Jerry"},
		{"keeps comparison", "a < b", "a < b"},
		{"drops script", `<script>alert('xss')</script>Hello world`, "Hello world"},
		{"drops handlers", `<img src=x onerror=alert(1)>caption`, " caption"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input))
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := map[string]int{
		"":                            0,
		"   ":                         0,
		"one":                         1,
		"one two\nthree":              3,
		"<p>one two</p><p>three</p>":  3,
		"<b>a</b><i>b</i>":            2,
		"<script>x y z</script>hello": 1,
	}
	for in, want := range tests {
		assert.Equal(t, want, WordCount(in), in)
	}
}
