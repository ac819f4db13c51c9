package yaml

import (
	"testing"

	"github.com/sjianjun/charsetconv"
)

func TestContentType(t *testing.T) {
	c := New()
	if c.ContentType() != "application/yaml" {
		t.Errorf("ContentType() = %q, want %q", c.ContentType(), "application/yaml")
	}
}

func TestNotBinary(t *testing.T) {
	if _, ok := New().(charsetconv.BinaryCodec); ok {
		t.Error("YAML codec should not implement BinaryCodec")
	}
}

func TestUnmarshal_DecodedText(t *testing.T) {
	c := New()

	type Book struct {
		Title   string   `yaml:"title"`
		Authors []string `yaml:"authors"`
	}

	input := "title: 三体\nauthors:\n  - 刘慈欣\n"

	var v Book
	if err := c.Unmarshal([]byte(input), &v); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if v.Title != "三体" || len(v.Authors) != 1 || v.Authors[0] != "刘慈欣" {
		t.Errorf("Unmarshal() = %+v", v)
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	c := New()

	type TestStruct struct {
		Name  string `yaml:"name"`
		Value int    `yaml:"value"`
	}

	original := TestStruct{Name: "ñandú", Value: 42}

	data, err := c.Marshal(original)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var restored TestStruct
	if err := c.Unmarshal(data, &restored); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	if restored != original {
		t.Errorf("round-trip failed: got %+v, want %+v", restored, original)
	}
}

func TestUnmarshal_MalformedYAML(t *testing.T) {
	c := New()

	testCases := []struct {
		name  string
		input string
	}{
		{"unclosed bracket", "items: [a, b"},
		{"nested mapping on one line", "a: b: c"},
		{"tab indentation", "a:\n\tb: 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var v map[string]any
			if err := c.Unmarshal([]byte(tc.input), &v); err == nil {
				t.Errorf("Unmarshal(%q) should return error", tc.input)
			}
		})
	}
}
