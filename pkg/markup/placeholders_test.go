package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextPlaceholders(t *testing.T) {
	p := TextPlaceholders("a", "1", "b", "2", "dangling")
	assert.Equal(t, []string{"a", "b"}, p.Names())
	assert.Equal(t, Placeholder{Text: "1"}, p["a"])
}

func TestPlaceholders_WithCopies(t *testing.T) {
	base := TextPlaceholders("a", "1")
	extended := base.With("b", "2").WithTree("c", Text("x", Style{}))

	assert.Len(t, base, 1)
	assert.Len(t, extended, 3)
	assert.True(t, extended["c"].IsTree())
	assert.False(t, extended["b"].IsTree())
}

func TestPlaceholders_OnlyZeroArgumentOpenTags(t *testing.T) {
	p := TextPlaceholders("name", "Bob")
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"open", "<name>", "Bob"},
		{"with argument", "<name:x>", "<name:x>"},
		{"close", "a</name>", "a</name>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, mustParse(t, tt.input, p).PlainText())
		})
	}
}

func TestPlaceholders_TextIsLiteral(t *testing.T) {
	node := mustParse(t, "<red><msg>", TextPlaceholders("msg", "<bold>hi"))
	assert.Equal(t, Text("<bold>hi", colored(Red)), node)
}

func TestLoadPlaceholders(t *testing.T) {
	data := []byte(`{
		// greeting shown to players
		"greeting": "Hello",
		"name": {"markup": "<gold>Steve"},
	}`)

	p, err := LoadPlaceholders(data, nil)
	require.NoError(t, err)
	assert.Equal(t, Placeholder{Text: "Hello"}, p["greeting"])
	assert.Equal(t, Text("Steve", colored(Gold)), p["name"].Tree)

	node := mustParse(t, "<greeting>, <name>!", p)
	expected := Branch(
		Text("Hello, ", Style{}),
		Text("Steve", colored(Gold)),
		Text("!", Style{}),
	)
	assert.Equal(t, expected, node)
}

func TestLoadPlaceholders_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not an object", `["a"]`},
		{"number value", `{"a": 1}`},
		{"object without markup", `{"a": {"text": "x"}}`},
		{"invalid markup in strict mode", `{"a": {"markup": "<bogus>"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlaceholders([]byte(tt.data), New(WithStrict(true)))
			assert.Error(t, err)
		})
	}
}
