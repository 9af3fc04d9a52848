package deeplink

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSessionID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		id   string
		miss Miss
	}{
		{"simple", "breeze://connect?session=abc123", "abc123", MissNone},
		{"first of several params", "breeze://connect?session=abc&token=xyz", "abc", MissNone},
		{"after other params", "breeze://connect?host=h1&session=abc", "abc", MissNone},
		{"no query string", "breeze://connect", "", MissNoQuery},
		{"empty query", "breeze://connect?", "", MissNoParam},
		{"no session param", "breeze://connect?host=h1&token=xyz", "", MissNoParam},
		{"empty value", "breeze://connect?session=", "", MissEmptyValue},
		{"empty value before others", "breeze://connect?session=&host=h1", "", MissEmptyValue},
		{"value not decoded", "breeze://connect?session=a%20b", "a%20b", MissNone},
		{"key must match exactly", "breeze://connect?usersession=abc", "", MissNoParam},
		{"uuid style id", "breeze://connect?session=5f0c9e1a-77d2-4a43-9c2f-30b4a7a0d8e1", "5f0c9e1a-77d2-4a43-9c2f-30b4a7a0d8e1", MissNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, miss := ParseSessionID(tt.url)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.miss, miss)
		})
	}
}

func TestParseSessionIDIsIdempotent(t *testing.T) {
	url := "breeze://connect?session=abc"
	first, _ := ParseSessionID(url)
	second, _ := ParseSessionID(url)
	assert.Equal(t, first, second)
}

func TestExtractSessionID(t *testing.T) {
	id, ok := ExtractSessionID("breeze://connect?session=abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", id)

	_, ok = ExtractSessionID("breeze://connect")
	assert.False(t, ok)
}

func TestFromArgs(t *testing.T) {
	url, ok := FromArgs([]string{"/usr/bin/viewer", "breeze://connect?session=abc"}, "breeze")
	assert.True(t, ok)
	assert.Equal(t, "breeze://connect?session=abc", url)

	_, ok = FromArgs([]string{"/usr/bin/viewer", "--flag"}, "breeze")
	assert.False(t, ok)

	// Scheme prefix must match from the start of the argument.
	_, ok = FromArgs([]string{"not-breeze://connect"}, "breeze")
	assert.False(t, ok)

	_, ok = FromArgs(nil, "breeze")
	assert.False(t, ok)
}
