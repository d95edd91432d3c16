package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRelationship(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercases", input: "Parent", expected: "parent"},
		{name: "trims whitespace", input: "  counselor  ", expected: "counselor"},
		{name: "mixed case with spaces", input: " FRIEND ", expected: "friend"},
		{name: "empty stays empty", input: "", expected: ""},
		{name: "unknown category passes through", input: "Teacher", expected: "teacher"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRelationship(tt.input))
		})
	}
}

func TestContact_Deliverable(t *testing.T) {
	assert.True(t, Contact{Email: "a@example.com"}.Deliverable())
	assert.False(t, Contact{Email: ""}.Deliverable())
	assert.False(t, Contact{Email: "   "}.Deliverable())
}

func TestSubject_Normalize(t *testing.T) {
	s := Subject{ID: " u-1 ", Name: "  Alex  ", Email: " alex@example.com "}
	s.Normalize()

	assert.Equal(t, "u-1", s.ID)
	assert.Equal(t, "Alex", s.Name)
	assert.Equal(t, "alex@example.com", s.Email)
}

func TestDefaultRelationships(t *testing.T) {
	assert.Equal(t, []string{"counselor", "parent", "friend"}, DefaultRelationships())
}
