package id

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_Format(t *testing.T) {
	uuidRegex := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	for i := 0; i < 100; i++ {
		id := Run()
		assert.Regexp(t, uuidRegex, id)
		assert.True(t, Valid(id))
	}
}

func TestRun_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := Run()
		assert.False(t, seen[id], "duplicate run id %s", id)
		seen[id] = true
	}
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0b8e2f3a", Short("0b8e2f3a-1c2d-4e5f-8a9b-0c1d2e3f4a5b"))
	assert.Equal(t, "plain", Short("plain"))
	assert.Equal(t, "", Short(""))
}

func TestValid(t *testing.T) {
	assert.False(t, Valid(""))
	assert.False(t, Valid("not-a-uuid"))
	// version 1
	assert.False(t, Valid("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}
