package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	assert.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPassword(hash, "s3cret-pass"))
	assert.False(t, CheckPassword(hash, "wrong-pass"))
	assert.False(t, CheckPassword("not-a-hash", "s3cret-pass"))
}

func TestSanitizeStripsScripts(t *testing.T) {
	assert.Equal(t, "hello", Sanitize(`<script>alert(1)</script>hello`))
	assert.Contains(t, Sanitize(`<b>bold</b> stays`), "<b>bold</b>")
}
