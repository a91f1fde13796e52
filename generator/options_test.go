package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOptions(t *testing.T) {
	options := NewOptions(WithApiKey("k"), WithModel("m"))

	assert.Equal(t, "k", options.ApiKey)
	assert.Equal(t, "m", options.Model)
	assert.Equal(t, 1024, options.MaxTokens)
	assert.NotNil(t, options.Context)
}

func TestFullPrompt(t *testing.T) {
	assert.Equal(t, "hello", NewOptions().FullPrompt("hello"))
	assert.Equal(t, "be brief\nhello", NewOptions(WithPromptPrefix("be brief")).FullPrompt("hello"))
}
