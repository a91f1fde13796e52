package generator

import "context"

type Option func(*Options)

type Options struct {
	ApiKey       string
	Model        string
	Location     string
	PromptPrefix string
	MaxTokens    int
	Context      context.Context
}

func WithApiKey(apiKey string) Option {
	return func(o *Options) {
		o.ApiKey = apiKey
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// WithLocation overrides the provider base URL.
func WithLocation(loc string) Option {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithPromptPrefix(prefix string) Option {
	return func(o *Options) {
		o.PromptPrefix = prefix
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func NewOptions(opts ...Option) Options {
	options := Options{
		MaxTokens: 1024,
		Context:   context.Background(),
	}
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// FullPrompt prepends the configured prefix, if any.
func (o Options) FullPrompt(prompt string) string {
	if len(o.PromptPrefix) > 0 {
		return o.PromptPrefix + "\n" + prompt
	}
	return prompt
}
