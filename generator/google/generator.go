package google

import (
	"context"
	"errors"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/w-h-a/docchat/generator"
	genaiopt "google.golang.org/api/option"
)

const defaultModel = "gemini-1.5-flash"

type googleGenerator struct {
	options generator.Options
	client  *genai.Client
}

func (g *googleGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := genai.Text(g.options.FullPrompt(prompt))

	model := g.client.GenerativeModel(g.options.Model)
	rsp, err := model.GenerateContent(ctx, req)
	if err != nil {
		return "", err
	}

	if len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil || len(rsp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Google")
	}

	var b strings.Builder
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	return b.String(), nil
}

func (g *googleGenerator) Close() error {
	return g.client.Close()
}

func NewGenerator(opts ...generator.Option) generator.Generator {
	options := generator.NewOptions(opts...)

	if len(options.Model) == 0 {
		options.Model = defaultModel
	}

	g := &googleGenerator{
		options: options,
	}

	clientOpts := []genaiopt.ClientOption{
		genaiopt.WithAPIKey(options.ApiKey),
	}

	if len(options.Location) > 0 {
		clientOpts = append(clientOpts, genaiopt.WithEndpoint(options.Location))
	}

	client, err := genai.NewClient(context.Background(), clientOpts...)
	if err != nil {
		panic(err)
	}

	g.client = client

	return g
}
