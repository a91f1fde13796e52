package intent

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/w-h-a/docchat/generator"
)

const extractionPrompt = `The user wants to book an interview. Extract the name, email, date, and time.
If any information is missing, do not guess, and state what is missing.
Format your response as a single JSON object with the following schema:

{
    "name": "...",
    "email": "...",
    "date": "...",
    "time": "..."
}

If the user's request is not for an interview booking, return an empty JSON object {}.
Do not add any additional text or explanation.
`

type Service struct {
	generator generator.Generator
	timeout   time.Duration
}

func (s *Service) Classify(ctx context.Context, query string) Result {
	var sb bytes.Buffer
	sb.WriteString(extractionPrompt)
	sb.WriteString("\nUser's request: ")
	sb.WriteString(strings.TrimSpace(query))
	sb.WriteString("\n")

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	raw, err := s.generator.Generate(ctx, sb.String())
	if err != nil {
		// without a classification the query is answered normally
		slog.WarnContext(ctx, "intent classification unavailable", "error", err)
		return NoIntent{}
	}

	result := Parse(raw)

	switch r := result.(type) {
	case Unprocessable:
		slog.WarnContext(ctx, "intent classification unparseable", "response_bytes", len(raw))
	case Incomplete:
		slog.InfoContext(ctx, "booking intent incomplete", "missing", r.Missing)
	case Complete:
		slog.InfoContext(ctx, "booking intent complete")
	}

	return result
}

func New(generator generator.Generator, timeout time.Duration) *Service {
	return &Service{
		generator: generator,
		timeout:   timeout,
	}
}
