package history

import "context"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type Turn struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

type History interface {
	Append(ctx context.Context, sessionId string, role string, message string) error
	Read(ctx context.Context, sessionId string) ([]Turn, error)
}
