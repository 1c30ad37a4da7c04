package ai

import "context"

const (
	RoleSystem = "system"
	RoleUser   = "user"
)

type Message struct {
	Role    string
	Content string
}

// Options задаёт ограничения генерации для одного запроса.
type Options struct {
	MaxTokens   int64
	Temperature float64
}

// Completer выполняет chat completion и возвращает текст первого варианта ответа.
// Пустой ответ считается ошибкой.
type Completer interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}
