package signup

import "context"

// Service регистрирует участника и возвращает его идентификатор.
type Service interface {
	Signup(ctx context.Context, email string) (string, error)
}
