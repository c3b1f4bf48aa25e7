package signin

import "context"

// Service отмечает вход участника.
type Service interface {
	Signin(ctx context.Context, email string) error
}
