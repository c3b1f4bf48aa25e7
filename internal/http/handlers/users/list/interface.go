package list

import (
	"context"

	"github.com/magabrotheeeer/club-users/internal/models"
)

// Service возвращает всех участников.
type Service interface {
	List(ctx context.Context) ([]models.User, error)
}
