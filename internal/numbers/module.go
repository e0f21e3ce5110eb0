package numbers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"phone_extraction_backend/internal/numbers/repository"
)

// Module wires phone number persistence.
type Module struct {
	repo *repository.Repository
}

func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{repo: repository.New(pool)}
}

func (m *Module) Repository() *repository.Repository {
	return m.repo
}
