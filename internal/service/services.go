package service

import (
	"github.com/kirinyoku/railgo/internal/cache"
	"github.com/kirinyoku/railgo/internal/service/account"
	"github.com/kirinyoku/railgo/internal/service/catalog"
	"github.com/kirinyoku/railgo/internal/service/query"
	"github.com/kirinyoku/railgo/internal/service/reservation"
	"github.com/kirinyoku/railgo/internal/session"
	"github.com/kirinyoku/railgo/internal/state"
	"github.com/kirinyoku/railgo/internal/uow"
)

type Services struct {
	Account     *account.Service
	Catalog     *catalog.Service
	Reservation *reservation.Service
	Query       *query.Service
}

type Config struct {
	Query query.Config
}

func NewServices(
	st *state.State,
	u *uow.UoW,
	c *cache.Cache,
	sessions *session.Manager,
	cfg Config,
) *Services {
	return &Services{
		Account:     account.New(st, u, sessions),
		Catalog:     catalog.New(u, c),
		Reservation: reservation.New(u, sessions, c),
		Query:       query.New(st, c, sessions, cfg.Query),
	}
}
