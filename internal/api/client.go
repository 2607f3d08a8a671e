package api

import (
	"context"

	"github.com/crewdesk/crewdesk-go/internal/models"
)

// Client is the surface of the CrewDesk auth API consumed by the session
// subsystem.
//
// HasRefreshSignal reports whether the signal cookie is present, i.e.
// whether a refresh attempt is worth a round trip at all.
type Client interface {
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResult, error)
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Refresh(ctx context.Context) (*models.RefreshResult, error)
	Me(ctx context.Context) (*models.User, error)
	Logout(ctx context.Context) error
	LogoutAll(ctx context.Context) (int, error)
	Sessions(ctx context.Context) ([]models.SessionInfo, error)
	RevokeSession(ctx context.Context, id int) error
	HasRefreshSignal() bool
	Close() error
}
