package parentchild

import (
	"context"
	"testing"

	"clubhub/clients/store"
	"clubhub/services/club"
	"clubhub/services/request"
	"clubhub/services/user"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	db       *store.MemStore
	users    user.Service
	clubs    club.Service
	requests request.Service
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := store.NewMemStore()
	users := user.NewService(db, nil)
	clubs := club.NewService(db)
	requests := request.NewService(db, clubs, users)
	return &fixture{
		db:       db,
		users:    users,
		clubs:    clubs,
		requests: requests,
		svc:      NewService(db, users, clubs, requests),
	}
}

func (f *fixture) seedUser(t *testing.T, u user.User) *user.User {
	t.Helper()
	created, err := f.users.CreateUser(context.Background(), &u)
	require.NoError(t, err)
	return created
}

func (f *fixture) seedParent(t *testing.T, id, email string) *user.User {
	t.Helper()
	return f.seedUser(t, user.User{ID: id, Email: email, Role: user.RoleParent})
}

func (f *fixture) seedClub(t *testing.T, c club.Club) *club.Club {
	t.Helper()
	created, err := f.clubs.CreateClub(context.Background(), &c)
	require.NoError(t, err)
	return created
}

func (f *fixture) getUser(t *testing.T, id string) *user.User {
	t.Helper()
	u, err := f.users.GetUser(context.Background(), id)
	require.NoError(t, err)
	return u
}
