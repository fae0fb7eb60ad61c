// Package inmem provides an in-memory dao.Store, used by fterankd's test
// suite and by local/dev runs that pass no --cache-dir / --users-db flag.
package inmem

import (
	"github.com/dekarrin/fterank/server/dao"
)

type store struct {
	users *InMemoryUsersRepository
}

func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
	}
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Close() error {
	return s.users.Close()
}
