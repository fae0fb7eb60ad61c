// Package sqlite provides a modernc.org/sqlite-backed dao.Store. fterankd
// has exactly one persisted entity, the admin credential, so this store
// opens a single database file and wraps a single UsersDB - no
// session/world conversion helpers are needed here.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dekarrin/fterank/server/dao"
	"modernc.org/sqlite"
)

type store struct {
	dbFilename string
	db         *sql.DB
	users      *UsersDB
}

func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{dbFilename: "admin.db"}

	fileName := filepath.Join(storageDir, st.dbFilename)

	users, err := NewUsersDBConn(fileName)
	if err != nil {
		return nil, err
	}
	st.users = users
	st.db = users.db

	return st, nil
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Close() error {
	return s.db.Close()
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		if sqliteErr.Code() == 19 {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}
