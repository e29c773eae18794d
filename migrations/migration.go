package migrations

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/golang-migrate/migrate/v4"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func New(uri string) (*migrate.Migrate, error) {
	_, f, _, _ := runtime.Caller(0)
	basePath := filepath.Dir(f)

	return migrate.New(fmt.Sprintf("file://%s", basePath), uri)
}
