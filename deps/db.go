package deps

import (
	"github.com/mavericklabs/sparks-files/env"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDB() (*gorm.DB, error) {
	dsn, err := env.Get(env.DatabaseURL)
	if err != nil {
		return nil, err
	}

	return gorm.Open(postgres.Open(dsn))
}
