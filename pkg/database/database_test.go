package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm/logger"
)

type probe struct {
	ID   int64
	Name string
}

func TestOpen_Migrates(t *testing.T) {
	db, err := Open(sqlite.Open("file::memory:?cache=shared"), logger.Silent, &probe{})
	require.NoError(t, err)
	assert.True(t, db.Migrator().HasTable(&probe{}))
}

func TestInitRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := InitRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = InitRedis(context.Background(), RedisOptions{Addr: mr.Addr()})
	assert.Error(t, err)
}
