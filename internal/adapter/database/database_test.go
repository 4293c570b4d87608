package database

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	. "github.com/onsi/gomega"

	"todolist/pkg/config"
)

func TestNewRepository(t *testing.T) {
	RegisterTestingT(t)

	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := NewRepository(ctx, config.StorageConfig{Driver: config.DriverMemory}, nil, nil)

		Expect(err).To(BeNil())
		Expect(repo).To(BeNil())
	})

	t.Run("sqlite", func(t *testing.T) {
		repo, err := NewRepository(ctx, config.StorageConfig{
			Driver: config.DriverSQLite,
			Path:   "file:database_test?mode=memory&cache=shared",
		}, nil, nil)

		Expect(err).To(BeNil())
		Expect(repo).ToNot(BeNil())

		todos, err := repo.LoadAll(ctx)
		Expect(err).To(BeNil())
		Expect(todos).To(BeEmpty())
		Expect(repo.Close()).To(Succeed())
	})

	t.Run("sqlite statement log goes to the given writer", func(t *testing.T) {
		var sqlLog bytes.Buffer

		repo, err := NewRepository(ctx, config.StorageConfig{
			Driver: config.DriverSQLite,
			Path:   "file:database_log_test?mode=memory&cache=shared",
			LogSQL: true,
		}, nil, &sqlLog)

		Expect(err).To(BeNil())

		_, err = repo.LoadAll(ctx)
		Expect(err).To(BeNil())
		Expect(repo.Close()).To(Succeed())

		Expect(sqlLog.String()).To(ContainSubstring("todos"))
	})

	t.Run("sqlite statement log stays off without LogSQL", func(t *testing.T) {
		var sqlLog bytes.Buffer

		repo, err := NewRepository(ctx, config.StorageConfig{
			Driver: config.DriverSQLite,
			Path:   "file:database_quiet_test?mode=memory&cache=shared",
		}, nil, &sqlLog)

		Expect(err).To(BeNil())

		_, err = repo.LoadAll(ctx)
		Expect(err).To(BeNil())
		Expect(repo.Close()).To(Succeed())

		Expect(sqlLog.Len()).To(BeZero())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)

		repo, err := NewRepository(ctx, config.StorageConfig{
			Driver:   config.DriverRedis,
			RedisURL: "redis://" + mr.Addr(),
		}, nil, nil)

		Expect(err).To(BeNil())
		Expect(repo.Close()).To(Succeed())
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := NewRepository(ctx, config.StorageConfig{Driver: "mongo"}, nil, nil)

		Expect(err).To(MatchError(ContainSubstring("unknown storage driver")))
	})
}
