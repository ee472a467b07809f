package repository_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/notedrop/notedrop/pkg/domain/interfaces"
	"github.com/notedrop/notedrop/pkg/domain/model"
	"github.com/notedrop/notedrop/pkg/domain/types"
	"github.com/notedrop/notedrop/pkg/repository/memory"
)

func runMasterRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	upsert := func(t *testing.T, repo interfaces.Repository, category types.Category, value string, locked bool) {
		t.Helper()
		err := repo.Master().Upsert(context.Background(), &model.MasterValue{
			Category:     category,
			Value:        value,
			Active:       true,
			SystemLocked: locked,
		})
		gt.NoError(t, err).Required()
	}

	t.Run("Upsert and ListActive keep insertion order", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		upsert(t, repo, types.CategoryArea, "General", false)
		upsert(t, repo, types.CategoryArea, "IT", false)
		upsert(t, repo, types.CategoryType, "Task", false)

		values, err := repo.Master().ListActive(ctx, types.CategoryArea)
		gt.NoError(t, err).Required()
		gt.Array(t, values).Length(2)
		gt.Value(t, values[0]).Equal("General")
		gt.Value(t, values[1]).Equal("IT")
	})

	t.Run("Upsert is idempotent per category and value", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		upsert(t, repo, types.CategoryArea, "General", false)
		upsert(t, repo, types.CategoryArea, "General", false)

		values, err := repo.Master().ListActive(ctx, types.CategoryArea)
		gt.NoError(t, err).Required()
		gt.Array(t, values).Length(1)
	})

	t.Run("Deactivate then re-add reactivates", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		upsert(t, repo, types.CategoryArea, "Legacy", false)
		gt.NoError(t, repo.Master().Deactivate(ctx, types.CategoryArea, "Legacy")).Required()

		values, err := repo.Master().ListActive(ctx, types.CategoryArea)
		gt.NoError(t, err).Required()
		gt.Array(t, values).Length(0)

		all, err := repo.Master().ListAll(ctx, types.CategoryArea)
		gt.NoError(t, err).Required()
		gt.Array(t, all).Length(1)
		gt.Bool(t, all[0].Active).False()

		upsert(t, repo, types.CategoryArea, "Legacy", false)
		values, err = repo.Master().ListActive(ctx, types.CategoryArea)
		gt.NoError(t, err).Required()
		gt.Array(t, values).Length(1)
	})

	t.Run("locked flag is raised and never lowered", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		upsert(t, repo, types.CategoryState, "Pending", true)
		upsert(t, repo, types.CategoryState, "Pending", false)

		locked, err := repo.Master().IsLocked(ctx, types.CategoryState, "Pending")
		gt.NoError(t, err).Required()
		gt.Bool(t, locked).True()
	})

	t.Run("Deactivate is a no-op on locked and unknown values", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		upsert(t, repo, types.CategoryState, "Done", true)
		gt.NoError(t, repo.Master().Deactivate(ctx, types.CategoryState, "Done")).Required()

		values, err := repo.Master().ListActive(ctx, types.CategoryState)
		gt.NoError(t, err).Required()
		gt.Array(t, values).Length(1)

		gt.NoError(t, repo.Master().Deactivate(ctx, types.CategoryState, "NoSuchValue")).Required()
	})

	t.Run("IsLocked is false for unknown values", func(t *testing.T) {
		repo := newRepo(t)

		locked, err := repo.Master().IsLocked(context.Background(), types.CategoryArea, "Unknown")
		gt.NoError(t, err).Required()
		gt.Bool(t, locked).False()
	})
}

func TestMasterRepository_Memory(t *testing.T) {
	runMasterRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}
