package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/audit"
	"github.com/lfournier/datebook/internal/model"
)

type mockCategoryRepo struct {
	categories map[string]*model.Category // by ID
	nextID     int
}

func newMockCategoryRepo() *mockCategoryRepo {
	return &mockCategoryRepo{categories: make(map[string]*model.Category)}
}

func (m *mockCategoryRepo) Create(_ context.Context, category *model.Category) error {
	m.nextID++
	category.ID = fmt.Sprintf("cat-%d", m.nextID)
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) GetByID(_ context.Context, id string) (*model.Category, error) {
	category, ok := m.categories[id]
	if !ok {
		return nil, apperror.NotFound(apperror.KeyCategoryNotFound)
	}
	result := *category
	return &result, nil
}

func (m *mockCategoryRepo) GetByName(_ context.Context, name string) (*model.Category, error) {
	for _, c := range m.categories {
		if c.Name == name {
			result := *c
			return &result, nil
		}
	}
	return nil, apperror.NotFound(apperror.KeyCategoryNotFound)
}

func (m *mockCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	result := make([]model.Category, 0, len(m.categories))
	for _, c := range m.categories {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsDefault != result[j].IsDefault {
			return result[i].IsDefault
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockCategoryRepo) Update(_ context.Context, category *model.Category) error {
	if _, ok := m.categories[category.ID]; !ok {
		return apperror.NotFound(apperror.KeyCategoryNotFound)
	}
	stored := *category
	m.categories[category.ID] = &stored
	return nil
}

func (m *mockCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return apperror.NotFound(apperror.KeyCategoryNotFound)
	}
	delete(m.categories, id)
	return nil
}

func (m *mockCategoryRepo) EnsureExists(_ context.Context, category *model.Category) error {
	for _, c := range m.categories {
		if c.Name == category.Name {
			return nil
		}
	}
	return m.Create(context.Background(), category)
}

func newTestCategoryService(t *testing.T) (*CategoryService, *mockCategoryRepo) {
	t.Helper()
	repo := newMockCategoryRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	svc := NewCategoryService(repo, audit.Discard{}, logger)
	return svc, repo
}

func TestSeed_Idempotent(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	first := len(repo.categories)
	assert.Equal(t, 6, first)

	// Seeding again must not duplicate or overwrite.
	require.NoError(t, svc.Seed(ctx))
	assert.Equal(t, first, len(repo.categories))
}

func TestSeed_DoesNotOverwriteCustomizedCategory(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	cat, err := repo.GetByName(ctx, "Sport")
	require.NoError(t, err)
	color := "#000000"
	_, err = svc.Update(ctx, "alice", cat.ID, CategoryUpdate{Color: &color})
	require.NoError(t, err)

	require.NoError(t, svc.Seed(ctx))

	got, err := repo.GetByName(ctx, "Sport")
	require.NoError(t, err)
	assert.Equal(t, "#000000", got.Color)
}

func TestCreateCategory(t *testing.T) {
	svc, _ := newTestCategoryService(t)

	category, err := svc.Create(context.Background(), "alice", "  Jeux  ", "", "dice")
	require.NoError(t, err)

	assert.Equal(t, "Jeux", category.Name)
	assert.Equal(t, model.DefaultCategoryColor, category.Color)
	assert.False(t, category.IsDefault)
}

func TestCreateCategory_DuplicateNameConflicts(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "Jeux", "#112233", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, "bob", " Jeux ", "", "")
	assert.ErrorIs(t, err, apperror.ErrConflict)
}

func TestCreateCategory_EmptyName(t *testing.T) {
	svc, _ := newTestCategoryService(t)

	_, err := svc.Create(context.Background(), "alice", "   ", "", "")
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestUpdateCategory_NotFound(t *testing.T) {
	svc, _ := newTestCategoryService(t)

	name := "Renamed"
	_, err := svc.Update(context.Background(), "alice", "missing", CategoryUpdate{Name: &name})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDeleteCategory_DefaultRejected(t *testing.T) {
	svc, repo := newTestCategoryService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))
	cat, err := repo.GetByName(ctx, "Romantique")
	require.NoError(t, err)

	err = svc.Delete(ctx, "alice", cat.ID)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	// Still there.
	_, err = repo.GetByID(ctx, cat.ID)
	assert.NoError(t, err)
}

func TestDeleteCategory_SecondDeleteIsNotFound(t *testing.T) {
	svc, _ := newTestCategoryService(t)
	ctx := context.Background()

	category, err := svc.Create(ctx, "alice", "Jeux", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, "alice", category.ID))

	err = svc.Delete(ctx, "alice", category.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
