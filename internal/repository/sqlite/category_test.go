package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/lfournier/datebook/internal/apperror"
	"github.com/lfournier/datebook/internal/model"
)

func newTestCategoryStore(t *testing.T) *CategoryStore {
	t.Helper()
	return NewCategoryStore(newTestDB(t))
}

func createTestCategory(t *testing.T, store *CategoryStore, name string, isDefault bool) *model.Category {
	t.Helper()
	category := &model.Category{
		Name:      name,
		Color:     model.DefaultCategoryColor,
		Icon:      "heart",
		IsDefault: isDefault,
	}
	if err := store.Create(context.Background(), category); err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

func TestCategoryCreate(t *testing.T) {
	store := newTestCategoryStore(t)

	category := createTestCategory(t, store, "Jeux", false)

	if category.ID == "" {
		t.Error("Create() did not set category.ID")
	}

	found, err := store.GetByID(context.Background(), category.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Name != "Jeux" {
		t.Errorf("Name = %q, want %q", found.Name, "Jeux")
	}
	if found.IsDefault {
		t.Error("IsDefault = true, want false")
	}
}

func TestCategoryGetByName(t *testing.T) {
	store := newTestCategoryStore(t)

	created := createTestCategory(t, store, "Jeux", false)

	found, err := store.GetByName(context.Background(), "Jeux")
	if err != nil {
		t.Fatalf("GetByName() error = %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID = %q, want %q", found.ID, created.ID)
	}

	if _, err := store.GetByName(context.Background(), "Inconnu"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByName() for unknown name = %v, want ErrNotFound", err)
	}
}

func TestCategoryList_DefaultsFirstThenByName(t *testing.T) {
	store := newTestCategoryStore(t)

	createTestCategory(t, store, "Zèbres", false)
	createTestCategory(t, store, "Sport", true)
	createTestCategory(t, store, "Aventure", true)

	categories, err := store.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	if len(categories) != 3 {
		t.Fatalf("len(categories) = %d, want 3", len(categories))
	}

	got := []string{categories[0].Name, categories[1].Name, categories[2].Name}
	want := []string{"Aventure", "Sport", "Zèbres"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("List() order = %v, want %v", got, want)
		}
	}
}

func TestCategoryUpdate(t *testing.T) {
	store := newTestCategoryStore(t)
	ctx := context.Background()

	category := createTestCategory(t, store, "Jeux", false)
	category.Color = "#000000"
	category.Icon = "dice"

	if err := store.Update(ctx, category); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := store.GetByID(ctx, category.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.Color != "#000000" || found.Icon != "dice" {
		t.Errorf("updated category = %+v, want color #000000 icon dice", found)
	}
}

func TestCategoryUpdate_UnknownIDIsNotFound(t *testing.T) {
	store := newTestCategoryStore(t)

	err := store.Update(context.Background(), &model.Category{ID: "missing", Name: "x"})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() unknown id = %v, want ErrNotFound", err)
	}
}

func TestCategoryDelete(t *testing.T) {
	store := newTestCategoryStore(t)
	ctx := context.Background()

	category := createTestCategory(t, store, "Jeux", false)

	if err := store.Delete(ctx, category.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if _, err := store.GetByID(ctx, category.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}

	if err := store.Delete(ctx, category.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestCategoryEnsureExists(t *testing.T) {
	store := newTestCategoryStore(t)
	ctx := context.Background()

	seed := &model.Category{Name: "Sport", Color: "#22c55e", Icon: "dumbbell", IsDefault: true}
	if err := store.EnsureExists(ctx, seed); err != nil {
		t.Fatalf("EnsureExists() error = %v", err)
	}

	// Same name again is a no-op, existing row untouched.
	again := &model.Category{Name: "Sport", Color: "#ffffff", Icon: "other", IsDefault: true}
	if err := store.EnsureExists(ctx, again); err != nil {
		t.Fatalf("second EnsureExists() error = %v", err)
	}

	categories, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(categories) != 1 {
		t.Fatalf("len(categories) = %d, want 1", len(categories))
	}
	if categories[0].Color != "#22c55e" {
		t.Errorf("Color = %q, want the original seed value", categories[0].Color)
	}
}
