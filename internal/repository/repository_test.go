package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"funkosrest/internal/database/dbtest"
	"funkosrest/internal/models"
	"funkosrest/internal/pagination"
)

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func ptr[T any](v T) *T { return &v }

func pageReq(page, size int, col string) pagination.Request {
	return pagination.Request{Page: page, Size: size, SortBy: col, Direction: "asc", Column: col}
}

func seedFunkos(t *testing.T, db *gorm.DB) (*CategoryRepository, *FunkoRepository) {
	t.Helper()
	ctx := context.Background()
	cats := NewCategoryRepository(db, nil)
	funkos := NewFunkoRepository(db, nil)

	disney := &models.Category{Type: "disney", Active: true}
	movie := &models.Category{Type: "MOVIE", Active: false}
	for _, c := range []*models.Category{disney, movie} {
		if err := cats.Create(ctx, c); err != nil {
			t.Fatalf("create category: %v", err)
		}
	}

	rows := []models.Funko{
		{Name: "Mickey", Price: 10, Quantity: 5, Image: models.DefaultFunkoImage, Category: *disney},
		{Name: "Stitch", Price: 25, Quantity: 1, Image: models.DefaultFunkoImage, Category: *disney},
		{Name: "Vader", Price: 40, Quantity: 8, Image: models.DefaultFunkoImage, Category: *movie},
	}
	for i := range rows {
		if err := funkos.Create(ctx, &rows[i]); err != nil {
			t.Fatalf("create funko: %v", err)
		}
	}
	return cats, funkos
}

func TestCategoryRepository(t *testing.T) {
	db := dbtest.Open(t)
	ctx := context.Background()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	repo := NewCategoryRepository(db, fixedClock(created))

	c := &models.Category{Type: "serie", Active: true}
	if err := repo.Create(ctx, c); err != nil {
		t.Fatal(err)
	}
	if c.ID == 0 || c.Type != "SERIE" || !c.CreatedAt.Equal(created) {
		t.Errorf("created = %+v", c)
	}

	if err := repo.Create(ctx, &models.Category{Type: "Serie", Active: true}); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate type err = %v, want ErrDuplicate", err)
	}

	byType, err := repo.FindByType(ctx, "SeRiE")
	if err != nil || byType.ID != c.ID {
		t.Fatalf("FindByType = %+v, %v", byType, err)
	}

	updated := created.Add(time.Hour)
	repo.now = fixedClock(updated)
	c.Active = false
	if err := repo.Save(ctx, c); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Active || !got.UpdatedAt.Equal(updated) || !got.CreatedAt.Equal(created) {
		t.Errorf("after save = %+v", got)
	}

	if err := repo.Save(ctx, &models.Category{ID: 999, Type: "X"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("save missing = %v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	db := dbtest.Open(t)
	seedFunkos(t, db)
	repo := NewCategoryRepository(db, nil)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter CategoryFilter
		want   int64
	}{
		{"no filter", CategoryFilter{}, 2},
		{"by type lower-case", CategoryFilter{Type: ptr("disney")}, 1},
		{"inactive", CategoryFilter{IsActive: ptr(false)}, 1},
		{"type and active mismatch", CategoryFilter{Type: ptr("MOVIE"), IsActive: ptr(true)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := repo.FindAll(ctx, tt.filter.Spec(), pageReq(0, 10, "id"))
			if err != nil {
				t.Fatal(err)
			}
			if p.TotalElements != tt.want || int64(len(p.Content)) != tt.want {
				t.Errorf("total = %d, len = %d, want %d", p.TotalElements, len(p.Content), tt.want)
			}
		})
	}
}

func TestFunkoFilterAndPaging(t *testing.T) {
	db := dbtest.Open(t)
	_, repo := seedFunkos(t, db)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter FunkoFilter
		want   []string
	}{
		{"all", FunkoFilter{}, []string{"Mickey", "Stitch", "Vader"}},
		{"category", FunkoFilter{Category: ptr("Disney")}, []string{"Mickey", "Stitch"}},
		{"max price", FunkoFilter{MaxPrice: ptr(25.0)}, []string{"Mickey", "Stitch"}},
		{"max quantity", FunkoFilter{MaxQuantity: ptr(5)}, []string{"Mickey", "Stitch"}},
		{"conjunction", FunkoFilter{Category: ptr("DISNEY"), MaxPrice: ptr(20.0), MaxQuantity: ptr(10)}, []string{"Mickey"}},
		{"nothing", FunkoFilter{Category: ptr("OTHER")}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := repo.FindAll(ctx, tt.filter.Spec(), pageReq(0, 10, "name"))
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Content) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(p.Content), len(tt.want))
			}
			for i, f := range p.Content {
				if f.Name != tt.want[i] {
					t.Errorf("row %d = %s, want %s", i, f.Name, tt.want[i])
				}
				if f.Category.ID == 0 {
					t.Errorf("category not preloaded for %s", f.Name)
				}
			}
		})
	}

	req := pageReq(1, 2, "price")
	req.Direction = "desc"
	p, err := repo.FindAll(ctx, nil, req)
	if err != nil {
		t.Fatal(err)
	}
	if p.TotalElements != 3 || p.TotalPages() != 2 || len(p.Content) != 1 || p.Content[0].Name != "Mickey" {
		t.Errorf("page 2 desc = %+v", p)
	}
}

func TestFunkoRepositoryCRUD(t *testing.T) {
	db := dbtest.Open(t)
	cats, repo := seedFunkos(t, db)
	ctx := context.Background()

	other := &models.Category{Type: "OTHER", Active: true}
	if err := cats.Create(ctx, other); err != nil {
		t.Fatal(err)
	}

	f := &models.Funko{Name: "Groot", Price: 12.5, Quantity: 3, Image: "img", Category: *other}
	if err := repo.Create(ctx, f); err != nil {
		t.Fatal(err)
	}
	if f.ID == uuid.Nil || f.CategoryID != other.ID {
		t.Fatalf("created = %+v", f)
	}

	f.Price = 15
	if err := repo.Save(ctx, f); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByID(ctx, f.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Price != 15 || got.Category.Type != "OTHER" {
		t.Errorf("after save = %+v", got)
	}

	if err := repo.Delete(ctx, f.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, f.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete = %v", err)
	}
	if err := repo.Delete(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("delete missing = %v", err)
	}
}

func TestUserRepository(t *testing.T) {
	db := dbtest.OpenSeeded(t)
	repo := NewUserRepository(db, nil)
	ctx := context.Background()

	roles, err := repo.FindRoles(ctx, models.RoleUser)
	if err != nil || len(roles) != 1 {
		t.Fatalf("FindRoles = %v, %v", roles, err)
	}

	u := &models.User{Name: "Ana", Surname: "García", Username: "ana", Email: "ana@example.com", PasswordHash: "x", Roles: roles}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	dup := &models.User{Name: "A", Surname: "B", Username: "ana", Email: "other@example.com", PasswordHash: "x"}
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("duplicate username = %v", err)
	}

	found, err := repo.FindByUsernameOrEmail(ctx, "nobody", "ANA@example.com")
	if err != nil || len(found) != 1 || found[0].ID != u.ID {
		t.Errorf("FindByUsernameOrEmail = %v, %v", found, err)
	}

	admin, _ := repo.FindRoles(ctx, models.RoleUser, models.RoleAdmin)
	u.Roles = admin
	u.Surname = "López"
	if err := repo.Save(ctx, u); err != nil {
		t.Fatal(err)
	}
	got, err := repo.FindByUsername(ctx, "ana")
	if err != nil {
		t.Fatal(err)
	}
	if got.Surname != "López" || !got.HasRole(models.RoleAdmin) {
		t.Errorf("after save = %+v", got)
	}

	p, err := repo.FindAll(ctx, UserFilter{Username: ptr("AN")}.Spec(), pageReq(0, 10, "username"))
	if err != nil || p.TotalElements != 1 {
		t.Errorf("FindAll(username~AN) = %d, %v", p.TotalElements, err)
	}
	p, _ = repo.FindAll(ctx, UserFilter{Email: ptr("%")}.Spec(), pageReq(0, 10, "username"))
	if p.TotalElements != 0 {
		t.Errorf("wildcard should be escaped, got %d rows", p.TotalElements)
	}

	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindByID(ctx, u.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete = %v", err)
	}
	var links int64
	db.Table("user_roles").Where("user_id = ?", u.ID).Count(&links)
	if links != 0 {
		t.Errorf("%d role links left after delete", links)
	}
}
