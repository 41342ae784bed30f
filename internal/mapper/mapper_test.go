package mapper

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"funkosrest/internal/dto"
	"funkosrest/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestFunkoMapping(t *testing.T) {
	cat := models.Category{ID: 3, Type: "DISNEY", Active: true}
	in := dto.FunkoCreate{Name: " Mickey ", Price: ptr(19.99), Quantity: ptr(4), Image: "img.png", CategoryID: ptr(int64(3))}

	f := ToFunko(in, cat)
	if f.Name != "Mickey" || f.Price != 19.99 || f.Quantity != 4 || f.CategoryID != 3 || f.Category.Type != "DISNEY" {
		t.Errorf("ToFunko = %+v", f)
	}

	other := models.Category{ID: 7, Type: "MOVIE"}
	ApplyFunkoPatch(&f, dto.FunkoPatch{Quantity: ptr(0)}, nil)
	if f.Quantity != 0 || f.Price != 19.99 || f.CategoryID != 3 {
		t.Errorf("quantity-only patch = %+v", f)
	}
	ApplyFunkoPatch(&f, dto.FunkoPatch{Name: ptr("Minnie")}, &other)
	if f.Name != "Minnie" || f.CategoryID != 7 || f.Category.Type != "MOVIE" {
		t.Errorf("patch with category = %+v", f)
	}

	ApplyFunkoUpdate(&f, dto.FunkoUpdate{Name: "Goofy", Price: ptr(1.5), Quantity: ptr(9), Image: "g.png", CategoryID: ptr(int64(3))}, cat)
	if f.Name != "Goofy" || f.Image != "g.png" || f.CategoryID != 3 {
		t.Errorf("update = %+v", f)
	}
}

func TestFunkoNotification(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	f := models.Funko{
		ID: uuid.MustParse("a0b1c2d3-e4f5-4a6b-8c7d-9e0f1a2b3c4d"), Name: "Groot",
		Price: 12.5, Quantity: 3, Image: "i", Category: models.Category{Type: "MOVIE"},
		CreatedAt: ts, UpdatedAt: ts,
	}
	n := ToFunkoNotification(f)
	want := dto.FunkoNotification{
		ID: "a0b1c2d3-e4f5-4a6b-8c7d-9e0f1a2b3c4d", Name: "Groot", Price: "12.5", Quantity: "3",
		Image: "i", Category: "MOVIE", CreatedAt: "2024-05-06T07:08:09.000000", UpdatedAt: "2024-05-06T07:08:09.000000",
	}
	if n != want {
		t.Errorf("got  %+v\nwant %+v", n, want)
	}
}

func TestCategoryMapping(t *testing.T) {
	c := ToCategory(dto.CategoryCreate{Type: " serie", Active: ptr(true)})
	if c.Type != "SERIE" || !c.Active {
		t.Errorf("ToCategory = %+v", c)
	}
	ApplyCategoryPatch(&c, dto.CategoryPatch{Active: ptr(false)})
	if c.Type != "SERIE" || c.Active {
		t.Errorf("patch = %+v", c)
	}
}

func TestUserMapping(t *testing.T) {
	roles := []models.Role{{ID: 1, Name: models.RoleUser}}
	u := ToUser(dto.UserCreate{Name: "Ana", Surname: "G", Username: "ana", Email: "ANA@Example.com"}, "hash", roles)
	if u.Email != "ana@example.com" || u.PasswordHash != "hash" || len(u.Roles) != 1 {
		t.Errorf("ToUser = %+v", u)
	}

	ApplyUserUpdate(&u, dto.UserUpdate{Name: "Ana", Surname: "L", Username: "ana2", Email: "a@b.c"}, "", nil)
	if u.PasswordHash != "hash" || len(u.Roles) != 1 || u.Username != "ana2" {
		t.Errorf("update kept fields wrong: %+v", u)
	}

	resp := ToUserResponse(u)
	if resp.Roles[0] != models.RoleUser || resp.Username != "ana2" {
		t.Errorf("response = %+v", resp)
	}
}
