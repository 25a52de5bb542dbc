package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

func openResolverTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:resolver_%d?mode=memory&cache=shared", time.Now().UnixNano())
	conn, errOpen := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Page{}, &models.Section{}, &models.SiteContent{}, &models.Profile{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func seedAboutPage(t *testing.T, conn *gorm.DB, published bool) *models.Page {
	t.Helper()
	page := models.Page{Slug: "about-us", Title: "About Us", IsPublished: published}
	if errCreate := conn.Create(&page).Error; errCreate != nil {
		t.Fatalf("create page: %v", errCreate)
	}
	sections := []models.Section{
		{PageID: page.ID, SectionType: SectionBenefits, Content: []byte(`{"items":[]}`), OrderIndex: 2, IsActive: true},
		{PageID: page.ID, SectionType: SectionHero, Content: []byte(`{"title":"About"}`), OrderIndex: 1, IsActive: true},
		{PageID: page.ID, SectionType: SectionCTA, Content: []byte(`{"label":"Join"}`), OrderIndex: 3, IsActive: false},
	}
	if errCreate := conn.Create(&sections).Error; errCreate != nil {
		t.Fatalf("create sections: %v", errCreate)
	}
	return &page
}

func TestResolvePageOrdersActiveSections(t *testing.T) {
	conn := openResolverTestDB(t)
	seedAboutPage(t, conn, true)
	resolver := NewResolver(conn, nil, nil)

	page, errResolve := resolver.ResolvePage(context.Background(), "about-us")
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if len(page.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(page.Sections))
	}
	if page.Sections[0].Type != SectionHero || page.Sections[1].Type != SectionBenefits {
		t.Fatalf("expected [hero benefits], got [%s %s]", page.Sections[0].Type, page.Sections[1].Type)
	}
}

func TestResolvePageUnpublishedNotFound(t *testing.T) {
	conn := openResolverTestDB(t)
	seedAboutPage(t, conn, false)
	resolver := NewResolver(conn, nil, nil)

	_, errResolve := resolver.ResolvePage(context.Background(), "about-us")
	if !errors.Is(errResolve, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errResolve)
	}
}

func TestResolvePageMissingNotFound(t *testing.T) {
	conn := openResolverTestDB(t)
	resolver := NewResolver(conn, nil, nil)

	_, errResolve := resolver.ResolvePage(context.Background(), "no-such-page")
	if !errors.Is(errResolve, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errResolve)
	}
}

func TestResolvePageSkipsUnknownSectionType(t *testing.T) {
	conn := openResolverTestDB(t)
	page := models.Page{Slug: "home", Title: "Home", IsPublished: true}
	if errCreate := conn.Create(&page).Error; errCreate != nil {
		t.Fatalf("create page: %v", errCreate)
	}
	sections := []models.Section{
		{PageID: page.ID, SectionType: SectionHero, Content: []byte(`{}`), OrderIndex: 1, IsActive: true},
		{PageID: page.ID, SectionType: "carousel_v2", Content: []byte(`{}`), OrderIndex: 2, IsActive: true},
		{PageID: page.ID, SectionType: SectionSponsors, Content: []byte(`{}`), OrderIndex: 3, IsActive: true},
	}
	if errCreate := conn.Create(&sections).Error; errCreate != nil {
		t.Fatalf("create sections: %v", errCreate)
	}
	resolver := NewResolver(conn, nil, nil)

	resolved, errResolve := resolver.ResolvePage(context.Background(), "home")
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if len(resolved.Sections) != 2 {
		t.Fatalf("expected unknown type skipped, got %d sections", len(resolved.Sections))
	}
	if resolved.Sections[0].Type != SectionHero || resolved.Sections[1].Type != SectionSponsors {
		t.Fatalf("expected order preserved around the skip, got [%s %s]", resolved.Sections[0].Type, resolved.Sections[1].Type)
	}
}

func TestResolvePageServesFromCache(t *testing.T) {
	conn := openResolverTestDB(t)
	seedAboutPage(t, conn, true)
	cache := NewCache(func() time.Duration { return time.Minute })
	resolver := NewResolver(conn, cache, nil)

	first, errFirst := resolver.ResolvePage(context.Background(), "about-us")
	if errFirst != nil {
		t.Fatalf("resolve: %v", errFirst)
	}

	// Unpublish behind the cache's back; the cached render must still serve.
	if errUpdate := conn.Model(&models.Page{}).Where("slug = ?", "about-us").
		Update("is_published", false).Error; errUpdate != nil {
		t.Fatalf("unpublish: %v", errUpdate)
	}

	second, errSecond := resolver.ResolvePage(context.Background(), "about-us")
	if errSecond != nil {
		t.Fatalf("cached resolve: %v", errSecond)
	}
	if second.Title != first.Title || len(second.Sections) != len(first.Sections) {
		t.Fatalf("expected cached render, got %+v", second)
	}

	cache.InvalidateAll()
	_, errThird := resolver.ResolvePage(context.Background(), "about-us")
	if !errors.Is(errThird, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after invalidation, got %v", errThird)
	}
}

func TestResolveNamedContentAbsentIsNil(t *testing.T) {
	conn := openResolverTestDB(t)
	resolver := NewResolver(conn, nil, nil)

	value, errResolve := resolver.ResolveNamedContent(context.Background(), "home_hero")
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if value != nil {
		t.Fatalf("expected nil for absent key, got %s", value)
	}
}

func TestResolveNamedContentVerbatim(t *testing.T) {
	conn := openResolverTestDB(t)
	stored := `{"title":"Advancing Eye Care Excellence Together"}`
	entry := models.SiteContent{Key: "home_hero", Content: []byte(stored), UpdatedAt: time.Now().UTC()}
	if errCreate := conn.Create(&entry).Error; errCreate != nil {
		t.Fatalf("create content: %v", errCreate)
	}
	resolver := NewResolver(conn, nil, nil)

	value, errResolve := resolver.ResolveNamedContent(context.Background(), "home_hero")
	if errResolve != nil {
		t.Fatalf("resolve: %v", errResolve)
	}
	if string(value) != stored {
		t.Fatalf("expected stored value verbatim, got %s", value)
	}
}

func TestWriteNamedContentRequiresAdmin(t *testing.T) {
	conn := openResolverTestDB(t)
	member := models.Profile{ID: "7d5b0c2e-8c24-4f4e-9a7e-0a8f2f3b4c5d", Email: "member@example.com", Role: models.RoleMember, MembershipStatus: models.StatusActive}
	if errCreate := conn.Create(&member).Error; errCreate != nil {
		t.Fatalf("create profile: %v", errCreate)
	}
	cache := NewCache(nil)
	resolver := NewResolver(conn, cache, NewBroker(nil, cache))

	errWrite := resolver.WriteNamedContent(context.Background(), "home_hero", json.RawMessage(`{"title":"x"}`), member.ID)
	if !errors.Is(errWrite, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", errWrite)
	}

	var count int64
	if errCount := conn.Model(&models.SiteContent{}).Count(&count).Error; errCount != nil {
		t.Fatalf("count: %v", errCount)
	}
	if count != 0 {
		t.Fatalf("expected no rows after forbidden write, got %d", count)
	}
}

func TestWriteNamedContentUpsertsAndInvalidates(t *testing.T) {
	conn := openResolverTestDB(t)
	adminProfile := models.Profile{ID: "0b9a4f1c-2d3e-4a5b-8c7d-6e5f4a3b2c1d", Email: "admin@example.com", Role: models.RoleAdmin, MembershipStatus: models.StatusActive}
	if errCreate := conn.Create(&adminProfile).Error; errCreate != nil {
		t.Fatalf("create profile: %v", errCreate)
	}
	cache := NewCache(func() time.Duration { return time.Minute })
	resolver := NewResolver(conn, cache, NewBroker(nil, cache))

	cache.Set("page:home", &ResolvedPage{Slug: "home"})

	if errWrite := resolver.WriteNamedContent(context.Background(), "home_hero", json.RawMessage(`{"title":"first"}`), adminProfile.ID); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}
	if cache.Len() != 0 {
		t.Fatalf("expected cache flushed after write, %d entries left", cache.Len())
	}

	if errWrite := resolver.WriteNamedContent(context.Background(), "home_hero", json.RawMessage(`{"title":"second"}`), adminProfile.ID); errWrite != nil {
		t.Fatalf("second write: %v", errWrite)
	}

	var row models.SiteContent
	if errFind := conn.Where("key = ?", "home_hero").First(&row).Error; errFind != nil {
		t.Fatalf("find: %v", errFind)
	}
	if string(row.Content) != `{"title":"second"}` {
		t.Fatalf("expected upsert to replace content, got %s", row.Content)
	}
	if row.UpdatedBy != adminProfile.ID {
		t.Fatalf("expected writer stamped, got %q", row.UpdatedBy)
	}
}

func TestWriteNamedContentValidation(t *testing.T) {
	conn := openResolverTestDB(t)
	adminProfile := models.Profile{ID: "3c2b1a0f-9e8d-4c7b-8a6f-5e4d3c2b1a0f", Email: "admin@example.com", Role: models.RoleAdmin, MembershipStatus: models.StatusActive}
	if errCreate := conn.Create(&adminProfile).Error; errCreate != nil {
		t.Fatalf("create profile: %v", errCreate)
	}
	resolver := NewResolver(conn, nil, NewBroker(nil, nil))

	var validationErr *ValidationError
	errKey := resolver.WriteNamedContent(context.Background(), "  ", json.RawMessage(`{}`), adminProfile.ID)
	if !errors.As(errKey, &validationErr) || validationErr.Field != "key" {
		t.Fatalf("expected key validation error, got %v", errKey)
	}
	errValue := resolver.WriteNamedContent(context.Background(), "home_hero", json.RawMessage(`{broken`), adminProfile.ID)
	if !errors.As(errValue, &validationErr) || validationErr.Field != "content" {
		t.Fatalf("expected content validation error, got %v", errValue)
	}
}

func TestWriteNamedContentChecksRoleBeforeValidation(t *testing.T) {
	conn := openResolverTestDB(t)
	member := models.Profile{ID: "5a4b3c2d-1e0f-4a9b-8c7d-6e5f4a3b2c1d", Email: "member@example.com", Role: models.RoleMember, MembershipStatus: models.StatusActive}
	if errCreate := conn.Create(&member).Error; errCreate != nil {
		t.Fatalf("create profile: %v", errCreate)
	}
	resolver := NewResolver(conn, nil, NewBroker(nil, nil))

	// A forbidden caller with a bad payload gets the role error, not the
	// validation error.
	errWrite := resolver.WriteNamedContent(context.Background(), "  ", json.RawMessage(`{broken`), member.ID)
	if !errors.Is(errWrite, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", errWrite)
	}
}

func TestResolvePageCachedRenderIsCallerOwned(t *testing.T) {
	conn := openResolverTestDB(t)
	seedAboutPage(t, conn, true)
	cache := NewCache(func() time.Duration { return time.Minute })
	resolver := NewResolver(conn, cache, nil)

	first, errFirst := resolver.ResolvePage(context.Background(), "about-us")
	if errFirst != nil {
		t.Fatalf("resolve: %v", errFirst)
	}
	first.Title = "mutated"
	first.Sections[0].Type = "mutated"
	first.Sections = first.Sections[:1]

	second, errSecond := resolver.ResolvePage(context.Background(), "about-us")
	if errSecond != nil {
		t.Fatalf("cached resolve: %v", errSecond)
	}
	if second.Title != "About Us" || len(second.Sections) != 2 || second.Sections[0].Type != SectionHero {
		t.Fatalf("cached render leaked a caller mutation: %+v", second)
	}
}
