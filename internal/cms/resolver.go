package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sooop-pk/sooop-portal/internal/models"
)

// ResolvedSection is one renderable content block of a resolved page.
type ResolvedSection struct {
	ID         uint64          `json:"id"`          // Section ID.
	Type       string          `json:"type"`        // Section type tag.
	Content    json.RawMessage `json:"content"`     // Opaque payload for the renderer.
	OrderIndex int             `json:"order_index"` // Render order.
}

// ResolvedPage is the render-ready view of a published page.
type ResolvedPage struct {
	Slug           string            `json:"slug"`
	Title          string            `json:"title"`
	SEOTitle       string            `json:"seo_title,omitempty"`
	SEODescription string            `json:"seo_description,omitempty"`
	Sections       []ResolvedSection `json:"sections"`
}

// clone returns a caller-owned copy. Cached renders are shared across
// requests; only copies leave the resolver. Section content bytes stay
// shared and must be treated as read-only.
func (p *ResolvedPage) clone() *ResolvedPage {
	out := *p
	out.Sections = make([]ResolvedSection, len(p.Sections))
	copy(out.Sections, p.Sections)
	return &out
}

// Resolver turns slugs and content keys into render-ready structures. Reads
// go through the TTL cache; writes invalidate broadly through the broker.
type Resolver struct {
	db     *gorm.DB
	cache  *Cache
	broker *Broker
}

// NewResolver constructs a resolver. cache and broker may be nil, which
// disables caching and cross-instance invalidation respectively.
func NewResolver(db *gorm.DB, cache *Cache, broker *Broker) *Resolver {
	return &Resolver{db: db, cache: cache, broker: broker}
}

// ResolvePage returns the published page for slug with its active sections in
// ascending order_index order (ties resolved by insertion). Unpublished or
// missing pages yield ErrNotFound; store failures yield ErrBackendUnavailable
// and are logged here, never shown to the caller's user.
func (r *Resolver) ResolvePage(ctx context.Context, slug string) (*ResolvedPage, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrNotFound
	}

	cacheKey := "page:" + slug
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if page, okPage := cached.(*ResolvedPage); okPage {
				return page.clone(), nil
			}
		}
	}

	var page models.Page
	errFind := r.db.WithContext(ctx).
		Where("slug = ? AND is_published = ?", slug, true).
		First(&page).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		log.WithError(errFind).WithField("slug", slug).Error("page lookup failed")
		return nil, fmt.Errorf("%w: page lookup: %v", ErrBackendUnavailable, errFind)
	}

	var sections []models.Section
	errSections := r.db.WithContext(ctx).
		Where("page_id = ? AND is_active = ?", page.ID, true).
		Order("order_index ASC, id ASC").
		Find(&sections).Error
	if errSections != nil {
		log.WithError(errSections).WithField("slug", slug).Error("section lookup failed")
		return nil, fmt.Errorf("%w: section lookup: %v", ErrBackendUnavailable, errSections)
	}

	resolved := &ResolvedPage{
		Slug:           page.Slug,
		Title:          page.Title,
		SEOTitle:       page.SEOTitle,
		SEODescription: page.SEODescription,
		Sections:       make([]ResolvedSection, 0, len(sections)),
	}
	for _, section := range sections {
		resolved.Sections = append(resolved.Sections, ResolvedSection{
			ID:         section.ID,
			Type:       section.SectionType,
			Content:    json.RawMessage(section.Content),
			OrderIndex: section.OrderIndex,
		})
	}
	resolved.Sections = filterRenderable(slug, resolved.Sections)

	if r.cache != nil {
		r.cache.Set(cacheKey, resolved.clone())
	}
	return resolved, nil
}

// ResolveNamedContent returns the stored value for a content key verbatim, or
// nil when absent. No defaults are synthesized here; callers own their
// fallbacks.
func (r *Resolver) ResolveNamedContent(ctx context.Context, key string) (json.RawMessage, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}

	cacheKey := "content:" + key
	if r.cache != nil {
		if cached, ok := r.cache.Get(cacheKey); ok {
			if value, okValue := cached.(json.RawMessage); okValue {
				return append(json.RawMessage(nil), value...), nil
			}
		}
	}

	var entry models.SiteContent
	errFind := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&entry).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.WithError(errFind).WithField("key", key).Error("content lookup failed")
		return nil, fmt.Errorf("%w: content lookup: %v", ErrBackendUnavailable, errFind)
	}

	value := json.RawMessage(entry.Content)
	if r.cache != nil {
		r.cache.Set(cacheKey, append(json.RawMessage(nil), value...))
	}
	return value, nil
}

// WriteNamedContent upserts a content entry keyed by key, stamping the writer
// and timestamp, then invalidates all cached renders. The role check happens
// before validation, so an unauthorized caller learns nothing about the
// payload rules.
func (r *Resolver) WriteNamedContent(ctx context.Context, key string, value json.RawMessage, actorID string) error {
	if errAuthz := r.requireAdmin(ctx, actorID); errAuthz != nil {
		return errAuthz
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return &ValidationError{Field: "key", Message: "key is required"}
	}
	if len(value) == 0 || !json.Valid(value) {
		return &ValidationError{Field: "content", Message: "content must be valid JSON"}
	}

	entry := models.SiteContent{
		Key:       key,
		Content:   []byte(value),
		UpdatedAt: time.Now().UTC(),
		UpdatedBy: actorID,
	}
	errUpsert := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at", "updated_by"}),
		}).
		Create(&entry).Error
	if errUpsert != nil {
		log.WithError(errUpsert).WithField("key", key).Error("content upsert failed")
		return fmt.Errorf("%w: content upsert: %v", ErrBackendUnavailable, errUpsert)
	}

	r.broker.InvalidateAll(ctx)
	return nil
}

// requireAdmin resolves the actor profile and verifies an admin role. An
// unknown or non-admin actor yields ErrForbidden without detail.
func (r *Resolver) requireAdmin(ctx context.Context, actorID string) error {
	actorID = strings.TrimSpace(actorID)
	if actorID == "" {
		return ErrForbidden
	}
	if _, errParse := uuid.Parse(actorID); errParse != nil {
		return ErrForbidden
	}

	var actor models.Profile
	errFind := r.db.WithContext(ctx).
		Select("id", "role").
		Where("id = ?", actorID).
		First(&actor).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return ErrForbidden
		}
		log.WithError(errFind).Error("actor lookup failed")
		return fmt.Errorf("%w: actor lookup: %v", ErrBackendUnavailable, errFind)
	}
	if !actor.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
