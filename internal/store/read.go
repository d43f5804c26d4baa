package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/relmap/internal/ir"
)

// Every single-row read reports a miss as ok=false with a nil error;
// sql.ErrNoRows never escapes this package.

// SiteExists reports whether a site is registered.
func (s *Store) SiteExists(ctx context.Context, site ir.RegistryHandle) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sites WHERE id = ?`, int64(site)).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query site %s: %w", site, err)
	}
	return n > 0, nil
}

// PostType returns the type of a post.
func (s *Store) PostType(ctx context.Context, site ir.RegistryHandle, id ir.Identifier) (ir.TypeTag, bool, error) {
	var postType string
	err := s.db.QueryRowContext(ctx, `
		SELECT post_type FROM posts WHERE site_id = ? AND id = ?
	`, int64(site), id.Key()).Scan(&postType)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query post type %s@%s: %w", id, site, err)
	}
	return ir.TypeTag(postType), true, nil
}

// PostMeta returns one meta value of a post.
func (s *Store) PostMeta(ctx context.Context, site ir.RegistryHandle, id ir.Identifier, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT meta_value FROM post_meta WHERE site_id = ? AND post_id = ? AND meta_key = ?
	`, int64(site), id.Key(), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query post meta %s@%s %q: %w", id, site, key, err)
	}
	return value, true, nil
}

// FindPostByMeta returns the first post of postType whose meta key holds value.
// When several posts match, the earliest inserted wins.
func (s *Store) FindPostByMeta(ctx context.Context, site ir.RegistryHandle, postType ir.TypeTag, key, value string) (ir.Identifier, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT p.id
		FROM post_meta m
		JOIN posts p ON p.site_id = m.site_id AND p.id = m.post_id
		WHERE m.site_id = ? AND m.meta_key = ? AND m.meta_value = ? AND p.post_type = ?
		ORDER BY p.rowid ASC
		LIMIT 1
	`, int64(site), key, value, string(postType)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Identifier{}, false, nil
	}
	if err != nil {
		return ir.Identifier{}, false, fmt.Errorf("find %s by %q@%s: %w", postType, key, site, err)
	}
	return ir.ParseID(id), true, nil
}

// Term returns a term by ID.
func (s *Store) Term(ctx context.Context, site ir.RegistryHandle, id ir.Identifier) (ir.TermDescriptor, bool, error) {
	var termID, taxonomy, slug string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, taxonomy, slug FROM terms WHERE site_id = ? AND id = ?
	`, int64(site), id.Key()).Scan(&termID, &taxonomy, &slug)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.TermDescriptor{}, false, nil
	}
	if err != nil {
		return ir.TermDescriptor{}, false, fmt.Errorf("query term %s@%s: %w", id, site, err)
	}
	return ir.TermDescriptor{ID: ir.ParseID(termID), Taxonomy: taxonomy, Slug: slug}, true, nil
}

// TermByNaturalKey returns the ID of the term with exactly this taxonomy and slug.
func (s *Store) TermByNaturalKey(ctx context.Context, site ir.RegistryHandle, taxonomy, slug string) (ir.Identifier, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM terms WHERE site_id = ? AND taxonomy = ? AND slug = ?
	`, int64(site), taxonomy, norm.NFC.String(slug)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Identifier{}, false, nil
	}
	if err != nil {
		return ir.Identifier{}, false, fmt.Errorf("query term %s/%s@%s: %w", taxonomy, slug, site, err)
	}
	return ir.ParseID(id), true, nil
}

// Correlate returns the target-site copy of a source entity, if crossposted.
func (s *Store) Correlate(ctx context.Context, source ir.RegistryHandle, sourceID ir.Identifier, target ir.RegistryHandle) (ir.Identifier, bool, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT target_id FROM crossposts
		WHERE source_site = ? AND source_id = ? AND target_site = ?
	`, int64(source), sourceID.Key(), int64(target)).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Identifier{}, false, nil
	}
	if err != nil {
		return ir.Identifier{}, false, fmt.Errorf("query crosspost %s@%s -> %s: %w", sourceID, source, target, err)
	}
	return ir.ParseID(id), true, nil
}
