package store

import (
	"context"
	"fmt"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/relmap/internal/ir"
)

// All writes are upserts so a fixture can be loaded into the same database
// more than once.

// AddSite inserts or renames a site.
func (s *Store) AddSite(ctx context.Context, site ir.RegistryHandle, name string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sites (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, int64(site), name)
	if err != nil {
		return fmt.Errorf("add site %s: %w", site, err)
	}
	return nil
}

// AddPost inserts a post or changes its type.
// The site must exist (foreign key constraint).
func (s *Store) AddPost(ctx context.Context, site ir.RegistryHandle, id ir.Identifier, postType ir.TypeTag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (site_id, id, post_type) VALUES (?, ?, ?)
		ON CONFLICT(site_id, id) DO UPDATE SET post_type = excluded.post_type
	`, int64(site), id.Key(), string(postType))
	if err != nil {
		return fmt.Errorf("add post %s@%s: %w", id, site, err)
	}
	return nil
}

// SetPostMeta sets one meta value on a post.
// The post must exist (foreign key constraint).
func (s *Store) SetPostMeta(ctx context.Context, site ir.RegistryHandle, id ir.Identifier, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO post_meta (site_id, post_id, meta_key, meta_value) VALUES (?, ?, ?, ?)
		ON CONFLICT(site_id, post_id, meta_key) DO UPDATE SET meta_value = excluded.meta_value
	`, int64(site), id.Key(), key, value)
	if err != nil {
		return fmt.Errorf("set post meta %s@%s %q: %w", id, site, key, err)
	}
	return nil
}

// AddTerm inserts a term or changes its natural key.
// The slug is stored NFC normalized.
func (s *Store) AddTerm(ctx context.Context, site ir.RegistryHandle, term ir.TermDescriptor) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO terms (site_id, id, taxonomy, slug) VALUES (?, ?, ?, ?)
		ON CONFLICT(site_id, id) DO UPDATE SET taxonomy = excluded.taxonomy, slug = excluded.slug
	`, int64(site), term.ID.Key(), term.Taxonomy, norm.NFC.String(term.Slug))
	if err != nil {
		return fmt.Errorf("add term %s@%s: %w", term.ID, site, err)
	}
	return nil
}

// LinkCrosspost records that sourceID on source was crossposted to target
// as targetID. Relinking replaces the previous correlate.
func (s *Store) LinkCrosspost(ctx context.Context, source ir.RegistryHandle, sourceID ir.Identifier, target ir.RegistryHandle, targetID ir.Identifier) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO crossposts (source_site, source_id, target_site, target_id) VALUES (?, ?, ?, ?)
		ON CONFLICT(source_site, source_id, target_site) DO UPDATE SET target_id = excluded.target_id
	`, int64(source), sourceID.Key(), int64(target), targetID.Key())
	if err != nil {
		return fmt.Errorf("link crosspost %s@%s -> %s: %w", sourceID, source, target, err)
	}
	return nil
}
