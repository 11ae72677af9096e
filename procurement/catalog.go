package procurement

import (
	"context"

	"github.com/constructiq/docstore"
)

// CatalogService manages the normalized product catalog that price points
// and alert events reference.
type CatalogService struct {
	store *docstore.Store
}

func NewCatalogService(store *docstore.Store) *CatalogService {
	return &CatalogService{store: store}
}

// List returns one page of the org's products ordered by canonical name,
// optionally narrowed to a category and/or a case-insensitive name search.
func (s *CatalogService) List(ctx context.Context, rc Context, page, pageSize int, category, search string) (Page, error) {
	q := rc.orgQuery()
	if category != "" {
		q["category"] = docstore.Eq(category)
	}
	if search != "" {
		q["canonical_name"] = docstore.Contains(search)
	}
	total, err := s.store.Count(ctx, colProducts, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	items, err := s.store.Find(ctx, colProducts, q, "canonical_name", false, skip, limit)
	if err != nil {
		return Page{}, err
	}
	return paginate(sanitizeAll(items), total, page, pageSize), nil
}

func (s *CatalogService) Get(ctx context.Context, rc Context, productID string) (docstore.Document, error) {
	return getOr404(ctx, s.store, colProducts, productID, rc.OrgID, "Product not found")
}

// Create persists a new catalog product. canonical_name, category and
// base_uom are all required.
func (s *CatalogService) Create(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if err := validateProductFields(data, false); err != nil {
		return nil, err
	}
	doc := data.Clone()
	doc["id"] = docstore.NewID()
	doc["org_id"] = rc.OrgID
	doc["created_at"] = docstore.NowISO()
	setDefault(doc, "attributes", map[string]any{})
	if err := s.store.Upsert(ctx, colProducts, doc); err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}

func (s *CatalogService) Update(ctx context.Context, rc Context, productID string, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, rc, productID); err != nil {
		return nil, err
	}
	if err := validateProductFields(data, true); err != nil {
		return nil, err
	}
	updates := data.Clone()
	delete(updates, "id")
	delete(updates, "org_id")
	if _, err := s.store.UpdateByQuery(ctx, colProducts, docstore.Query{"id": docstore.Eq(productID)}, updates, true); err != nil {
		return nil, err
	}
	return s.Get(ctx, rc, productID)
}

func (s *CatalogService) Delete(ctx context.Context, rc Context, productID string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	deleted, err := s.store.DeleteOne(ctx, colProducts, productID, rc.OrgID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("Product not found")
	}
	return nil
}

// Categories returns the distinct categories of the org's catalog.
func (s *CatalogService) Categories(ctx context.Context, rc Context) ([]string, error) {
	return s.store.Distinct(ctx, colProducts, "category", rc.orgQuery())
}

// validateProductFields checks the required product fields. On updates only
// fields present in data are validated.
func validateProductFields(data docstore.Document, partial bool) error {
	checks := []struct {
		key, message string
	}{
		{"canonical_name", "Product canonical_name is required"},
		{"category", "Product category is required"},
		{"base_uom", "Product base_uom is required"},
	}
	for _, c := range checks {
		if partial {
			if _, ok := data[c.key]; !ok {
				continue
			}
		}
		if _, err := requireNonBlank(data, c.key, c.message); err != nil {
			return err
		}
	}
	return nil
}
