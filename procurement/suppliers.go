package procurement

import (
	"context"

	"github.com/constructiq/docstore"
)

// SupplierService manages the suppliers collection.
type SupplierService struct {
	store *docstore.Store
}

func NewSupplierService(store *docstore.Store) *SupplierService {
	return &SupplierService{store: store}
}

// List returns one page of the org's suppliers ordered by name. A non-empty
// search narrows to names containing it, case-insensitively.
func (s *SupplierService) List(ctx context.Context, rc Context, page, pageSize int, search string) (Page, error) {
	q := rc.orgQuery()
	if search != "" {
		q["name"] = docstore.Contains(search)
	}
	total, err := s.store.Count(ctx, colSuppliers, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	items, err := s.store.Find(ctx, colSuppliers, q, "name", false, skip, limit)
	if err != nil {
		return Page{}, err
	}
	return paginate(sanitizeAll(items), total, page, pageSize), nil
}

func (s *SupplierService) Get(ctx context.Context, rc Context, supplierID string) (docstore.Document, error) {
	return getOr404(ctx, s.store, colSuppliers, supplierID, rc.OrgID, "Supplier not found")
}

func (s *SupplierService) Create(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "name", "Supplier name is required"); err != nil {
		return nil, err
	}
	now := docstore.NowISO()
	doc := data.Clone()
	doc["id"] = docstore.NewID()
	doc["org_id"] = rc.OrgID
	doc["created_at"] = now
	doc["updated_at"] = now
	setDefault(doc, "tags", []any{})
	if err := s.store.Upsert(ctx, colSuppliers, doc); err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}

func (s *SupplierService) Update(ctx context.Context, rc Context, supplierID string, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, rc, supplierID); err != nil {
		return nil, err
	}
	if _, ok := data["name"]; ok {
		if _, err := requireNonBlank(data, "name", "Supplier name is required"); err != nil {
			return nil, err
		}
	}
	updates := data.Clone()
	delete(updates, "id")
	delete(updates, "org_id")
	updates["updated_at"] = docstore.NowISO()
	if _, err := s.store.UpdateByQuery(ctx, colSuppliers, docstore.Query{"id": docstore.Eq(supplierID)}, updates, true); err != nil {
		return nil, err
	}
	return s.Get(ctx, rc, supplierID)
}

func (s *SupplierService) Delete(ctx context.Context, rc Context, supplierID string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	deleted, err := s.store.DeleteOne(ctx, colSuppliers, supplierID, rc.OrgID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("Supplier not found")
	}
	return nil
}

// nameIndex fetches the named documents by id and maps id to name, used to
// decorate cross-referencing documents without joins.
func nameIndex(ctx context.Context, store *docstore.Store, rc Context, collection, nameField string, ids []any) (map[string]string, error) {
	out := make(map[string]string)
	if len(ids) == 0 {
		return out, nil
	}
	docs, err := store.Find(ctx, collection, docstore.Query{
		"org_id": docstore.Eq(rc.OrgID),
		"id":     docstore.In(ids...),
	}, "", false, 0, 100)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		out[d.ID()] = asString(d[nameField], "Unknown")
	}
	return out, nil
}
