package procurement

import (
	"context"

	"github.com/constructiq/docstore"
)

// ProjectService manages the projects collection.
type ProjectService struct {
	store *docstore.Store
}

func NewProjectService(store *docstore.Store) *ProjectService {
	return &ProjectService{store: store}
}

// List returns one page of the org's projects, newest first, optionally
// filtered by status.
func (s *ProjectService) List(ctx context.Context, rc Context, page, pageSize int, status string) (Page, error) {
	q := rc.orgQuery()
	if status != "" {
		q["status"] = docstore.Eq(status)
	}
	total, err := s.store.Count(ctx, colProjects, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	items, err := s.store.Find(ctx, colProjects, q, "created_at", true, skip, limit)
	if err != nil {
		return Page{}, err
	}
	return paginate(sanitizeAll(items), total, page, pageSize), nil
}

func (s *ProjectService) Get(ctx context.Context, rc Context, projectID string) (docstore.Document, error) {
	return getOr404(ctx, s.store, colProjects, projectID, rc.OrgID, "Project not found")
}

func (s *ProjectService) Create(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "name", "Project name is required"); err != nil {
		return nil, err
	}
	now := docstore.NowISO()
	doc := data.Clone()
	doc["id"] = docstore.NewID()
	doc["org_id"] = rc.OrgID
	setDefault(doc, "status", "active")
	doc["created_at"] = now
	doc["updated_at"] = now
	if err := s.store.Upsert(ctx, colProjects, doc); err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}

func (s *ProjectService) Update(ctx context.Context, rc Context, projectID string, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, rc, projectID); err != nil {
		return nil, err
	}
	if _, ok := data["name"]; ok {
		if _, err := requireNonBlank(data, "name", "Project name is required"); err != nil {
			return nil, err
		}
	}
	updates := data.Clone()
	delete(updates, "id")
	delete(updates, "org_id")
	updates["updated_at"] = docstore.NowISO()
	if _, err := s.store.UpdateByQuery(ctx, colProjects, docstore.Query{"id": docstore.Eq(projectID)}, updates, true); err != nil {
		return nil, err
	}
	return s.Get(ctx, rc, projectID)
}

func (s *ProjectService) Delete(ctx context.Context, rc Context, projectID string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	deleted, err := s.store.DeleteOne(ctx, colProjects, projectID, rc.OrgID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("Project not found")
	}
	return nil
}

// getOr404 is the shared org-guarded lookup: a missing document or a tenant
// mismatch both surface as a 404 RequestError.
func getOr404(ctx context.Context, store *docstore.Store, collection, id, orgID, message string) (docstore.Document, error) {
	doc, err := store.FindOneInOrg(ctx, collection, id, orgID)
	if docstore.IsNotFound(err) {
		return nil, NotFound(message)
	}
	if err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}
