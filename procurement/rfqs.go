package procurement

import (
	"context"
	"fmt"

	"github.com/constructiq/docstore"
)

// Mailer dispatches outbound mail. Email delivery is an external
// collaborator; the RFQ service only decides who should receive what.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// RFQService manages the rfqs collection and the send workflow.
type RFQService struct {
	store  *docstore.Store
	mailer Mailer // nil means prepare-only, nothing is dispatched
	logger docstore.Logger
}

func NewRFQService(store *docstore.Store, mailer Mailer, logger docstore.Logger) *RFQService {
	if logger == nil {
		logger = &docstore.NoOpLogger{}
	}
	return &RFQService{store: store, mailer: mailer, logger: logger}
}

// List returns one page of the org's RFQs, newest first, optionally
// filtered by status and project.
func (s *RFQService) List(ctx context.Context, rc Context, page, pageSize int, status, projectID string) (Page, error) {
	q := rc.orgQuery()
	if status != "" {
		q["status"] = docstore.Eq(status)
	}
	if projectID != "" {
		q["project_id"] = docstore.Eq(projectID)
	}
	total, err := s.store.Count(ctx, colRFQs, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	items, err := s.store.Find(ctx, colRFQs, q, "created_at", true, skip, limit)
	if err != nil {
		return Page{}, err
	}
	return paginate(sanitizeAll(items), total, page, pageSize), nil
}

func (s *RFQService) Get(ctx context.Context, rc Context, rfqID string) (docstore.Document, error) {
	return getOr404(ctx, s.store, colRFQs, rfqID, rc.OrgID, "RFQ not found")
}

// Create persists a new draft RFQ. Every item needs raw_text; item ids and
// empty specs are filled in when absent.
func (s *RFQService) Create(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "title", "RFQ title is required"); err != nil {
		return nil, err
	}
	if _, err := requireNonBlank(data, "project_id", "RFQ project_id is required"); err != nil {
		return nil, err
	}

	now := docstore.NowISO()
	doc := data.Clone()
	doc["id"] = docstore.NewID()
	doc["org_id"] = rc.OrgID
	doc["created_by"] = rc.UserID
	setDefault(doc, "status", "draft")
	doc["created_at"] = now
	doc["updated_at"] = now
	setDefault(doc, "supplier_ids", []any{})

	items, err := normalizeRFQItems(doc)
	if err != nil {
		return nil, err
	}
	doc["items"] = items

	if err := s.store.Upsert(ctx, colRFQs, doc); err != nil {
		return nil, err
	}
	return sanitize(doc), nil
}

// Update overwrites the editable fields of an existing RFQ.
func (s *RFQService) Update(ctx context.Context, rc Context, rfqID string, data docstore.Document) (docstore.Document, error) {
	if err := requireAdmin(rc); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, rc, rfqID); err != nil {
		return nil, err
	}

	updates := docstore.Document{}
	for _, key := range []string{"title", "notes", "supplier_ids", "due_date"} {
		if v, ok := data[key]; ok {
			updates[key] = v
		}
	}
	if _, ok := data["items"]; ok {
		items, err := normalizeRFQItems(data)
		if err != nil {
			return nil, err
		}
		updates["items"] = items
	}
	updates["updated_at"] = docstore.NowISO()

	if _, err := s.store.UpdateByQuery(ctx, colRFQs, docstore.Query{"id": docstore.Eq(rfqID)}, updates, true); err != nil {
		return nil, err
	}
	return s.Get(ctx, rc, rfqID)
}

// Send transitions the RFQ to sent and prepares one mail per selected
// supplier with a contact email. Returns how many mails were prepared.
func (s *RFQService) Send(ctx context.Context, rc Context, rfqID string) (int, error) {
	if err := requireAdmin(rc); err != nil {
		return 0, err
	}
	rfq, err := s.Get(ctx, rc, rfqID)
	if err != nil {
		return 0, err
	}
	if asString(rfq["status"], "") == "sent" {
		return 0, BadRequest("RFQ already sent")
	}
	supplierIDs := asList(rfq["supplier_ids"])
	if len(supplierIDs) == 0 {
		return 0, BadRequest("No suppliers selected")
	}

	suppliers, err := s.store.Find(ctx, colSuppliers, docstore.Query{
		"org_id": docstore.Eq(rc.OrgID),
		"id":     docstore.In(supplierIDs...),
	}, "", false, 0, 100)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, supplier := range suppliers {
		email := asString(supplier["contact_email"], "")
		if email == "" {
			continue
		}
		if s.mailer != nil {
			subject := fmt.Sprintf("RFQ: %s", asString(rfq["title"], ""))
			if err := s.mailer.Send(ctx, email, subject, asString(rfq["notes"], "")); err != nil {
				s.logger.Error("rfq mail dispatch failed", "rfq_id", rfqID, "to", email, "error", err)
				continue
			}
		}
		s.logger.Info("rfq mail prepared", "rfq_id", rfqID, "to", email)
		sent++
	}

	_, err = s.store.UpdateByQuery(ctx, colRFQs, docstore.Query{"id": docstore.Eq(rfqID)},
		docstore.Document{"status": "sent", "updated_at": docstore.NowISO()}, true)
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func (s *RFQService) Delete(ctx context.Context, rc Context, rfqID string) error {
	if err := requireAdmin(rc); err != nil {
		return err
	}
	deleted, err := s.store.DeleteOne(ctx, colRFQs, rfqID, rc.OrgID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return NotFound("RFQ not found")
	}
	return nil
}

func normalizeRFQItems(data docstore.Document) ([]any, error) {
	raw, err := requireNonEmptyList(data, "items", "RFQ must contain at least one item")
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(raw))
	for _, entry := range raw {
		item := asDoc(entry).Clone()
		if _, err := requireNonBlank(item, "raw_text", "RFQ item raw_text is required"); err != nil {
			return nil, err
		}
		setDefault(item, "id", docstore.NewID())
		setDefault(item, "specs", map[string]any{})
		items = append(items, map[string]any(item))
	}
	return items, nil
}
