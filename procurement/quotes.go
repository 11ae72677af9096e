package procurement

import (
	"context"
	"strings"

	"github.com/constructiq/docstore"
)

// AlertEvaluator decides whether a newly observed price should raise alert
// events. Threshold rules are an external collaborator; a nil evaluator
// disables evaluation entirely.
type AlertEvaluator interface {
	EvaluateForProduct(ctx context.Context, orgID, productID string, unitPrice float64) error
}

// QuoteService validates and persists incoming quotes and fans each priced
// line item out into the price history.
type QuoteService struct {
	store       *docstore.Store
	pricePoints *PricePointService
	alerts      AlertEvaluator
	logger      docstore.Logger
}

func NewQuoteService(store *docstore.Store, pricePoints *PricePointService, alerts AlertEvaluator, logger docstore.Logger) *QuoteService {
	if logger == nil {
		logger = &docstore.NoOpLogger{}
	}
	return &QuoteService{store: store, pricePoints: pricePoints, alerts: alerts, logger: logger}
}

// Create builds and persists a quote. Each item must carry raw_line_text, a
// positive qty and a non-negative unit_price; item and quote totals are
// computed here, never trusted from input. Items with a normalized product
// feed a price point and an alert evaluation.
func (s *QuoteService) Create(ctx context.Context, rc Context, data docstore.Document) (docstore.Document, error) {
	if _, err := requireNonBlank(data, "supplier_id", "Quote supplier_id is required"); err != nil {
		return nil, err
	}
	quote := data.Clone()

	rawItems, err := requireNonEmptyList(quote, "items", "Quote must contain at least one item")
	if err != nil {
		return nil, err
	}

	items := make([]any, 0, len(rawItems))
	totalAmount := 0.0
	for _, entry := range rawItems {
		item := asDoc(entry).Clone()
		if _, err := requireNonBlank(item, "raw_line_text", "Quote item raw_line_text is required"); err != nil {
			return nil, err
		}
		setDefault(item, "id", docstore.NewID())
		qty := asFloat(item["qty"], 0)
		unitPrice := asFloat(item["unit_price"], 0)
		if qty <= 0 {
			return nil, BadRequest("Quote item qty must be greater than 0")
		}
		if unitPrice < 0 {
			return nil, BadRequest("Quote item unit_price must be >= 0")
		}
		item["total_price"] = qty * unitPrice
		totalAmount += qty * unitPrice
		items = append(items, map[string]any(item))
	}

	now := docstore.NowISO()
	quote["id"] = docstore.NewID()
	quote["org_id"] = rc.OrgID
	setDefault(quote, "status", "received")
	setDefault(quote, "currency", "USD")
	setDefault(quote, "attachments", []any{})
	quote["items"] = items
	quote["total_amount"] = totalAmount
	quote["received_at"] = now
	quote["created_at"] = now
	quote["updated_at"] = now

	if err := s.store.Upsert(ctx, colQuotes, quote); err != nil {
		return nil, err
	}

	for _, entry := range items {
		item := asDoc(entry)
		productID := strings.TrimSpace(asString(item["normalized_product_id"], ""))
		if productID == "" || strings.EqualFold(productID, "null") {
			continue
		}
		if s.pricePoints != nil {
			if err := s.pricePoints.CreateFromQuoteItem(ctx, rc, quote, item, productID); err != nil {
				s.logger.Error("price point creation failed", "quote_id", quote.ID(), "product_id", productID, "error", err)
			}
		}
		if s.alerts != nil {
			if err := s.alerts.EvaluateForProduct(ctx, rc.OrgID, productID, asFloat(item["unit_price"], 0)); err != nil {
				s.logger.Error("alert evaluation failed", "product_id", productID, "error", err)
			}
		}
	}

	return sanitize(quote), nil
}

// List returns one page of the org's quotes, newest first, optionally
// filtered by RFQ and supplier, with supplier names attached.
func (s *QuoteService) List(ctx context.Context, rc Context, page, pageSize int, rfqID, supplierID string) (Page, error) {
	q := rc.orgQuery()
	if rfqID != "" {
		q["rfq_id"] = docstore.Eq(rfqID)
	}
	if supplierID != "" {
		q["supplier_id"] = docstore.Eq(supplierID)
	}
	total, err := s.store.Count(ctx, colQuotes, q)
	if err != nil {
		return Page{}, err
	}
	skip, limit := pageWindow(page, pageSize)
	quotes, err := s.store.Find(ctx, colQuotes, q, "received_at", true, skip, limit)
	if err != nil {
		return Page{}, err
	}

	supplierIDs := collectIDs(quotes, "supplier_id")
	names, err := nameIndex(ctx, s.store, rc, colSuppliers, "name", supplierIDs)
	if err != nil {
		return Page{}, err
	}
	decorated := sanitizeAll(quotes)
	for _, quote := range decorated {
		sid := asString(quote["supplier_id"], "")
		if sid != "" {
			quote["supplier_name"] = nameOrUnknown(names, sid)
		}
	}
	return paginate(decorated, total, page, pageSize), nil
}

func (s *QuoteService) Get(ctx context.Context, rc Context, quoteID string) (docstore.Document, error) {
	return getOr404(ctx, s.store, colQuotes, quoteID, rc.OrgID, "Quote not found")
}

// collectIDs gathers the distinct non-blank values of field across docs.
func collectIDs(docs []docstore.Document, field string) []any {
	seen := make(map[string]struct{})
	out := []any{}
	for _, d := range docs {
		v := asString(d[field], "")
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nameOrUnknown(names map[string]string, id string) string {
	if name, ok := names[id]; ok {
		return name
	}
	return "Unknown"
}
