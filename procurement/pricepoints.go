package procurement

import (
	"context"
	"time"

	"github.com/constructiq/docstore"
)

// PricePointService records observed prices and serves the price history.
type PricePointService struct {
	store *docstore.Store
}

func NewPricePointService(store *docstore.Store) *PricePointService {
	return &PricePointService{store: store}
}

// CreateFromQuoteItem records one observed price for a normalized product,
// sourced from a quote line item.
func (s *PricePointService) CreateFromQuoteItem(ctx context.Context, rc Context, quote, item docstore.Document, productID string) error {
	pp := docstore.Document{
		"id":                    docstore.NewID(),
		"org_id":                rc.OrgID,
		"normalized_product_id": productID,
		"source_type":           "quote",
		"source_id":             quote["id"],
		"observed_at":           docstore.NowISO(),
		"currency":              asString(quote["currency"], "USD"),
		"unit_price_normalized": asFloat(item["unit_price"], 0),
		"uom_normalized":        asString(item["uom"], ""),
		"supplier_id":           quote["supplier_id"],
		"meta":                  map[string]any{},
	}
	return s.store.Upsert(ctx, colPricePoints, pp)
}

// History returns up to 1000 price points inside the trailing window of
// days, oldest first, optionally narrowed to one product and/or supplier.
// The cutoff rides on Gte over RFC 3339 strings.
func (s *PricePointService) History(ctx context.Context, rc Context, productID, supplierID string, days int) ([]docstore.Document, error) {
	q := rc.orgQuery()
	q["observed_at"] = docstore.Gte(cutoffISO(days))
	if productID != "" {
		q["normalized_product_id"] = docstore.Eq(productID)
	}
	if supplierID != "" {
		q["supplier_id"] = docstore.Eq(supplierID)
	}
	points, err := s.store.Find(ctx, colPricePoints, q, "observed_at", false, 0, 1000)
	if err != nil {
		return nil, err
	}
	return sanitizeAll(points), nil
}

// ProductHistory returns the product document plus its price history with
// supplier names attached; unknown products are a 404.
func (s *PricePointService) ProductHistory(ctx context.Context, rc Context, productID string, days int) (docstore.Document, []docstore.Document, error) {
	product, err := getOr404(ctx, s.store, colProducts, productID, rc.OrgID, "Product not found")
	if err != nil {
		return nil, nil, err
	}
	points, err := s.History(ctx, rc, productID, "", days)
	if err != nil {
		return nil, nil, err
	}

	supplierIDs := collectIDs(points, "supplier_id")
	names, err := nameIndex(ctx, s.store, rc, colSuppliers, "name", supplierIDs)
	if err != nil {
		return nil, nil, err
	}
	for _, pp := range points {
		sid := asString(pp["supplier_id"], "")
		if sid != "" {
			pp["supplier_name"] = nameOrUnknown(names, sid)
		}
	}
	return product, points, nil
}

func cutoffISO(days int) string {
	if days <= 0 {
		days = 90
	}
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339Nano)
}
