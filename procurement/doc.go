// Package procurement is the typed service layer of the ConstructIQ
// backend: projects, suppliers, RFQs, quotes, the product catalog, price
// points, alerts and the dashboard aggregate, built strictly on the
// docstore API. It owns id generation, timestamp
// stamping, required-field validation, tenant-scoped query construction and
// the pagination envelope — everything an HTTP controller should not have
// to repeat.
//
// Request identity travels as an explicit Context value on every call;
// there is no ambient per-request state. HTTP routing, authentication,
// rate limiting, alert-threshold evaluation and email dispatch are external
// collaborators: the last two are represented here only by the
// AlertEvaluator and Mailer interfaces.
package procurement
