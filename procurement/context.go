package procurement

import (
	"strings"

	"github.com/constructiq/docstore"
)

// Context identifies the organization and user a service call runs on
// behalf of. It is passed explicitly; services never reach into ambient
// state for identity.
type Context struct {
	OrgID  string
	UserID string
	Role   string
}

// IsAdmin reports whether the caller holds the admin role.
func (c Context) IsAdmin() bool {
	return strings.EqualFold(c.Role, "admin")
}

// orgQuery starts a tenant-scoped query. Every list and lookup in this
// package builds on it; org isolation exists only because of this filter.
func (c Context) orgQuery() docstore.Query {
	return docstore.Query{"org_id": docstore.Eq(c.OrgID)}
}

func requireAdmin(c Context) error {
	if !c.IsAdmin() {
		return Forbidden("Admin role required")
	}
	return nil
}
