// Package supportlink builds deep links into the upstream support inbox.
package supportlink

import (
	"strings"

	"github.com/worldhost-group/support-dashboard/internal/ticketid"
)

// DefaultInboxURL is the upstream support inbox used when no override is
// configured.
const DefaultInboxURL = "https://admin.worldhost.group/admin/support/inbox"

// Builder constructs outbound links from ticket ids. Composite daily ids are
// stripped first so the day-bucket suffix never leaks into a URL.
type Builder struct {
	BaseURL string
}

// NewBuilder returns a Builder for the given inbox base URL, falling back to
// DefaultInboxURL when empty.
func NewBuilder(baseURL string) Builder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultInboxURL
	}
	return Builder{BaseURL: baseURL}
}

// LinkFor returns the inbox deep link for the given ticket id.
func (b Builder) LinkFor(ticketID string) string {
	base := strings.TrimRight(b.BaseURL, "/")
	return base + "/" + ticketid.StripDailySuffix(ticketID)
}
