package switcher

import (
	"fmt"

	"github.com/asyncfuncai/deepwiki-cli/internal/catalog"
)

// Advise returns operator guidance for a completed switch, or "" when none
// is needed. A switch to a non-baseline model leaves every cached embedding
// dimensionally stale; the advisory says so and names the cleanup command.
//
// Advise never touches the cache itself: invalidation stays an explicit,
// separate caller action.
func Advise(out Outcome) string {
	if out.State != StateConfigured || out.Model.Compatible {
		return ""
	}
	return fmt.Sprintf(
		"%s produces %dD vectors but existing embeddings were built for %dD: "+
			"run 'deepwiki cache clear --embeddings' and regenerate wikis to avoid dimension mismatch errors",
		out.Model.ID, out.Model.Dimensions, catalog.BaselineDimensions)
}
