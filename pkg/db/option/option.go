package option

import (
	"time"

	"gorm.io/gorm"

	"github.com/ntemspark/telm/pkg/db/pagination"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type optionFunc func(*gorm.DB) *gorm.DB

func (f optionFunc) Apply(stmt *gorm.DB) *gorm.DB {
	return f(stmt)
}

// ApplyPagination applies keyset pagination over (created_at, id) in
// descending order. An undecodable token is ignored so stale cursors do
// not break listing.
func ApplyPagination(page pagination.Pagination) Option {
	return optionFunc(func(stmt *gorm.DB) *gorm.DB {
		if page.PageToken != "" {
			if cursor, err := pagination.DecodeCursor(page.PageToken); err == nil {
				if ts, terr := time.Parse(time.RFC3339, cursor.CreatedAt); terr == nil {
					stmt = stmt.Where(
						"created_at < ? OR (created_at = ? AND id < ?)",
						ts, ts, cursor.ID,
					)
				}
			}
		}
		if page.PageSize > 0 {
			stmt = stmt.Limit(page.PageSize + 1)
		}
		return stmt
	})
}
