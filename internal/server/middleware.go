package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/ntemspark/telm/internal/auditcontext"
	"github.com/ntemspark/telm/internal/companyctx"
	"github.com/ntemspark/telm/internal/config"
)

// TenantMiddleware resolves the acting company from the X-Company-ID
// header, falling back to the configured default for single-tenant
// deployments. Actor identity headers feed the audit trail.
func TenantMiddleware(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		companyID := int64(0)
		if raw := strings.TrimSpace(c.GetHeader("X-Company-ID")); raw != "" {
			if id, err := snowflake.ParseString(raw); err == nil {
				companyID = int64(id)
			}
		}
		if companyID == 0 {
			companyID = cfg.DefaultCompanyID
		}
		if companyID != 0 {
			ctx = companyctx.WithCompanyID(ctx, companyID)
		}

		actor := auditcontext.Actor{
			ID:    strings.TrimSpace(c.GetHeader("X-User-ID")),
			Email: strings.TrimSpace(c.GetHeader("X-User-Email")),
		}
		if actor.ID != "" || actor.Email != "" {
			ctx = auditcontext.WithActor(ctx, actor)
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
