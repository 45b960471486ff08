package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/ntemspark/telm/internal/advisory"
	advisorydomain "github.com/ntemspark/telm/internal/advisory/domain"
	"github.com/ntemspark/telm/internal/audit"
	auditdomain "github.com/ntemspark/telm/internal/audit/domain"
	"github.com/ntemspark/telm/internal/config"
	"github.com/ntemspark/telm/internal/contract"
	contractdomain "github.com/ntemspark/telm/internal/contract/domain"
	"github.com/ntemspark/telm/internal/dashboard"
	"github.com/ntemspark/telm/internal/importer"
	importerdomain "github.com/ntemspark/telm/internal/importer/domain"
	"github.com/ntemspark/telm/internal/invitation"
	invitationdomain "github.com/ntemspark/telm/internal/invitation/domain"
	"github.com/ntemspark/telm/internal/inventory"
	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
	"github.com/ntemspark/telm/internal/macrequest"
	macdomain "github.com/ntemspark/telm/internal/macrequest/domain"
	"github.com/ntemspark/telm/internal/observability"
	obslogger "github.com/ntemspark/telm/internal/observability/logger"
	obsmetrics "github.com/ntemspark/telm/internal/observability/metrics"
	obstracing "github.com/ntemspark/telm/internal/observability/tracing"
	"github.com/ntemspark/telm/internal/ocr"
	"github.com/ntemspark/telm/internal/organization"
	orgdomain "github.com/ntemspark/telm/internal/organization/domain"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	audit.Module,
	organization.Module,
	invitation.Module,
	inventory.Module,
	contract.Module,
	macrequest.Module,
	advisory.Module,
	dashboard.Module,
	ocr.Module,
	importer.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())
	r.Use(TenantMiddleware(cfg))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(httpMetrics.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(cfg, obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	genID           *snowflake.Node
	organizationSvc orgdomain.Service
	invitationSvc   invitationdomain.Service
	inventorySvc    inventorydomain.Service
	contractSvc     contractdomain.Service
	macRequestSvc   macdomain.Service
	advisorySvc     advisorydomain.Service
	dashboardSvc    dashboard.Service
	importerSvc     importerdomain.Service
	auditSvc        auditdomain.Service
	ocrManager      *ocr.Manager
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	GenID           *snowflake.Node
	OrganizationSvc orgdomain.Service
	InvitationSvc   invitationdomain.Service
	InventorySvc    inventorydomain.Service
	ContractSvc     contractdomain.Service
	MACRequestSvc   macdomain.Service
	AdvisorySvc     advisorydomain.Service
	DashboardSvc    dashboard.Service
	ImporterSvc     importerdomain.Service
	AuditSvc        auditdomain.Service
	OCRManager      *ocr.Manager
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		genID:           p.GenID,
		organizationSvc: p.OrganizationSvc,
		invitationSvc:   p.InvitationSvc,
		inventorySvc:    p.InventorySvc,
		contractSvc:     p.ContractSvc,
		macRequestSvc:   p.MACRequestSvc,
		advisorySvc:     p.AdvisorySvc,
		dashboardSvc:    p.DashboardSvc,
		importerSvc:     p.ImporterSvc,
		auditSvc:        p.AuditSvc,
		ocrManager:      p.OCRManager,
	}
	svc.registerRoutes()
	return svc
}

func (s *Server) registerRoutes() {
	v1 := s.engine.Group("/v1")

	v1.POST("/companies", s.CreateCompany)
	v1.GET("/company", s.GetCompany)
	v1.GET("/members", s.ListMembers)
	v1.POST("/members", s.AddMember)

	v1.POST("/invites", s.CreateInvite)
	v1.GET("/invites", s.ListInvites)

	v1.POST("/contracts", s.CreateContract)
	v1.GET("/contracts", s.ListContracts)
	v1.GET("/contracts/:id", s.GetContract)
	v1.GET("/renewals", s.ListContractRenewals)

	v1.POST("/inventory", s.CreateInventoryItem)
	v1.GET("/inventory", s.ListInventory)
	v1.GET("/inventory/:id", s.GetInventoryItem)

	v1.POST("/mac-requests", s.CreateMACRequest)
	v1.GET("/mac-requests", s.ListMACRequests)

	v1.POST("/advisory", s.CreateRecommendation)
	v1.GET("/advisory", s.ListRecommendations)

	v1.GET("/dashboard", s.DashboardSummary)

	v1.GET("/audit-logs", s.ListAuditLogs)

	v1.POST("/ocr/sessions", s.StartOCRSession)
	v1.GET("/ocr/sessions/:id", s.GetOCRSession)
	v1.POST("/ocr/sessions/:id/image", s.RestartOCRSession)
	v1.DELETE("/ocr/sessions/:id", s.DeleteOCRSession)

	v1.POST("/imports/tabular", s.StartTabularImport)
	v1.POST("/imports/ocr", s.StartOCRImport)
	v1.GET("/imports/:id", s.GetImport)
	v1.PUT("/imports/:id/candidates", s.UpdateImportCandidates)
	v1.POST("/imports/:id/confirm", s.ConfirmImport)
	v1.DELETE("/imports/:id", s.CancelImport)
}
