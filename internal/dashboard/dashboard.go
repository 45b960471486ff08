// Package dashboard aggregates spend and activity figures for a tenant's
// landing view.
package dashboard

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	advisorydomain "github.com/ntemspark/telm/internal/advisory/domain"
	"github.com/ntemspark/telm/internal/companyctx"
	contractdomain "github.com/ntemspark/telm/internal/contract/domain"
	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
	macdomain "github.com/ntemspark/telm/internal/macrequest/domain"
)

// RenewalWindow is how far ahead the dashboard looks for contracts that
// need renewal attention.
const RenewalWindow = 60 * 24 * time.Hour

type Summary struct {
	MonthlySpend            float64                   `json:"monthly_spend"`
	YTDSpend                float64                   `json:"ytd_spend"`
	ContractCount           int                       `json:"contract_count"`
	InventoryCount          int64                     `json:"inventory_count"`
	ActiveInventoryCount    int64                     `json:"active_inventory_count"`
	OpenMACRequests         int64                     `json:"open_mac_requests"`
	PotentialSavingsMonthly float64                   `json:"potential_savings_monthly"`
	PotentialSavingsAnnual  float64                   `json:"potential_savings_annual"`
	UpcomingRenewals        []contractdomain.Contract `json:"upcoming_renewals"`
}

type Service interface {
	Summary(ctx context.Context) (Summary, error)
}

type Params struct {
	fx.In

	DB            *gorm.DB
	Log           *zap.Logger
	ContractRepo  contractdomain.Repository
	ContractSvc   contractdomain.Service
	InventoryRepo inventorydomain.Repository
	MACRepo       macdomain.Repository
	AdvisoryRepo  advisorydomain.Repository
}

type service struct {
	db            *gorm.DB
	log           *zap.Logger
	contractRepo  contractdomain.Repository
	contractSvc   contractdomain.Service
	inventoryRepo inventorydomain.Repository
	macRepo       macdomain.Repository
	advisoryRepo  advisorydomain.Repository
}

func New(p Params) Service {
	return &service{
		db:            p.DB,
		log:           p.Log.Named("dashboard.service"),
		contractRepo:  p.ContractRepo,
		contractSvc:   p.ContractSvc,
		inventoryRepo: p.InventoryRepo,
		macRepo:       p.MACRepo,
		advisoryRepo:  p.AdvisoryRepo,
	}
}

func (s *service) Summary(ctx context.Context) (Summary, error) {
	companyID, ok := companyctx.CompanyIDFromContext(ctx)
	if !ok || companyID == 0 {
		return Summary{}, contractdomain.ErrInvalidCompany
	}

	contracts, err := s.contractRepo.ListAll(ctx, s.db, companyID)
	if err != nil {
		return Summary{}, err
	}

	var monthly float64
	for _, c := range contracts {
		if c == nil {
			continue
		}
		monthly += ParseMoney(c.MonthlyCost)
	}

	inventoryCount, err := s.inventoryRepo.CountByStatus(ctx, s.db, companyID, "")
	if err != nil {
		return Summary{}, err
	}
	activeCount, err := s.inventoryRepo.CountByStatus(ctx, s.db, companyID, inventorydomain.StatusActive)
	if err != nil {
		return Summary{}, err
	}
	openMAC, err := s.macRepo.CountOpen(ctx, s.db, companyID)
	if err != nil {
		return Summary{}, err
	}

	recs, err := s.advisoryRepo.List(ctx, s.db, companyID)
	if err != nil {
		return Summary{}, err
	}
	var savings float64
	for _, rec := range recs {
		if rec == nil || rec.Status != advisorydomain.StatusOpen {
			continue
		}
		savings += ParseMoney(rec.PotentialSavings)
	}

	renewals, err := s.contractSvc.ListExpiring(ctx, RenewalWindow)
	if err != nil {
		return Summary{}, err
	}

	return Summary{
		MonthlySpend:            monthly,
		YTDSpend:                monthly * 12,
		ContractCount:           len(contracts),
		InventoryCount:          inventoryCount,
		ActiveInventoryCount:    activeCount,
		OpenMACRequests:         openMAC,
		PotentialSavingsMonthly: savings,
		PotentialSavingsAnnual:  savings * 12,
		UpcomingRenewals:        renewals,
	}, nil
}

// ParseMoney turns decimal-as-text into a float, tolerating "$" and
// thousands separators. Unparsable text counts as zero.
func ParseMoney(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
