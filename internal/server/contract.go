package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	contractdomain "github.com/ntemspark/telm/internal/contract/domain"
	"github.com/ntemspark/telm/internal/dashboard"
)

type listContractsQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int32  `form:"page_size"`
	Vendor    string `form:"vendor"`
}

func (s *Server) CreateContract(c *gin.Context) {
	var req contractdomain.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	contract, err := s.contractSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (s *Server) GetContract(c *gin.Context) {
	contract, err := s.contractSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (s *Server) ListContracts(c *gin.Context) {
	var query listContractsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.contractSvc.List(c.Request.Context(), contractdomain.ListContractRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Vendor:    query.Vendor,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) ListContractRenewals(c *gin.Context) {
	contracts, err := s.contractSvc.ListExpiring(c.Request.Context(), dashboard.RenewalWindow)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"contracts": contracts})
}
