package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	inventorydomain "github.com/ntemspark/telm/internal/inventory/domain"
)

type listInventoryQuery struct {
	PageToken string `form:"page_token"`
	PageSize  int32  `form:"page_size"`
	Vendor    string `form:"vendor"`
	Type      string `form:"type"`
	Status    string `form:"status"`
}

func (s *Server) CreateInventoryItem(c *gin.Context) {
	var req inventorydomain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	item, err := s.inventorySvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) GetInventoryItem(c *gin.Context) {
	item, err := s.inventorySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *Server) ListInventory(c *gin.Context) {
	var query listInventoryQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.inventorySvc.List(c.Request.Context(), inventorydomain.ListItemRequest{
		PageToken: query.PageToken,
		PageSize:  query.PageSize,
		Vendor:    query.Vendor,
		Type:      query.Type,
		Status:    query.Status,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
