package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	invitationdomain "github.com/ntemspark/telm/internal/invitation/domain"
	orgdomain "github.com/ntemspark/telm/internal/organization/domain"
)

func (s *Server) CreateCompany(c *gin.Context) {
	var req orgdomain.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	company, err := s.organizationSvc.CreateCompany(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (s *Server) GetCompany(c *gin.Context) {
	company, err := s.organizationSvc.GetCompany(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (s *Server) AddMember(c *gin.Context) {
	var req orgdomain.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	member, err := s.organizationSvc.AddMember(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (s *Server) ListMembers(c *gin.Context) {
	members, err := s.organizationSvc.ListMembers(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

func (s *Server) CreateInvite(c *gin.Context) {
	var req invitationdomain.CreateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	invite, err := s.invitationSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

func (s *Server) ListInvites(c *gin.Context) {
	invites, err := s.invitationSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"invites": invites})
}
