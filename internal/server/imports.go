package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/ntemspark/telm/internal/extract"
	"github.com/ntemspark/telm/internal/ocr"
)

type startOCRImportRequest struct {
	Text         string `json:"text"`
	OCRSessionID string `json:"ocr_session_id"`
}

type updateCandidatesRequest struct {
	Candidates []extract.InventoryCandidate `json:"candidates"`
}

func (s *Server) StartTabularImport(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	f, err := header.Open()
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	defer f.Close()

	session, err := s.importerSvc.StartTabular(c.Request.Context(), header.Filename, f)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// StartOCRImport opens a preview from recognized text, either passed
// directly or read from a completed recognition session.
func (s *Server) StartOCRImport(c *gin.Context) {
	var req startOCRImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	text := req.Text
	if text == "" && req.OCRSessionID != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.OCRSessionID))
		if err != nil || id == 0 {
			AbortWithError(c, newValidationError("ocr_session_id", "invalid_id", "invalid session id"))
			return
		}
		sess, ok := s.ocrManager.Get(id)
		if !ok {
			AbortWithError(c, ErrNotFound)
			return
		}
		snap := sess.Snapshot()
		if snap.State != ocr.StateComplete {
			AbortWithError(c, newValidationError("ocr_session_id", "recognition_incomplete", "recognition has not completed"))
			return
		}
		text = snap.Text
	}
	if text == "" {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.importerSvc.StartOCRText(c.Request.Context(), text)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (s *Server) GetImport(c *gin.Context) {
	session, err := s.importerSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) UpdateImportCandidates(c *gin.Context) {
	var req updateCandidatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	session, err := s.importerSvc.UpdateCandidates(c.Request.Context(), c.Param("id"), req.Candidates)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) ConfirmImport(c *gin.Context) {
	session, err := s.importerSvc.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) CancelImport(c *gin.Context) {
	if err := s.importerSvc.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
