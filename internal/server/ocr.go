package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/ntemspark/telm/internal/extract"
	"github.com/ntemspark/telm/internal/ocr"
)

type ocrSessionResponse struct {
	ID string `json:"id"`
	ocr.Snapshot
	Contract *extract.ContractCandidate `json:"contract,omitempty"`
}

func (s *Server) StartOCRSession(c *gin.Context) {
	image, err := readUploadedFile(c, "file")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	id, sess := s.ocrManager.Create()
	if _, err := sess.Start(c.Request.Context(), image); err != nil {
		s.ocrManager.Delete(id)
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, ocrSessionResponse{
		ID:       id.String(),
		Snapshot: sess.Snapshot(),
	})
}

func (s *Server) GetOCRSession(c *gin.Context) {
	sess, ok := s.lookupOCRSession(c)
	if !ok {
		return
	}

	snap := sess.Snapshot()
	resp := ocrSessionResponse{
		ID:       strings.TrimSpace(c.Param("id")),
		Snapshot: snap,
	}
	if snap.State == ocr.StateComplete {
		candidate := extract.ContractFields(snap.Text)
		resp.Contract = &candidate
	}
	c.JSON(http.StatusOK, resp)
}

// RestartOCRSession replaces the image under recognition. Any in-flight
// attempt becomes stale and its result is discarded.
func (s *Server) RestartOCRSession(c *gin.Context) {
	sess, ok := s.lookupOCRSession(c)
	if !ok {
		return
	}

	image, err := readUploadedFile(c, "file")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if _, err := sess.Start(c.Request.Context(), image); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, ocrSessionResponse{
		ID:       strings.TrimSpace(c.Param("id")),
		Snapshot: sess.Snapshot(),
	})
}

func (s *Server) DeleteOCRSession(c *gin.Context) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid session id"))
		return
	}

	s.ocrManager.Delete(id)
	c.Status(http.StatusNoContent)
}

func (s *Server) lookupOCRSession(c *gin.Context) (*ocr.Session, bool) {
	id, err := snowflake.ParseString(strings.TrimSpace(c.Param("id")))
	if err != nil || id == 0 {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid session id"))
		return nil, false
	}

	sess, ok := s.ocrManager.Get(id)
	if !ok {
		AbortWithError(c, ErrNotFound)
		return nil, false
	}
	return sess, true
}

func readUploadedFile(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, invalidRequestError()
	}
	f, err := header.Open()
	if err != nil {
		return nil, invalidRequestError()
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, invalidRequestError()
	}
	return data, nil
}
