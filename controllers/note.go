// controllers/note.go
package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"salesnotes-backend/config"
	"salesnotes-backend/services"
	"salesnotes-backend/utils"
)

type NoteController struct {
	Service *services.NoteService
}

func NewNoteController(service *services.NoteService) *NoteController {
	return &NoteController{Service: service}
}

// CreateNote handles POST /api/sales-notes
func (ctl *NoteController) CreateNote(c *gin.Context) {
	var input services.CreateNoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := ctl.Service.Create(input)
	if err != nil {
		respondServiceError(c, "CreateNote", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sales note created successfully",
		"note":    result,
	})
}

// GetNote handles GET /api/sales-notes/:id
func (ctl *NoteController) GetNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	details, err := ctl.Service.Get(noteID)
	if err != nil {
		respondServiceError(c, "GetNote", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Sales note retrieved successfully",
		"note":     details.Note,
		"items":    details.Items,
		"tracking": details.Tracking,
	})
}

// ListNotes handles GET /api/sales-notes
func (ctl *NoteController) ListNotes(c *gin.Context) {
	notes, err := ctl.Service.List()
	if err != nil {
		respondServiceError(c, "ListNotes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// DownloadNote handles GET /api/sales-notes/:id/pdf
func (ctl *NoteController) DownloadNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	result, err := ctl.Service.Download(noteID)
	if err != nil {
		respondServiceError(c, "DownloadNote", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, "application/pdf", result.Bytes)
}

// ResendNote handles POST /api/sales-notes/:id/send
func (ctl *NoteController) ResendNote(c *gin.Context) {
	noteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid note ID format")
		return
	}

	result, err := ctl.Service.Resend(noteID)
	if err != nil {
		respondServiceError(c, "ResendNote", err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Notification dispatched",
		"note":    result,
	})
}

// respondServiceError maps service failures onto HTTP statuses.
// Validation failures keep their classification and detail; anything
// past the first write comes back as a generic retryable 500 so
// internals never leak.
func respondServiceError(c *gin.Context, op string, err error) {
	var reqErr *services.RequestError
	if errors.As(err, &reqErr) {
		status := http.StatusBadRequest
		switch reqErr.Class {
		case services.ClassReferenceNotFound:
			status = http.StatusNotFound
		case services.ClassReferenceConflict:
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{
			"error":  reqErr.Message,
			"detail": reqErr.Detail,
			"class":  reqErr.Class,
		})
		return
	}

	if errors.Is(err, services.ErrNoteNotFound) {
		utils.RespondWithErrorDetail(c, http.StatusNotFound,
			"Sales note not found", "no note exists with the given ID")
		return
	}

	if errors.Is(err, services.ErrArtifactMissing) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":  "Archived document missing",
			"detail": "the note exists but its document was never archived",
			"class":  "ARTIFACT_MISSING",
		})
		return
	}

	config.LogError(config.GetLogger(), "controllers", op, "unhandled service error", err)
	utils.RespondWithErrorDetail(c, http.StatusInternalServerError,
		"Internal server error", "please try again later")
}
