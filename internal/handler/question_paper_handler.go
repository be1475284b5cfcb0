package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/campusdesk/erp-backend/internal/document"
	"github.com/campusdesk/erp-backend/internal/model"
	"github.com/campusdesk/erp-backend/internal/response"
	"github.com/campusdesk/erp-backend/internal/service"
	"github.com/campusdesk/erp-backend/internal/validator"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// QuestionPaperHandler handles paper authoring, submission and downloads.
type QuestionPaperHandler struct {
	paperService *service.QuestionPaperService
	log          zerolog.Logger
}

// NewQuestionPaperHandler creates a new QuestionPaperHandler.
func NewQuestionPaperHandler(paperService *service.QuestionPaperService, log zerolog.Logger) *QuestionPaperHandler {
	return &QuestionPaperHandler{
		paperService: paperService,
		log:          log.With().Str("component", "question_paper_handler").Logger(),
	}
}

// ListPapers godoc
// GET /api/v1/papers?status=DRAFT,REJECTED&course_id=3&faculty_id=7
// Faculty see their own papers; reviewers and administrators see all.
func (h *QuestionPaperHandler) ListPapers(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	filter, fields := paperFilter(c)
	if fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	page, perPage := pageParams(c)

	papers, total, err := h.paperService.List(c.Request.Context(), actor, filter, page, perPage)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Paginated(c, gin.H{"papers": papers}, page, perPage, total)
}

func paperFilter(c *gin.Context) (model.PaperFilter, map[string]string) {
	var f model.PaperFilter
	fields := map[string]string{}

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			st := model.PaperStatus(strings.ToUpper(strings.TrimSpace(part)))
			if !st.Valid() {
				fields["status"] = fmt.Sprintf("unknown status %q", part)
				break
			}
			f.Statuses = append(f.Statuses, st)
		}
	}
	if raw := c.Query("course_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			fields["course_id"] = "course_id must be a positive number"
		} else {
			f.CourseID = &id
		}
	}
	if raw := c.Query("faculty_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil || id < 1 {
			fields["faculty_id"] = "faculty_id must be a positive number"
		} else {
			f.FacultyID = &id
		}
	}

	if len(fields) > 0 {
		return f, fields
	}
	return f, nil
}

// CreatePaper godoc
// POST /api/v1/papers
// Starts a new DRAFT paper owned by the caller.
func (h *QuestionPaperHandler) CreatePaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}

	var req model.CreatePaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paper, err := h.paperService.Create(c.Request.Context(), actor, req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"paper": paper})
}

// GetPaper godoc
// GET /api/v1/papers/:id
// Returns the paper with its questions and live mark distribution.
func (h *QuestionPaperHandler) GetPaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.paperService.Get(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"paper":        paper,
		"distribution": paper.Distribution(),
	})
}

// UpdatePaper godoc
// PUT /api/v1/papers/:id
// Edits the header details of a draft paper.
func (h *QuestionPaperHandler) UpdatePaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.UpdatePaperRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	paper, err := h.paperService.UpdateDetails(c.Request.Context(), actor, id, req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// DeletePaper godoc
// DELETE /api/v1/papers/:id
// Deletes a draft paper and its questions.
func (h *QuestionPaperHandler) DeletePaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	if err := h.paperService.Delete(c.Request.Context(), actor, id); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "paper deleted"})
}

// ─── Questions ───────────────────────────────────────────────────────

// AddQuestion godoc
// POST /api/v1/papers/:id/questions
func (h *QuestionPaperHandler) AddQuestion(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.paperService.AddQuestion(c.Request.Context(), actor, paperID, req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"question": q})
}

// UpdateQuestion godoc
// PUT /api/v1/papers/:id/questions/:question_id
func (h *QuestionPaperHandler) UpdateQuestion(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}

	var req model.QuestionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	q, err := h.paperService.UpdateQuestion(c.Request.Context(), actor, paperID, questionID, req)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"question": q})
}

// DeleteQuestion godoc
// DELETE /api/v1/papers/:id/questions/:question_id
func (h *QuestionPaperHandler) DeleteQuestion(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	paperID, ok := uuidParam(c, "id")
	if !ok {
		return
	}
	questionID, ok := uuidParam(c, "question_id")
	if !ok {
		return
	}

	if err := h.paperService.RemoveQuestion(c.Request.Context(), actor, paperID, questionID); err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "question removed"})
}

// ─── Distribution ────────────────────────────────────────────────────

// GetDistribution godoc
// GET /api/v1/papers/:id/distribution
// Returns the CO and Bloom's band distribution with the current violations.
func (h *QuestionPaperHandler) GetDistribution(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	dist, err := h.paperService.Distribution(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"distribution": dist})
}

// ExportDistribution godoc
// GET /api/v1/papers/:id/distribution.xlsx
// Downloads the distribution as a spreadsheet.
func (h *QuestionPaperHandler) ExportDistribution(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var buf bytes.Buffer
	paper, err := h.paperService.ExportDistribution(c.Request.Context(), actor, id, &buf)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	name := strings.TrimSuffix(document.FileName(paper), ".docx") + "_distribution.xlsx"
	c.Header("Content-Disposition", attachment(name))
	c.Data(http.StatusOK, document.WorkbookContentType, buf.Bytes())
}

// ─── Workflow ────────────────────────────────────────────────────────

// SubmitPaper godoc
// POST /api/v1/papers/:id/submit
// Validates the paper, generates its document and moves it to SUBMITTED.
func (h *QuestionPaperHandler) SubmitPaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.paperService.Submit(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// ReopenPaper godoc
// POST /api/v1/papers/:id/reopen
// Returns a rejected paper to DRAFT for revision.
func (h *QuestionPaperHandler) ReopenPaper(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	paper, err := h.paperService.Reopen(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}

// ─── Artifacts ───────────────────────────────────────────────────────

// DownloadDocument godoc
// GET /api/v1/papers/:id/document
// Streams the generated .docx of a submitted paper.
func (h *QuestionPaperHandler) DownloadDocument(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	paper, rc, err := h.paperService.Document(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, document.ContentType, rc, map[string]string{
		"Content-Disposition": attachment(document.FileName(paper)),
	})
}

// GetHistory godoc
// GET /api/v1/papers/:id/history
// Returns the status transitions of a paper, oldest first.
func (h *QuestionPaperHandler) GetHistory(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	history, err := h.paperService.History(c.Request.Context(), actor, id)
	if err != nil {
		failWithError(c, h.log, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"history": history})
}

func attachment(name string) string {
	return fmt.Sprintf("attachment; filename=%q", name)
}
