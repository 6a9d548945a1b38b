package server

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/studyplan/internal/app"
	"github.com/abhisek/studyplan/internal/export"
	"github.com/abhisek/studyplan/internal/planfile"
)

// bodyFormat picks the decoder from the Content-Type header.
func bodyFormat(c *gin.Context) planfile.Format {
	mt, _, err := mime.ParseMediaType(c.GetHeader("Content-Type"))
	if err != nil {
		return planfile.FormatAuto
	}
	switch mt {
	case "application/json":
		return planfile.FormatJSON
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return planfile.FormatYAML
	}
	return planfile.FormatAuto
}

func boolQuery(c *gin.Context, key string) (bool, error) {
	v := c.Query(key)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, newAPIError(http.StatusBadRequest, "INVALID_QUERY", "invalid "+key+" parameter", err)
	}
	return b, nil
}

// planRequest reads the body and the shared query parameters.
func (s *Server) planRequest(c *gin.Context) (app.PlanRequest, error) {
	req := app.PlanRequest{ProfileID: c.Query("profile")}
	var err error
	if req.UseProfile, err = boolQuery(c, "use_profile"); err != nil {
		return req, err
	}
	if req.Save, err = boolQuery(c, "save"); err != nil {
		return req, err
	}
	if req.Narrate, err = boolQuery(c, "narrate"); err != nil {
		return req, err
	}

	in, err := planfile.ReadInput(c.Request.Body, bodyFormat(c))
	if err != nil {
		return req, decodeError(err)
	}
	req.Input = *in
	return req, nil
}

func (s *Server) plan(c *gin.Context, req app.PlanRequest) (*app.PlanResult, bool) {
	out, err := s.app.Plan(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return nil, false
	}
	s.metrics.ObserveSchedule(out.Result, out.Narration)
	return out, true
}

// createSchedule handles POST /v1/schedules.
func (s *Server) createSchedule(c *gin.Context) {
	req, err := s.planRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, ok := s.plan(c, req)
	if !ok {
		return
	}

	meta := map[string]any{}
	if out.RunID != "" {
		meta["run_id"] = out.RunID
	}
	if out.ProfileVersion != 0 {
		meta["profile_version"] = out.ProfileVersion
	}
	if out.Narration != nil {
		meta["narration"] = gin.H{
			"narrated": out.Narration.Narrated,
			"failed":   out.Narration.Failed,
			"skipped":  out.Narration.Skipped,
		}
	}
	status := http.StatusOK
	if out.RunID != "" {
		status = http.StatusCreated
	}
	respond(c, status, out.Result, meta)
}

// exportSchedule handles POST /v1/schedules/:format and answers with the
// rendered document instead of an envelope.
func (s *Server) exportSchedule(c *gin.Context) {
	r, err := export.ForFormat(c.Param("format"))
	if err != nil {
		fail(c, newAPIError(http.StatusNotFound, "UNKNOWN_FORMAT", err.Error(), err))
		return
	}
	req, err := s.planRequest(c)
	if err != nil {
		fail(c, err)
		return
	}
	out, ok := s.plan(c, req)
	if !ok {
		return
	}

	doc, err := r.Render(out.Result)
	if err != nil {
		fail(c, err)
		return
	}
	if out.RunID != "" {
		c.Header("X-Run-ID", out.RunID)
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "studyplan" + r.Extension()}))
	c.Data(http.StatusOK, r.ContentType(), doc)
}

// getRun handles GET /v1/runs/:id.
func (s *Server) getRun(c *gin.Context) {
	run, err := s.app.Run(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, run.Result, map[string]any{
		"run_id":     run.ID,
		"profile_id": run.ProfileID,
		"created_at": run.CreatedAt,
	})
}

type runSummary struct {
	ID           string  `json:"id"`
	CreatedAt    string  `json:"created_at"`
	StartDate    string  `json:"start_date"`
	EndDate      string  `json:"end_date"`
	Coverage     float64 `json:"coverage"`
	PlannedHours float64 `json:"planned_hours"`
}

// listRuns handles GET /v1/runs.
func (s *Server) listRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		fail(c, newAPIError(http.StatusBadRequest, "INVALID_QUERY", "invalid limit parameter", err))
		return
	}
	runs, err := s.app.Runs(c.Request.Context(), c.Query("profile"), limit)
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]runSummary, 0, len(runs))
	for _, r := range runs {
		out = append(out, runSummary{
			ID:           r.ID,
			CreatedAt:    r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
			StartDate:    r.StartDate,
			EndDate:      r.EndDate,
			Coverage:     r.Coverage,
			PlannedHours: r.PlannedHours,
		})
	}
	respond(c, http.StatusOK, out, nil)
}

// getProfile handles GET /v1/profile.
func (s *Server) getProfile(c *gin.Context) {
	p, err := s.app.Profile(c.Request.Context(), c.Query("profile"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p, nil)
}

// recordOutcomes handles POST /v1/profile/outcomes.
func (s *Server) recordOutcomes(c *gin.Context) {
	rep, err := planfile.ReadOutcomes(c.Request.Body, bodyFormat(c))
	if err != nil {
		fail(c, decodeError(err))
		return
	}
	p, err := s.app.RecordOutcomes(c.Request.Context(), c.Query("profile"), rep)
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, p, nil)
}

// llmUsage handles GET /v1/llm/usage.
func (s *Server) llmUsage(c *gin.Context) {
	if s.events == nil {
		fail(c, app.ErrNoStore)
		return
	}
	usage, err := s.events.LLMUsage(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, usage, nil)
}
