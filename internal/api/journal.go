package api

import (
	"net/http"
	"strconv"

	"fishing-solunar/internal/journal"
	"fishing-solunar/internal/storage"

	"github.com/gin-gonic/gin"
)

// catchFilter builds a storage filter from from/to (inclusive dates),
// species and limit query parameters.
func (s *Server) catchFilter(c *gin.Context) (storage.CatchFilter, bool) {
	filter := storage.CatchFilter{
		Species: c.Query("species"),
	}

	if c.Query("from") != "" {
		from, ok := s.dateParam(c, "from")
		if !ok {
			return filter, false
		}
		filter.From = from
	}
	if c.Query("to") != "" {
		to, ok := s.dateParam(c, "to")
		if !ok {
			return filter, false
		}
		filter.To = to.AddDate(0, 0, 1)
	}
	return filter, true
}

func (s *Server) listCatchesHandler(c *gin.Context) {
	filter, ok := s.catchFilter(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	filter.Limit = limit

	entries, err := s.journal.List(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (s *Server) recordCatchHandler(c *gin.Context) {
	var req journal.NewCatch
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := s.journal.Record(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) getCatchHandler(c *gin.Context) {
	entry, err := s.journal.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (s *Server) deleteCatchHandler(c *gin.Context) {
	if err := s.journal.Delete(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) catchStatsHandler(c *gin.Context) {
	filter, ok := s.catchFilter(c)
	if !ok {
		return
	}

	stats, err := s.journal.Stats(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
