package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/student-records/internal/flash"
	"github.com/stemsi/student-records/internal/logger"
	"github.com/stemsi/student-records/internal/middleware"
	"github.com/stemsi/student-records/internal/response"
)

// Pages renders HTML views together with the caller's pending flash notices.
type Pages struct {
	flash flash.Store
	log   zerolog.Logger
}

// NewPages creates a Pages renderer backed by store.
func NewPages(store flash.Store, log zerolog.Logger) *Pages {
	return &Pages{
		flash: store,
		log:   logger.Component(log, "pages"),
	}
}

// notify queues a notice for the next rendered page of this session.
func (p *Pages) notify(c *gin.Context, n flash.Notice) {
	sid := middleware.SessionID(c)
	if sid == "" {
		return
	}
	if err := p.flash.Push(c.Request.Context(), sid, n); err != nil {
		p.log.Warn().Err(err).Msg("Failed to store flash notice")
	}
}

// render executes the named template. Pending notices are shown first, then extra.
func (p *Pages) render(c *gin.Context, name string, data gin.H, extra ...flash.Notice) {
	notices := []flash.Notice{}
	if sid := middleware.SessionID(c); sid != "" {
		pending, err := p.flash.Pop(c.Request.Context(), sid)
		if err != nil {
			p.log.Warn().Err(err).Msg("Failed to read flash notices")
		}
		notices = append(notices, pending...)
	}
	data["Notices"] = append(notices, extra...)
	c.HTML(http.StatusOK, name, data)
}

// fail logs err and answers with a plain 500 page.
func (p *Pages) fail(c *gin.Context, err error) {
	p.log.Error().Err(err).
		Str("request_id", c.GetString(response.ContextKeyRequestID)).
		Str("path", c.FullPath()).
		Msg("Page render failed")
	c.String(http.StatusInternalServerError, msgInternal)
}
