package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"todolist/internal/adapter/http/view"
	"todolist/internal/core/domain"
	"todolist/internal/core/port"
	"todolist/pkg/config"
)

// PageHandler serves the server-rendered list. Every mutation answers with a
// 303 back to the list so a reload never repeats the POST.
type PageHandler struct {
	store     port.TodoStore
	formatter domain.Formatter
	theme     string
	Logger    *config.AppLogger
}

func NewPageHandler(store port.TodoStore, formatter domain.Formatter, cfg *config.AppConfig, logger *config.AppLogger) *PageHandler {
	if formatter == nil {
		formatter = domain.NewDefaultFormatter()
	}

	if logger == nil {
		logger = config.NewNopLogger()
	}

	return &PageHandler{
		store:     store,
		formatter: formatter,
		theme:     cfg.Theme,
		Logger:    logger,
	}
}

func (p *PageHandler) Index(c *gin.Context) {
	filter, err := domain.ParseFilter(c.Query("filter"))

	if err != nil {
		p.Logger.WarnWithTrace(c.Request.Context(), "Unknown filter requested", zap.String("filter", c.Query("filter")))
		p.render(c, http.StatusBadRequest, domain.FilterAll, "Unknown filter "+c.Query("filter"), "")
		return
	}

	p.render(c, http.StatusOK, filter, "", "")
}

func (p *PageHandler) CreateItem(c *gin.Context) {
	filter := currentFilter(c)
	text := c.PostForm("text")

	if _, err := p.store.Add(c.Request.Context(), text); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			p.Logger.WarnWithTrace(c.Request.Context(), "Rejected empty todo")
			p.render(c, http.StatusBadRequest, filter, "Todo text must not be empty", text)
			return
		}

		p.fail(c, "Error creating todo", err)
		return
	}

	p.redirect(c, filter)
}

func (p *PageHandler) ToggleItem(c *gin.Context) {
	filter := currentFilter(c)
	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		p.notFound(c, filter)
		return
	}

	if _, err := p.store.Toggle(c.Request.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			p.notFound(c, filter)
			return
		}

		p.fail(c, "Error toggling todo", err)
		return
	}

	p.redirect(c, filter)
}

func (p *PageHandler) DeleteItem(c *gin.Context) {
	filter := currentFilter(c)
	id, err := uuid.Parse(c.Param("id"))

	if err != nil {
		p.notFound(c, filter)
		return
	}

	found, err := p.store.DeleteByID(c.Request.Context(), id)

	if err != nil {
		p.fail(c, "Error deleting todo", err)
		return
	}

	if !found {
		p.notFound(c, filter)
		return
	}

	p.redirect(c, filter)
}

func (p *PageHandler) ClearCompleted(c *gin.Context) {
	filter := currentFilter(c)

	if _, err := p.store.DeleteCompleted(c.Request.Context()); err != nil {
		p.fail(c, "Error clearing completed todos", err)
		return
	}

	p.redirect(c, filter)
}

func (p *PageHandler) render(c *gin.Context, status int, filter domain.Filter, message string, draft string) {
	ctx := c.Request.Context()

	page := view.NewPage(p.theme, filter, p.store.Filter(ctx, filter), p.store.Counts(ctx), p.formatter)
	page.Message = message
	page.Draft = draft

	c.HTML(status, view.IndexTemplate, page)
}

func (p *PageHandler) notFound(c *gin.Context, filter domain.Filter) {
	p.Logger.WarnWithTrace(c.Request.Context(), "Todo not found", zap.String("id", c.Param("id")))

	c.HTML(http.StatusNotFound, view.NotFoundTemplate, view.Page{
		Theme:   p.theme,
		Filter:  filter.String(),
		Message: "The todo " + c.Param("id") + " does not exist.",
	})
}

func (p *PageHandler) fail(c *gin.Context, message string, err error) {
	p.Logger.ErrorWithTrace(c.Request.Context(), message, zap.Error(err))
	c.String(http.StatusInternalServerError, message)
}

func (p *PageHandler) redirect(c *gin.Context, filter domain.Filter) {
	c.Redirect(http.StatusSeeOther, "/?filter="+filter.String())
}

// currentFilter reads the filter the form was posted from; unknown values
// fall back to all.
func currentFilter(c *gin.Context) domain.Filter {
	value := c.PostForm("filter")

	if value == "" {
		value = c.Query("filter")
	}

	filter, err := domain.ParseFilter(value)

	if err != nil {
		return domain.FilterAll
	}

	return filter
}
