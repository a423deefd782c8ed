package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"tracontent/pkg/database"
	"tracontent/pkg/models"
	"tracontent/pkg/services"
)

// PageView serves content pages. It is wired as the NoRoute handler so the
// page tree fills every path not claimed by an explicit route. A redirect
// registered at the path wins over a page; drafts are only shown to staff.
func (h *Handlers) PageView(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.Status(http.StatusMethodNotAllowed)
		return
	}

	site := Site(c)
	settings := Settings(c)
	if site == nil || settings == nil {
		h.notFound(c)
		return
	}

	path := strings.Trim(c.Request.URL.Path, "/")
	if path == "" {
		path = models.FrontPageSlug
	}

	if redirect, err := h.DB.GetRedirect(site.ID, path); err == nil {
		c.Redirect(http.StatusFound, redirect.Target)
		return
	}

	page, err := h.DB.GetPageByPath(site.ID, path)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.notFound(c)
		} else {
			h.serverError(c, err)
		}
		return
	}

	// Only staff see unpublished pages
	if !page.IsPublic(time.Now()) && !IsStaff(c) {
		h.notFound(c)
		return
	}

	extra := services.RunController(page.PageControllerCode, services.ControllerContext{
		DB:       h.DB,
		Site:     site,
		Settings: settings,
		Page:     page,
		Now:      time.Now(),
	})

	vars := gin.H{"page": page}
	for k, v := range extra {
		vars[k] = v
	}
	h.render(c, http.StatusOK, page.Template(settings), vars)
}

// render fills in the variables every site template expects and renders.
func (h *Handlers) render(c *gin.Context, status int, template string, vars gin.H) {
	site := Site(c)
	settings := Settings(c)

	if _, ok := vars["settings"]; !ok {
		vars["settings"] = settings
	}
	vars["site"] = site
	vars["user"] = CurrentUser(c)
	vars["is_staff"] = IsStaff(c)

	if site != nil && settings != nil {
		menu, err := services.SiteMenu(h.DB, site.ID, c.Request.URL.Path)
		if err != nil {
			h.serverError(c, err)
			return
		}
		vars["menu"] = menu

		// Analytics only tracks anonymous visitors
		if settings.AnalyticsToken != "" && Username(c) == "" {
			vars["analytics_token"] = settings.AnalyticsToken
		}
	}

	c.HTML(status, template, vars)
}

func (h *Handlers) notFound(c *gin.Context) {
	if Settings(c) == nil {
		c.String(http.StatusNotFound, "404 page not found")
		return
	}
	h.render(c, http.StatusNotFound, "error.html", gin.H{
		"status":  http.StatusNotFound,
		"message": "Page not found",
	})
}

func (h *Handlers) serverError(c *gin.Context, err error) {
	_ = c.Error(err)
	if Settings(c) == nil {
		c.String(http.StatusInternalServerError, "500 internal server error")
		return
	}
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{
		"settings": Settings(c),
		"site":     Site(c),
		"status":   http.StatusInternalServerError,
		"message":  "Something went wrong",
	})
}
