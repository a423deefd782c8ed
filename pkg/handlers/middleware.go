package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"tracontent/pkg/database"
	"tracontent/pkg/models"
)

// Handlers bundles the dependencies of all HTTP handlers.
type Handlers struct {
	DB *database.DB
}

const (
	ctxSiteKey     = "site"
	ctxSettingsKey = "siteSettings"
)

// CurrentSite resolves the site from the request Host header and stashes it
// in the gin context. The Host is matched as-is first; a host:port that
// misses falls back to the bare hostname, so a site registered as
// "example.com" also answers on "example.com:8000" in development.
func (h *Handlers) CurrentSite(c *gin.Context) {
	host := c.Request.Host

	site, err := h.DB.GetSiteByDomain(host)
	if err != nil {
		if bare, _, found := strings.Cut(host, ":"); found {
			site, err = h.DB.GetSiteByDomain(bare)
		}
		if err != nil {
			// Handlers that need a site 404 on their own.
			c.Next()
			return
		}
	}

	c.Set(ctxSiteKey, site)
	if settings, err := h.DB.GetSiteSettings(site.ID); err == nil {
		c.Set(ctxSettingsKey, settings)
	}
	c.Next()
}

// Site returns the site resolved by CurrentSite, or nil.
func Site(c *gin.Context) *models.Site {
	if v, ok := c.Get(ctxSiteKey); ok {
		return v.(*models.Site)
	}
	return nil
}

// Settings returns the settings of the current site, or nil.
func Settings(c *gin.Context) *models.SiteSettings {
	if v, ok := c.Get(ctxSettingsKey); ok {
		return v.(*models.SiteSettings)
	}
	return nil
}

// AuthRequired guards routes behind a logged-in session. API requests get
// a JSON 401, everything else is redirected to the login page.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	username := session.Get("username")
	if username == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

// StaffRequired additionally requires the staff flag granted at login.
func StaffRequired(c *gin.Context) {
	if !IsStaff(c) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Staff only"})
		return
	}
	c.Next()
}

// IsStaff reports whether the session belongs to a staff user.
func IsStaff(c *gin.Context) bool {
	session := sessions.Default(c)
	staff, ok := session.Get("is_staff").(bool)
	return ok && staff
}

// CurrentUser returns the logged-in display name, or "" for anonymous.
func CurrentUser(c *gin.Context) string {
	session := sessions.Default(c)
	if name, ok := session.Get("display_name").(string); ok && name != "" {
		return name
	}
	if username, ok := session.Get("username").(string); ok {
		return username
	}
	return ""
}

// Username returns the logged-in username, or "".
func Username(c *gin.Context) string {
	session := sessions.Default(c)
	if username, ok := session.Get("username").(string); ok {
		return username
	}
	return ""
}
