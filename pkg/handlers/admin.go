package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tracontent/pkg/database"
	"tracontent/pkg/models"
	"tracontent/pkg/services"
)

// siteFromRequest picks the site an admin call operates on: the ?site=
// query parameter when given, otherwise the site of the current host.
func (h *Handlers) siteFromRequest(c *gin.Context) *models.Site {
	if domain := c.Query("site"); domain != "" {
		site, err := h.DB.GetSiteByDomain(domain)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + domain})
			return nil
		}
		return site
	}
	if site := Site(c); site != nil {
		return site
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "No site matches this host"})
	return nil
}

func (h *Handlers) apiError(c *gin.Context, err error) {
	if errors.Is(err, database.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handlers) ListSites(c *gin.Context) {
	sites, err := h.DB.ListSites()
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, sites)
}

// --- Pages ---

func (h *Handlers) ListPages(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}
	pages, err := h.DB.ListPages(site.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, pages)
}

func (h *Handlers) GetPage(c *gin.Context) {
	var query struct {
		ID int64 `form:"id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}
	page, err := h.DB.GetPageByID(query.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

type pagePayload struct {
	ID                   int64      `json:"id"`
	Site                 string     `json:"site" binding:"required"`
	ParentID             *int64     `json:"parent_id"`
	Slug                 string     `json:"slug" binding:"omitempty,slugfield"`
	Title                string     `json:"title" binding:"required"`
	OverrideMenuText     string     `json:"override_menu_text"`
	OverridePageTemplate string     `json:"override_page_template"`
	PageControllerCode   string     `json:"page_controller_code"`
	Order                int        `json:"order"`
	Body                 string     `json:"body"`
	PublicFrom           *time.Time `json:"public_from"`
	VisibleFrom          *time.Time `json:"visible_from"`
}

// SavePage creates or updates a page. The path is always re-derived, never
// taken from the payload.
func (h *Handlers) SavePage(c *gin.Context) {
	var payload pagePayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error()})
		return
	}

	site, err := h.DB.GetSiteByDomain(payload.Site)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + payload.Site})
		return
	}

	page := &models.Page{
		ID:                   payload.ID,
		SiteID:               site.ID,
		ParentID:             payload.ParentID,
		Slug:                 payload.Slug,
		Title:                payload.Title,
		OverrideMenuText:     payload.OverrideMenuText,
		OverridePageTemplate: payload.OverridePageTemplate,
		PageControllerCode:   payload.PageControllerCode,
		Order:                payload.Order,
		Body:                 payload.Body,
		PublicFrom:           payload.PublicFrom,
		VisibleFrom:          payload.VisibleFrom,
	}
	if page.ID != 0 {
		existing, err := h.DB.GetPageByID(page.ID)
		if err != nil {
			h.apiError(c, err)
			return
		}
		page.CreatedAt = existing.CreatedAt
	}

	if err := h.DB.SavePage(page); err != nil {
		h.apiError(c, err)
		return
	}

	services.InvalidateMenu(site.ID)
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) DeletePage(c *gin.Context) {
	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	page, err := h.DB.GetPageByID(req.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	if err := h.DB.DeletePage(req.ID); err != nil {
		h.apiError(c, err)
		return
	}

	services.InvalidateMenu(page.SiteID)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// CopyPage copies a page to another site, the multisite way to share
// content instead of moving pages between sites.
func (h *Handlers) CopyPage(c *gin.Context) {
	var req struct {
		ID         int64  `json:"id" binding:"required"`
		TargetSite string `json:"target_site" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	target, err := h.DB.GetSiteByDomain(req.TargetSite)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + req.TargetSite})
		return
	}

	copied, err := h.DB.CopyPageToSite(req.ID, target.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}

	services.InvalidateMenu(target.ID)
	c.JSON(http.StatusOK, copied)
}

// ExportPage serves a page as a front-matter file, the same format the
// example content fixtures use.
func (h *Handlers) ExportPage(c *gin.Context) {
	var query struct {
		ID     int64  `form:"id" binding:"required"`
		Format string `form:"format"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}
	if query.Format == "" {
		query.Format = "yaml"
	}

	page, err := h.DB.GetPageByID(query.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}

	fm := map[string]interface{}{
		"title": page.Title,
		"slug":  page.Slug,
		"order": page.Order,
	}
	if page.OverrideMenuText != "" {
		fm["menu_text"] = page.OverrideMenuText
	}
	if page.PageControllerCode != "" {
		fm["controller"] = page.PageControllerCode
	}

	content, err := services.ConstructFileContent(fm, page.Body, query.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", content)
}

// --- Blog posts ---

func (h *Handlers) ListBlogPosts(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}
	posts, err := h.DB.ListBlogPosts(site.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *Handlers) GetBlogPost(c *gin.Context) {
	var query struct {
		ID int64 `form:"id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id"})
		return
	}
	post, err := h.DB.GetBlogPostByID(query.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

type blogPostPayload struct {
	ID              int64      `json:"id"`
	Site            string     `json:"site" binding:"required"`
	Date            string     `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Slug            string     `json:"slug" binding:"omitempty,slugfield"`
	Title           string     `json:"title" binding:"required"`
	State           string     `json:"state" binding:"omitempty,oneof=draft review ready"`
	InternalNotes   string     `json:"internal_notes"`
	Body            string     `json:"body"`
	OverrideExcerpt string     `json:"override_excerpt"`
	Categories      []string   `json:"categories"`
	PublicFrom      *time.Time `json:"public_from"`
	VisibleFrom     *time.Time `json:"visible_from"`
}

func (h *Handlers) SaveBlogPost(c *gin.Context) {
	var payload blogPostPayload
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error()})
		return
	}

	site, err := h.DB.GetSiteByDomain(payload.Site)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + payload.Site})
		return
	}

	post := &models.BlogPost{
		ID:              payload.ID,
		SiteID:          site.ID,
		Slug:            payload.Slug,
		Title:           payload.Title,
		State:           payload.State,
		InternalNotes:   payload.InternalNotes,
		Body:            payload.Body,
		OverrideExcerpt: payload.OverrideExcerpt,
		PublicFrom:      payload.PublicFrom,
		VisibleFrom:     payload.VisibleFrom,
	}
	if payload.Date != "" {
		post.Date, _ = time.Parse("2006-01-02", payload.Date)
	}
	// The author defaults to whoever is saving
	post.Author = Username(c)

	for _, title := range payload.Categories {
		post.Categories = append(post.Categories, models.BlogCategory{Title: title})
	}

	if post.ID != 0 {
		existing, err := h.DB.GetBlogPostByID(post.ID)
		if err != nil {
			h.apiError(c, err)
			return
		}
		post.CreatedAt = existing.CreatedAt
		if existing.Author != "" {
			post.Author = existing.Author
		}
		// The date is part of the post URL; an update that omits it keeps
		// the stored date instead of re-dating the post to today.
		if post.Date.IsZero() {
			post.Date = existing.Date
		}
	}

	if err := h.DB.SaveBlogPost(post); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *Handlers) DeleteBlogPost(c *gin.Context) {
	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := h.DB.DeleteBlogPost(req.ID); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Comments ---

// ListComments lists the comments of a post, removed ones included, for
// the moderation view.
func (h *Handlers) ListComments(c *gin.Context) {
	var query struct {
		PostID int64 `form:"post_id" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing post_id"})
		return
	}
	comments, err := h.DB.ListAllComments(query.PostID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handlers) RemoveComment(c *gin.Context) {
	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := h.DB.RemoveComment(req.ID, Username(c)); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// --- Redirects ---

func (h *Handlers) ListRedirects(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}
	redirects, err := h.DB.ListRedirects(site.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirects)
}

func (h *Handlers) SaveRedirect(c *gin.Context) {
	var payload struct {
		Site   string `json:"site" binding:"required"`
		Path   string `json:"path" binding:"required,pathfield"`
		Target string `json:"target" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error()})
		return
	}

	site, err := h.DB.GetSiteByDomain(payload.Site)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + payload.Site})
		return
	}

	redirect := &models.Redirect{SiteID: site.ID, Path: payload.Path, Target: payload.Target}
	if err := h.DB.SaveRedirect(redirect); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, redirect)
}

func (h *Handlers) DeleteRedirect(c *gin.Context) {
	var req struct {
		ID int64 `json:"id" binding:"required"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := h.DB.DeleteRedirect(req.ID); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// --- Site settings ---

func (h *Handlers) GetSiteSettings(c *gin.Context) {
	site := h.siteFromRequest(c)
	if site == nil {
		return
	}
	settings, err := h.DB.GetSiteSettings(site.ID)
	if err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handlers) SaveSiteSettings(c *gin.Context) {
	var payload struct {
		Site                 string `json:"site" binding:"required"`
		Description          string `json:"description"`
		Keywords             string `json:"keywords"`
		BaseTemplate         string `json:"base_template" binding:"required"`
		PageTemplate         string `json:"page_template" binding:"required"`
		BlogIndexTemplate    string `json:"blog_index_template" binding:"required"`
		BlogPostTemplate     string `json:"blog_post_template" binding:"required"`
		AnalyticsToken       string `json:"analytics_token"`
		ContextProcessorCode string `json:"context_processor_code"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON: " + err.Error()})
		return
	}

	site, err := h.DB.GetSiteByDomain(payload.Site)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown site: " + payload.Site})
		return
	}

	settings := &models.SiteSettings{
		SiteID:               site.ID,
		Description:          payload.Description,
		Keywords:             payload.Keywords,
		BaseTemplate:         payload.BaseTemplate,
		PageTemplate:         payload.PageTemplate,
		BlogIndexTemplate:    payload.BlogIndexTemplate,
		BlogPostTemplate:     payload.BlogPostTemplate,
		AnalyticsToken:       payload.AnalyticsToken,
		ContextProcessorCode: payload.ContextProcessorCode,
	}
	if err := h.DB.UpsertSiteSettings(settings); err != nil {
		h.apiError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
