package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"tracontent/pkg/config"
	"tracontent/pkg/database"
	"tracontent/pkg/models"
	"tracontent/pkg/services"
)

// BlogIndex lists the visible posts of the current site, newest first.
func (h *Handlers) BlogIndex(c *gin.Context) {
	site := Site(c)
	settings := Settings(c)
	if site == nil || settings == nil {
		h.notFound(c)
		return
	}

	posts, err := h.DB.ListVisibleBlogPosts(site.ID, time.Now(), 0)
	if err != nil {
		h.serverError(c, err)
		return
	}

	excerpts := make([]gin.H, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		excerpts = append(excerpts, gin.H{
			"post":    post,
			"excerpt": post.Excerpt(config.BlogAutoExcerptMaxChars),
		})
	}

	h.render(c, http.StatusOK, settings.BlogIndexTemplate, gin.H{
		"posts": excerpts,
	})
}

// blogPostDate validates the date segments of a blog post URL. Out-of-range
// values (like a 31st of February) are rejected rather than normalized.
func blogPostDate(c *gin.Context) (time.Time, bool) {
	year, err1 := strconv.Atoi(c.Param("year"))
	month, err2 := strconv.Atoi(c.Param("month"))
	day, err3 := strconv.Atoi(c.Param("day"))
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || date.Month() != time.Month(month) || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

func (h *Handlers) lookupBlogPost(c *gin.Context) *models.BlogPost {
	site := Site(c)
	if site == nil || Settings(c) == nil {
		h.notFound(c)
		return nil
	}

	date, ok := blogPostDate(c)
	if !ok {
		h.notFound(c)
		return nil
	}

	post, err := h.DB.GetBlogPost(site.ID, date, c.Param("slug"))
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			h.notFound(c)
		} else {
			h.serverError(c, err)
		}
		return nil
	}

	if !post.IsPublic(time.Now()) && !IsStaff(c) {
		h.notFound(c)
		return nil
	}
	return post
}

// BlogPostView renders one post with its active comments.
func (h *Handlers) BlogPostView(c *gin.Context) {
	post := h.lookupBlogPost(c)
	if post == nil {
		return
	}
	h.renderBlogPost(c, post, "")
}

func (h *Handlers) renderBlogPost(c *gin.Context, post *models.BlogPost, commentError string) {
	comments, err := h.DB.ListActiveComments(post.ID)
	if err != nil {
		h.serverError(c, err)
		return
	}

	status := http.StatusOK
	if commentError != "" {
		status = http.StatusBadRequest
	}
	h.render(c, status, Settings(c).BlogPostTemplate, gin.H{
		"page":          post,
		"comments":      comments,
		"comment_error": commentError,
	})
}

type commentForm struct {
	AuthorName  string `form:"author_name" binding:"required"`
	AuthorEmail string `form:"author_email" binding:"required,email"`
	Comment     string `form:"comment" binding:"required"`
}

// CreateComment stores a reader comment and notifies the moderators.
func (h *Handlers) CreateComment(c *gin.Context) {
	post := h.lookupBlogPost(c)
	if post == nil {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBlogPost(c, post, "Please fill in your name, a valid email address and the comment.")
		return
	}

	comment := &models.BlogComment{
		BlogPostID:      post.ID,
		AuthorName:      form.AuthorName,
		AuthorEmail:     form.AuthorEmail,
		AuthorIPAddress: c.ClientIP(),
		Comment:         form.Comment,
	}
	if err := h.DB.InsertComment(comment); err != nil {
		h.serverError(c, err)
		return
	}

	commentURL := "http://" + c.Request.Host + post.LocalURL()
	if err := services.NotifyModerators(Settings(c), post, comment, commentURL); err != nil {
		// The comment is already stored; a mail failure is not the reader's problem.
		_ = c.Error(err)
	}

	c.Redirect(http.StatusFound, post.LocalURL())
}
