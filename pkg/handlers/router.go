package handlers

import (
	"html/template"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"tracontent/pkg/config"
	"tracontent/pkg/database"
)

// NewRouter wires up the full application: sessions, templates, static
// files, the public site, the login flow and the staff API.
func NewRouter(db *database.DB) *gin.Engine {
	h := &Handlers{DB: db}

	r := gin.Default()

	// Session Setup
	store := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	r.Use(sessions.Sessions("tracontent_session", store))

	// Static Files & Templates
	RegisterValidations()
	r.SetFuncMap(template.FuncMap{
		// Page bodies are editor-authored HTML
		"safe": func(s string) template.HTML { return template.HTML(s) },
		"fmtdate": func(t time.Time) string { return t.Format("2.1.2006") },
	})
	r.LoadHTMLGlob(config.TemplatesGlob)
	r.Static(config.StaticURL, config.StaticDir)
	r.Static(config.MediaURL, config.MediaRoot)

	// Site resolution from the Host header
	r.Use(h.CurrentSite)

	// --- Auth Routes ---
	r.GET("/login", h.LoginPage)
	r.GET("/login/kompassi", h.KompassiLogin)
	r.GET("/auth/callback", h.AuthCallback)
	r.GET("/logout", h.Logout)

	// --- Public site ---
	r.GET("/blog", h.BlogIndex)
	r.GET("/blog/:year/:month/:day/:slug", h.BlogPostView)
	r.POST("/blog/:year/:month/:day/:slug/comments", h.CreateComment)

	// The page tree claims every path no explicit route took
	r.NoRoute(h.PageView)

	// --- Staff API ---
	api := r.Group("/api")
	api.Use(AuthRequired, StaffRequired)
	{
		api.GET("/sites", h.ListSites)

		api.GET("/pages", h.ListPages)
		api.GET("/page", h.GetPage)
		api.POST("/page", h.SavePage)
		api.POST("/page/delete", h.DeletePage)
		api.POST("/page/copy", h.CopyPage)
		api.GET("/page/export", h.ExportPage)

		api.GET("/posts", h.ListBlogPosts)
		api.GET("/post", h.GetBlogPost)
		api.POST("/post", h.SaveBlogPost)
		api.POST("/post/delete", h.DeleteBlogPost)

		api.GET("/comments", h.ListComments)
		api.POST("/comment/remove", h.RemoveComment)

		api.GET("/redirects", h.ListRedirects)
		api.POST("/redirect", h.SaveRedirect)
		api.POST("/redirect/delete", h.DeleteRedirect)

		api.GET("/settings", h.GetSiteSettings)
		api.POST("/settings", h.SaveSiteSettings)

		api.GET("/media", h.ListMedia)
		api.POST("/media/upload", h.UploadMedia)
		api.POST("/media/delete", h.DeleteMedia)
	}

	return r
}
