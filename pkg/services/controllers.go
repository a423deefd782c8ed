package services

import (
	"log/slog"
	"sync"
	"time"

	"tracontent/pkg/config"
	"tracontent/pkg/database"
	"tracontent/pkg/models"
)

// ControllerContext is what a page controller gets to work with.
type ControllerContext struct {
	DB       *database.DB
	Site     *models.Site
	Settings *models.SiteSettings
	Page     *models.Page
	Now      time.Time
}

// ControllerFunc computes extra template variables for a page render.
// Pages and site settings reference controllers by registered name.
type ControllerFunc func(ctx ControllerContext) (map[string]any, error)

var (
	controllerMutex sync.RWMutex
	controllers     = map[string]ControllerFunc{}
)

// RegisterController makes a controller available under name. Later
// registrations under the same name win, which lets site-specific builds
// override the defaults.
func RegisterController(name string, fn ControllerFunc) {
	controllerMutex.Lock()
	defer controllerMutex.Unlock()
	controllers[name] = fn
}

// RunController executes the named controller. An unknown name is logged
// and yields no extra variables rather than failing the page render: a
// typo in an admin field must not take the page down.
func RunController(name string, ctx ControllerContext) map[string]any {
	if name == "" {
		return nil
	}

	controllerMutex.RLock()
	fn, ok := controllers[name]
	controllerMutex.RUnlock()
	if !ok {
		slog.Warn("unknown page controller", "name", name)
		return nil
	}

	vars, err := fn(ctx)
	if err != nil {
		slog.Error("page controller failed", "name", name, "error", err)
		return nil
	}
	return vars
}

const frontPageNewsPosts = 5

func init() {
	RegisterController("front_page", frontPageController)
}

// frontPageController adds the latest visible blog posts for front pages
// that show a news listing.
func frontPageController(ctx ControllerContext) (map[string]any, error) {
	posts, err := ctx.DB.ListVisibleBlogPosts(ctx.Site.ID, ctx.Now, frontPageNewsPosts)
	if err != nil {
		return nil, err
	}

	news := make([]map[string]any, 0, len(posts))
	for i := range posts {
		post := &posts[i]
		news = append(news, map[string]any{
			"post":    post,
			"excerpt": post.Excerpt(config.BlogAutoExcerptMaxChars),
		})
	}
	return map[string]any{"news_posts": news}, nil
}
