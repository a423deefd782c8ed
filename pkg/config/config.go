package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
)

var (
	DatabasePath = "./tracontent.sqlite3"

	TemplatesGlob = "templates/*"
	StaticDir     = "./static"
	StaticURL     = "/static"
	MediaRoot     = "./media"
	MediaURL      = "/media"

	// Kompassi OAuth2 settings
	KompassiHost        = "https://kompassi.eu"
	KompassiUserInfoURL = ""
	KompassiAdminGroup  = "admins"
	KompassiEditorGroup = "tracontent-staff"

	// Blog settings
	BlogAutoExcerptMaxChars = 300
	BlogCommentModerators   []string

	// SMTP settings for moderation mail
	SMTPHost = ""
	SMTPPort = 587
	MailFrom = "noreply@tracontent.local"
	SMTPUser = ""
	SMTPPass = ""

	Debug = false
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found or error loading it.")
	}

	// Helper to get env with default
	getEnv := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}

	DatabasePath = getEnv("DATABASE_PATH", "./tracontent.sqlite3")

	TemplatesGlob = getEnv("TEMPLATES_GLOB", "templates/*")
	StaticDir = getEnv("STATIC_DIR", "./static")
	MediaRoot = getEnv("MEDIA_ROOT", "./media")

	appURL := getEnv("APP_URL", "http://localhost:8000")
	redirectURL := getEnv("KOMPASSI_REDIRECT_URL", appURL+"/auth/callback")

	KompassiHost = getEnv("KOMPASSI_HOST", "https://kompassi.eu")
	KompassiUserInfoURL = getEnv("KOMPASSI_USER_INFO_URL", KompassiHost+"/api/v2/people/me")
	KompassiAdminGroup = getEnv("KOMPASSI_ADMIN_GROUP", "admins")
	KompassiEditorGroup = getEnv("KOMPASSI_EDITOR_GROUP", "tracontent-staff")

	SMTPHost = getEnv("SMTP_HOST", "")
	MailFrom = getEnv("MAIL_FROM", "noreply@tracontent.local")
	SMTPUser = getEnv("SMTP_USER", "")
	SMTPPass = getEnv("SMTP_PASS", "")
	if p := os.Getenv("SMTP_PORT"); p != "" {
		if val, err := strconv.Atoi(p); err == nil {
			SMTPPort = val
		}
	}

	if mc := os.Getenv("BLOG_AUTO_EXCERPT_MAX_CHARS"); mc != "" {
		if val, err := strconv.Atoi(mc); err == nil {
			BlogAutoExcerptMaxChars = val
		}
	}

	BlogCommentModerators = nil
	if mods := os.Getenv("BLOG_COMMENT_MODERATORS"); mods != "" {
		for _, addr := range strings.Split(mods, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				BlogCommentModerators = append(BlogCommentModerators, addr)
			}
		}
	}

	Debug = os.Getenv("DEBUG") != ""

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("KOMPASSI_CLIENT_ID"),
		ClientSecret: os.Getenv("KOMPASSI_CLIENT_SECRET"),
		Scopes:       []string{"read"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  KompassiHost + "/oauth2/authorize",
			TokenURL: KompassiHost + "/oauth2/token",
		},
		RedirectURL: redirectURL,
	}
}

func GetAppURL() string {
	appURL := os.Getenv("APP_URL")
	if appURL == "" {
		appURL = "http://localhost:8000"
	}
	return appURL
}
