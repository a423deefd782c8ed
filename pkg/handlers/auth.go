package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tracontent/pkg/config"
)

// kompassiUser is the subset of the identity provider's people/me payload
// this application cares about.
type kompassiUser struct {
	Username string   `json:"username"`
	FullName string   `json:"full_name"`
	Email    string   `json:"email"`
	Groups   []string `json:"groups"`
}

func (u *kompassiUser) isStaff() bool {
	return slices.Contains(u.Groups, config.KompassiAdminGroup) ||
		slices.Contains(u.Groups, config.KompassiEditorGroup)
}

func (h *Handlers) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"settings": Settings(c),
	})
}

// KompassiLogin starts the OAuth2 flow against the identity provider.
func (h *Handlers) KompassiLogin(c *gin.Context) {
	state := uuid.NewString()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Session save failed")
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, config.OauthConf.AuthCodeURL(state))
}

// AuthCallback finishes the OAuth2 flow: verify the state, exchange the
// code, fetch the user info and store the user in the session. Staff status
// comes from provider group membership.
func (h *Handlers) AuthCallback(c *gin.Context) {
	session := sessions.Default(c)

	state, _ := session.Get("oauth_state").(string)
	session.Delete("oauth_state")
	if state == "" || c.Query("state") != state {
		c.String(http.StatusBadRequest, "OAuth state mismatch")
		return
	}

	token, err := config.OauthConf.Exchange(context.Background(), c.Query("code"))
	if err != nil {
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	resp, err := config.OauthConf.Client(context.Background(), token).Get(config.KompassiUserInfoURL)
	if err != nil {
		c.String(http.StatusInternalServerError, "Fetching user info failed")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.String(http.StatusInternalServerError, "Fetching user info failed")
		return
	}

	var user kompassiUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		c.String(http.StatusInternalServerError, "Invalid user info response")
		return
	}

	session.Set("access_token", token.AccessToken)
	session.Set("username", user.Username)
	session.Set("display_name", user.FullName)
	session.Set("email", user.Email)
	session.Set("is_staff", user.isStaff())
	if err := session.Save(); err != nil {
		c.String(http.StatusInternalServerError, "Session save failed")
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Logout clears the session and sends the user to the provider's logout so
// the single sign-on session ends too.
func (h *Handlers) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, config.KompassiHost+"/logout")
}
