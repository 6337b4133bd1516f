package handlers

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/oauth_callback.html
var templateFS embed.FS

var callbackPage = template.Must(template.ParseFS(templateFS, "templates/oauth_callback.html"))

const (
	messageAuthSuccess = "AUTH_SUCCESS"
	messageAuthError   = "AUTH_ERROR"
)

// callbackMessage is posted to the window that opened the login popup.
type callbackMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// renderCallbackPage writes the popup page. html/template escapes both values
// for the script context.
func renderCallbackPage(c *gin.Context, status int, targetOrigin string, msg callbackMessage) {
	c.Render(status, render.HTML{
		Template: callbackPage,
		Data: gin.H{
			"Payload":      msg,
			"TargetOrigin": targetOrigin,
		},
	})
}
