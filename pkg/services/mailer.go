package services

import (
	"bytes"
	"fmt"
	"log/slog"
	"text/template"

	"github.com/wneessen/go-mail"

	"tracontent/pkg/config"
	"tracontent/pkg/models"
)

var moderationMailTemplate = template.Must(template.New("moderation").Parse(
	`A new comment is awaiting moderation on {{.SiteTitle}}.

Post:    {{.PostTitle}}
Author:  {{.AuthorName}} <{{.AuthorEmail}}>

{{.Comment}}

View the comment: {{.CommentURL}}
`))

type moderationMailVars struct {
	SiteTitle   string
	PostTitle   string
	AuthorName  string
	AuthorEmail string
	Comment     string
	CommentURL  string
}

// NotifyModerators mails the configured moderators about a new blog
// comment. Without configured moderators it does nothing; without SMTP
// settings the mail body is only logged.
func NotifyModerators(settings *models.SiteSettings, post *models.BlogPost, comment *models.BlogComment, commentURL string) error {
	if len(config.BlogCommentModerators) == 0 {
		return nil
	}

	subject := fmt.Sprintf("%s: New blog comment", settings.Title())

	var body bytes.Buffer
	err := moderationMailTemplate.Execute(&body, moderationMailVars{
		SiteTitle:   settings.Title(),
		PostTitle:   post.Title,
		AuthorName:  comment.AuthorName,
		AuthorEmail: comment.AuthorEmail,
		Comment:     comment.Comment,
		CommentURL:  commentURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render moderation mail: %w", err)
	}

	if config.SMTPHost == "" {
		slog.Info("SMTP not configured, logging moderation mail instead",
			"subject", subject, "body", body.String())
		return nil
	}

	msg := mail.NewMsg()
	if err := msg.From(config.MailFrom); err != nil {
		return fmt.Errorf("invalid mail sender: %w", err)
	}
	if err := msg.To(config.BlogCommentModerators...); err != nil {
		return fmt.Errorf("invalid moderator address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body.String())

	opts := []mail.Option{
		mail.WithPort(config.SMTPPort),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if config.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.SMTPUser),
			mail.WithPassword(config.SMTPPass),
		)
	}

	client, err := mail.NewClient(config.SMTPHost, opts...)
	if err != nil {
		return fmt.Errorf("failed to create mail client: %w", err)
	}
	if err := client.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send moderation mail: %w", err)
	}
	return nil
}
