package services

import (
	"testing"

	"tracontent/pkg/config"
	"tracontent/pkg/models"
)

func TestNotifyModeratorsWithoutModerators(t *testing.T) {
	old := config.BlogCommentModerators
	config.BlogCommentModerators = nil
	t.Cleanup(func() { config.BlogCommentModerators = old })

	err := NotifyModerators(
		&models.SiteSettings{Site: &models.Site{Name: "Example Con"}},
		&models.BlogPost{Title: "Tickets on sale"},
		&models.BlogComment{AuthorName: "Visitor", AuthorEmail: "v@example.com", Comment: "Hi"},
		"http://example.com/blog/2024/05/17/tickets-on-sale",
	)
	if err != nil {
		t.Errorf("NotifyModerators without moderators = %v, want nil", err)
	}
}

func TestNotifyModeratorsWithoutSMTP(t *testing.T) {
	oldMods, oldHost := config.BlogCommentModerators, config.SMTPHost
	config.BlogCommentModerators = []string{"mod@example.com"}
	config.SMTPHost = ""
	t.Cleanup(func() {
		config.BlogCommentModerators = oldMods
		config.SMTPHost = oldHost
	})

	// Without SMTP settings the mail is logged, not sent, and that is fine.
	err := NotifyModerators(
		&models.SiteSettings{Site: &models.Site{Name: "Example Con"}},
		&models.BlogPost{Title: "Tickets on sale"},
		&models.BlogComment{AuthorName: "Visitor", AuthorEmail: "v@example.com", Comment: "Hi"},
		"http://example.com/blog/2024/05/17/tickets-on-sale",
	)
	if err != nil {
		t.Errorf("NotifyModerators without SMTP = %v, want nil", err)
	}
}
