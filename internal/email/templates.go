package email

import (
	"fmt"
	"html"

	"modportal/internal/config"
	"modportal/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #222; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #7c3aed; color: white; padding: 18px; text-align: center; border-radius: 8px 8px 0 0; }
        .content { background: #fafafa; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { padding: 12px; text-align: center; font-size: 12px; color: #6b7280; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; }
        .approved { color: #059669; }
        .rejected { color: #dc2626; }
        .revision { color: #d97706; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer">
        <p>This email was sent by %s</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(t.cfg.SiteTitle), content, html.EscapeString(t.cfg.SiteTitle), t.cfg.BaseURL, t.cfg.BaseURL)
}

// decisionWording returns the headline and CSS class for a decision.
func decisionWording(status string) (headline, class string) {
	switch status {
	case models.StatusApproved:
		return "has been approved", "approved"
	case models.StatusRejected:
		return "has been rejected", "rejected"
	case models.StatusNeedsRevision:
		return "needs revision", "revision"
	}
	return "was updated", ""
}

func entityLabel(entityType string) string {
	switch entityType {
	case models.EntityArticle:
		return "article"
	case models.EntityDownloadLink:
		return "download link"
	case models.EntityComment:
		return "comment"
	}
	return "submission"
}

// ReviewDecision generates the email sent to a requester once a reviewer
// decided on their submission.
func (t *Templates) ReviewDecision(req *models.ModerationRequest, reviewer *models.User) (subject, htmlBody, textBody string) {
	headline, class := decisionWording(req.Status)
	label := entityLabel(req.EntityType)
	title := req.DisplayTitle()
	if title == "" {
		title = fmt.Sprintf("#%d", req.EntityID)
	}

	reviewerName := "a moderator"
	if reviewer != nil && reviewer.Name != "" {
		reviewerName = reviewer.Name
	}

	subject = fmt.Sprintf("[%s] Your %s %s", t.cfg.SiteTitle, label, headline)

	note := ""
	if req.ReviewNote != "" {
		note = fmt.Sprintf(`<p><span class="label">Reviewer note:</span> %s</p>`, html.EscapeString(req.ReviewNote))
	}

	content := fmt.Sprintf(`
        <p>Your %s <strong class="%s">%s</strong>.</p>
        <div class="info-box">
            <p><span class="label">Title:</span> %s</p>
            <p><span class="label">Reviewed by:</span> %s</p>
            %s
        </div>
    `,
		label, class, headline,
		html.EscapeString(title),
		html.EscapeString(reviewerName),
		note,
	)
	htmlBody = t.baseHTML(subject, content)

	textBody = fmt.Sprintf("Your %s %s.\n\nTitle: %s\nReviewed by: %s\n", label, headline, title, reviewerName)
	if req.ReviewNote != "" {
		textBody += fmt.Sprintf("Reviewer note: %s\n", req.ReviewNote)
	}
	textBody += fmt.Sprintf("\n--\n%s\n%s", t.cfg.SiteTitle, t.cfg.BaseURL)

	return
}
