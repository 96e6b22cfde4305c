package service

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/noah-isme/fixlab-academy-api/internal/models"
)

// NotificationTemplates renders the transactional emails sent by the workflow and newsletter.
type NotificationTemplates struct {
	Brand   string
	SiteURL string
	Support string
	APIBase string
}

// RegistrationMail carries what the registration emails mention.
type RegistrationMail struct {
	Detail     models.RegistrationDetail
	ReceiptURL string
}

// Completion renders the student and support emails for a newly completed registration.
func (t NotificationTemplates) Completion(m RegistrationMail, additional bool) []models.Notification {
	r := m.Detail
	course := esc(r.CourseName)
	mode := esc(modeLabel(r.ModeOfLearning))
	option := esc(r.PaymentOption.Label())

	var student, support models.Notification
	if additional {
		student = models.Notification{
			Template: models.TemplateAdditionalCourse,
			To:       r.Email,
			Subject:  fmt.Sprintf("New Course Enrollment - %s", r.CourseName),
			HTML: fmt.Sprintf(`Hello %s,<br><br>
Your enrollment has been updated with a new course:<br><br>
<b>Course:</b> %s<br><b>Mode of learning:</b> %s<br><b>Payment option:</b> %s<br><b>Status:</b> Completed<br><b>Reference:</b> %s<br><br>
Our team will update your LMS account within 24 hours so you can start on the new course materials.<br><br>%s
Best regards,<br><b>%s Team</b>`, esc(r.FullName), course, mode, option, esc(r.PaymentReference), receiptLine(m.ReceiptURL), esc(t.Brand)),
		}
		support = models.Notification{
			Template: models.TemplateAdditionalSupport,
			To:       t.Support,
			Subject:  fmt.Sprintf("New Course Enrollment: %s", r.FullName),
			HTML: fmt.Sprintf(`<b>New Course Enrollment</b><br><br>An existing student has enrolled in a new course.<br><br>
%s<br>Please make sure LMS access is updated for the new course.<br><br>%s Automated System`, t.studentFacts(r), esc(t.Brand)),
		}
	} else {
		student = models.Notification{
			Template: models.TemplateFirstRegistration,
			To:       r.Email,
			Subject:  fmt.Sprintf("Welcome to %s - %s", t.Brand, r.CourseName),
			HTML: fmt.Sprintf(`Hello %s,<br><br>
Welcome to <b>%s</b>! Your registration for <b>%s</b> (%s) has been confirmed.<br><br>
<b>Payment details:</b><br>- Payment option: %s<br>- Status: Completed<br>- Reference: %s<br><br>
<b>Next steps:</b><br>- Your LMS account is being created.<br>- You will receive login credentials by email within 24 hours.<br>
- Our support team is available at %s if you need assistance.<br><br>%s
Warm regards,<br><b>%s Team</b>`, esc(r.FullName), esc(t.Brand), course, mode, option, esc(r.PaymentReference), esc(t.Support), receiptLine(m.ReceiptURL), esc(t.Brand)),
		}
		support = models.Notification{
			Template: models.TemplateFirstSupport,
			To:       t.Support,
			Subject:  fmt.Sprintf("New Student Registration: %s", r.FullName),
			HTML: fmt.Sprintf(`<b>New Student Registration</b><br><br>A new student has successfully registered.<br><br>
%s<br>Please create the student's LMS account and send access credentials within 24 hours.<br><br>%s Automated System`, t.studentFacts(r), esc(t.Brand)),
		}
	}
	return []models.Notification{student, support}
}

// Reminder renders the nudge sent for a registration still awaiting payment.
func (t NotificationTemplates) Reminder(r models.RegistrationDetail) models.Notification {
	return models.Notification{
		Template: models.TemplatePendingReminder,
		To:       r.Email,
		Subject:  fmt.Sprintf("Complete your registration for %s", r.CourseName),
		HTML: fmt.Sprintf(`Hello %s,<br><br>
We noticed your registration for <b>%s</b> is still awaiting payment.<br>
Payment reference: <b>%s</b><br><br>
If you have already paid, reply to %s with this reference and we will sort it out. Otherwise you can start again at %s.<br><br>
Best regards,<br><b>%s Team</b>`, esc(r.FullName), esc(r.CourseName), esc(r.PaymentReference), esc(t.Support), esc(t.SiteURL), esc(t.Brand)),
	}
}

// NewsletterWelcome confirms a subscription.
func (t NotificationTemplates) NewsletterWelcome(email string) models.Notification {
	return models.Notification{
		Template: models.TemplateNewsletterWelcome,
		To:       email,
		Subject:  fmt.Sprintf("Welcome to the %s Newsletter!", t.Brand),
		HTML: fmt.Sprintf(`Hi %s,<br><br>Thank you for subscribing. You will now receive updates whenever a new blog post is published.<br><br>
To unsubscribe at any time, visit <a href="%s">%s</a>.<br><br>Best regards,<br>The %s Team`,
			esc(email), esc(t.unsubscribeURL(email)), esc(t.unsubscribeURL(email)), esc(t.Brand)),
	}
}

// NewsletterGoodbye confirms an unsubscription.
func (t NotificationTemplates) NewsletterGoodbye(email string) models.Notification {
	return models.Notification{
		Template: models.TemplateNewsletterGoodbye,
		To:       email,
		Subject:  "You Have Unsubscribed",
		HTML: fmt.Sprintf(`Hi %s,<br><br>You have successfully unsubscribed from the %s Newsletter. We are sorry to see you go.<br><br>
If you change your mind you can subscribe again at <a href="%s/blog">%s/blog</a>.<br><br>Best regards,<br>The %s Team`,
			esc(email), esc(t.Brand), esc(t.SiteURL), esc(t.SiteURL), esc(t.Brand)),
	}
}

// NewPost announces a published post to one subscriber.
func (t NotificationTemplates) NewPost(email string, post models.Post) models.Notification {
	link := fmt.Sprintf("%s/blog/%s", t.SiteURL, url.PathEscape(post.Slug))
	return models.Notification{
		Template: models.TemplateNewPost,
		To:       email,
		Subject:  fmt.Sprintf("New Blog Post Published: %s", post.Title),
		HTML: fmt.Sprintf(`Hello %s,<br><br>A new blog post has just been published:<br><br><b>%s</b><br>%s<br><br>
Read it here: <a href="%s">%s</a><br><br>
If you no longer wish to receive updates, unsubscribe here: <a href="%s">%s</a><br><br>Best regards,<br>The %s Team`,
			esc(email), esc(post.Title), esc(post.Excerpt), esc(link), esc(link),
			esc(t.unsubscribeURL(email)), esc(t.unsubscribeURL(email)), esc(t.Brand)),
	}
}

func (t NotificationTemplates) studentFacts(r models.RegistrationDetail) string {
	rows := [][2]string{
		{"Name", r.FullName},
		{"Email", r.Email},
		{"Phone", r.Phone},
		{"Course", r.CourseName},
		{"Mode of learning", modeLabel(r.ModeOfLearning)},
		{"Payment option", r.PaymentOption.Label()},
		{"Payment status", "Completed"},
		{"Reference", r.PaymentReference},
		{"Additional message", deref(r.Message, "None")},
	}
	var b strings.Builder
	for _, row := range rows {
		fmt.Fprintf(&b, "- %s: %s<br>\n", row[0], esc(row[1]))
	}
	return b.String()
}

func (t NotificationTemplates) unsubscribeURL(email string) string {
	return fmt.Sprintf("%s/blog/unsubscribe/%s", t.APIBase, url.PathEscape(email))
}

func receiptLine(receiptURL string) string {
	if receiptURL == "" {
		return ""
	}
	return fmt.Sprintf(`Download your receipt: <a href="%s">payment receipt</a><br><br>`, esc(receiptURL))
}

func modeLabel(mode *models.LearningMode) string {
	if mode == nil || *mode == "" {
		return "Not specified"
	}
	return string(*mode)
}

func deref(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}

func esc(s string) string {
	return html.EscapeString(s)
}
