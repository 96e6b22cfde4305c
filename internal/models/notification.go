package models

// NotificationTemplate identifies which email a notification renders.
type NotificationTemplate string

const (
	TemplateFirstRegistration NotificationTemplate = "registration.first"
	TemplateFirstSupport      NotificationTemplate = "registration.first.support"
	TemplateAdditionalCourse  NotificationTemplate = "registration.additional"
	TemplateAdditionalSupport NotificationTemplate = "registration.additional.support"
	TemplatePendingReminder   NotificationTemplate = "registration.reminder"
	TemplateNewsletterWelcome NotificationTemplate = "newsletter.welcome"
	TemplateNewsletterGoodbye NotificationTemplate = "newsletter.unsubscribed"
	TemplateNewPost           NotificationTemplate = "newsletter.new_post"
)

// Notification is a rendered email ready for delivery.
type Notification struct {
	Template NotificationTemplate `json:"template"`
	To       string               `json:"to"`
	Subject  string               `json:"subject"`
	HTML     string               `json:"html"`
	Text     string               `json:"text"`
}
