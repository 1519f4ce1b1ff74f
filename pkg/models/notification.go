package models

import (
	"time"

	"github.com/peoplepower/ppsync-go/pkg/bag"
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

// NotificationType is the delivery channel of a notification.
type NotificationType int

const (
	NotificationPush NotificationType = iota
	NotificationEmail
	NotificationSMS
	NotificationInApp
	NotificationUnrecognized
)

// NotificationTypes maps notification channel codes.
var NotificationTypes = enum.NewTable("notification type", NotificationUnrecognized,
	enum.Entry[NotificationType]{Variant: NotificationPush, Code: 1, Names: []string{"push"}},
	enum.Entry[NotificationType]{Variant: NotificationEmail, Code: 2, Names: []string{"email"}},
	enum.Entry[NotificationType]{Variant: NotificationSMS, Code: 3, Names: []string{"sms"}},
	enum.Entry[NotificationType]{Variant: NotificationInApp, Code: 4, Names: []string{"in-app"}},
)

// NotificationMessage is the body of a notification. Content may contain
// {{name}} placeholders filled from Model.
type NotificationMessage struct {
	Template opt.Value[string]
	Content  opt.Value[string]
	Model    *bag.Bag
}

// Render returns the content with placeholders replaced from the model.
// {{template}} resolves to the template name.
func (m *NotificationMessage) Render() string {
	content, _ := m.Content.Get()
	extra := bag.Map{}
	if name, ok := m.Template.Get(); ok {
		extra["template"] = name
	}
	return bag.Render(content, m.Model, extra)
}

// Notification is a message sent to the user.
type Notification struct {
	ID       opt.Value[int64]
	Type     opt.Value[NotificationType]
	SentDate opt.Value[time.Time]
	Read     opt.Value[enum.TriState]
	Message  *NotificationMessage
}

// NotificationMessageTable is the field table of NotificationMessage.
var NotificationMessageTable = model.NewTable[NotificationMessage]("notificationMessage",
	model.String("template", func(m *NotificationMessage) *opt.Value[string] { return &m.Template }),
	model.String("content", func(m *NotificationMessage) *opt.Value[string] { return &m.Content }),
	model.Bag("model", func(m *NotificationMessage) **bag.Bag { return &m.Model }),
)

// NotificationTable is the field table of Notification.
var NotificationTable = model.NewTable[Notification]("notification",
	model.Int64("id", func(n *Notification) *opt.Value[int64] { return &n.ID }).Identity(),
	model.Enum("type", func(n *Notification) *opt.Value[NotificationType] { return &n.Type }, NotificationTypes),
	model.Time("sentDate", func(n *Notification) *opt.Value[time.Time] { return &n.SentDate }),
	model.TriState("read", func(n *Notification) *opt.Value[enum.TriState] { return &n.Read }),
	model.Record("message", func(n *Notification) **NotificationMessage { return &n.Message }, NotificationMessageTable),
)

// NotificationKey returns the collection key of a notification.
func NotificationKey(n *Notification) int64 { return n.ID.Or(0) }
