package ports

// NotificationLevel is the severity of a user-facing notification.
type NotificationLevel string

const (
	NotificationSuccess NotificationLevel = "success"
	NotificationInfo    NotificationLevel = "info"
	NotificationWarning NotificationLevel = "warning"
	NotificationError   NotificationLevel = "error"
)

// Notification is a short message shown to the user.
type Notification struct {
	Level   NotificationLevel
	Message string
}

// NotificationSink shows transient messages. Notify must not block the caller.
type NotificationSink interface {
	Notify(n Notification)
}
