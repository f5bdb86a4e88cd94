package domain

// NotificationKind tells the notifier why a message is being sent.
type NotificationKind int

const (
	NotificationFirst NotificationKind = iota + 1
	NotificationUp
	NotificationDown
)

func (k NotificationKind) String() string {
	switch k {
	case NotificationFirst:
		return "first"
	case NotificationUp:
		return "up"
	case NotificationDown:
		return "down"
	default:
		return "unknown"
	}
}
