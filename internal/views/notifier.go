package views

import "soraifarm/internal/logging"

// Notifier delivers user-facing alerts, such as the extreme weather
// warning on the home screen.
type Notifier interface {
	Notify(title, message string)
}

// LogNotifier writes alerts to the application log. The default when no
// platform notifier is wired in.
type LogNotifier struct{}

func (LogNotifier) Notify(title, message string) {
	logging.Infof("notify: %s - %s", title, message)
}
