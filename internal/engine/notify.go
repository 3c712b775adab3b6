package engine

// Category classifies a notification for its sink.
type Category string

const (
	CategoryInfo    Category = "info"
	CategorySuccess Category = "success"
	CategoryWarning Category = "warning"
	CategoryError   Category = "error"
	CategoryScan    Category = "scan"
	CategoryMessage Category = "message"
)

// Notifier receives human-readable progress events from a listener. Sinks
// are advisory: a slow or panicking sink must never affect the scan loop.
type Notifier interface {
	Notify(msg string, category Category)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(msg string, category Category)

func (f NotifierFunc) Notify(msg string, category Category) { f(msg, category) }

// notify delivers to n, tolerating a nil notifier and swallowing panics.
func notify(n Notifier, msg string, category Category) {
	if n == nil {
		return
	}
	defer func() { _ = recover() }()
	n.Notify(msg, category)
}
