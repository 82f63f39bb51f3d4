package notify

import "time"

// Severity enum
type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

// DefaultDuration is how long a toast stays before auto-dismiss
const DefaultDuration = 5 * time.Second

type style struct {
	icon  string
	color string
}

var styles = map[Severity]style{
	Success: {icon: "check-circle", color: "#28a745"},
	Error:   {icon: "exclamation-circle", color: "#dc3545"},
	Warning: {icon: "exclamation-triangle", color: "#ffc107"},
	Info:    {icon: "info-circle", color: "#17a2b8"},
}

// Notification is an ephemeral toast
type Notification struct {
	Severity Severity      `json:"type"`
	Message  string        `json:"message"`
	Icon     string        `json:"icon"`
	Color    string        `json:"color"`
	Duration time.Duration `json:"-"`
}

// DurationMS is used by the page script for auto-dismiss
func (n Notification) DurationMS() int64 { return n.Duration.Milliseconds() }

// New builds a toast; unknown severities fall back to info
func New(sev Severity, message string) Notification {
	st, ok := styles[sev]
	if !ok {
		sev = Info
		st = styles[Info]
	}
	return Notification{
		Severity: sev,
		Message:  message,
		Icon:     st.icon,
		Color:    st.color,
		Duration: DefaultDuration,
	}
}

// WithDuration overrides the auto-dismiss delay
func (n Notification) WithDuration(d time.Duration) Notification {
	if d > 0 {
		n.Duration = d
	}
	return n
}
