package hooks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/brads3290/cchooks"
	"github.com/gen2brain/beeep"

	"github.com/gatehouse-sh/gatehouse/internal/constants"
	"github.com/gatehouse-sh/gatehouse/internal/core"
)

// BeeepNotifier implements core.Notifier with the system notification
// facility. Failures are returned but callers treat them as non-fatal; a
// missing notification daemon must never break a hook.
type BeeepNotifier struct{}

// Notify shows a desktop notification.
func (BeeepNotifier) Notify(title, message string) error {
	return beeep.Notify(title, message, "")
}

// Beep plays the system beep.
func (BeeepNotifier) Beep(freq float64, duration int) error {
	return beeep.Beep(freq, duration)
}

// NotifyHook plays a sound and shows a desktop notification when the agent
// finishes (Stop) or needs attention (Notification). These events have no
// typed representation in the runner, so they are handled from raw JSON.
type NotifyHook struct {
	*core.BaseHook
}

// NewNotifyHook creates a new notify hook instance
func NewNotifyHook(ctx *core.HookContext) core.Hook {
	if ctx != nil && ctx.Notifier == nil {
		ctx.Notifier = BeeepNotifier{}
	}
	base := core.NewBaseHook("notify", "Notify Hook",
		"Plays a sound and shows a desktop notification on Stop and Notification events", ctx)
	return &NotifyHook{BaseHook: base}
}

// Run executes the notify hook.
func (h *NotifyHook) Run() error {
	if !h.IsEnabled() {
		fmt.Println("Notify plugin disabled - skipping")
		return nil
	}

	// Stop and Notification are not natively supported by cchooks; handle
	// them via raw JSON read from stdin to avoid "unknown event type" errors.
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil // fail open
	}
	h.rawHandler(context.Background(), string(data))
	return nil
}

type rawNotifyEvent struct {
	HookEventName string `json:"hook_event_name"`
	Message       string `json:"message"`
}

func (h *NotifyHook) rawHandler(_ context.Context, rawJSON string) *cchooks.RawResponse {
	var event rawNotifyEvent
	if err := json.Unmarshal([]byte(rawJSON), &event); err != nil {
		// Malformed event, continue with normal processing
		return nil
	}

	switch core.EventType(event.HookEventName) {
	case core.StopEvent:
		h.deliver(constants.AppName, "Task finished")
	case core.NotificationEvent:
		message := event.Message
		if message == "" {
			message = "Agent needs your attention"
		}
		h.deliver(constants.AppName, message)
	}

	return nil
}

// deliver plays the sound and shows the notification per the configured
// toggles. Delivery errors are logged and swallowed.
func (h *NotifyHook) deliver(title, message string) {
	notifier := h.Context().Notifier
	if notifier == nil {
		return
	}
	rules := h.Context().Rules.Notifications

	if rules.SoundEnabled() {
		if err := notifier.Beep(beeep.DefaultFreq, beeep.DefaultDuration); err != nil {
			h.LogError("notify_beep_error", "", err)
		}
	}

	if rules.DesktopEnabled() {
		if err := notifier.Notify(title, message); err != nil {
			h.LogError("notify_desktop_error", "", err)
		}
	}

	h.LogApproval("notify_delivered", "", map[string]interface{}{
		"title":   title,
		"message": message,
	})
}
