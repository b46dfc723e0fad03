// Package storage is the durable key-value store behind user
// preferences and chat history. Failures never break the page: callers
// log and fall back to in-memory behaviour for the session.
package storage

import "context"

// Well-known preference keys. The two side panels persist their
// geometry independently.
const (
	KeyTheme                = "theme"
	KeySidebarWidth         = "sidebar_width"
	KeySidebarCollapsed     = "sidebar_collapsed"
	KeyChatPanelWidth       = "chat_panel_width"
	KeyChatPanelCollapsed   = "chat_panel_collapsed"
	chatHistoryPrefix       = "chat_history:"
	chatHistoryStaticSuffix = "static"
)

// ChatHistoryKey returns the durable key for a chapter's chat log, or
// the shared static-page key when no chapter is active.
func ChatHistoryKey(chapterID string) string {
	if chapterID == "" {
		return chatHistoryPrefix + chatHistoryStaticSuffix
	}
	return chatHistoryPrefix + chapterID
}

// Store is a durable string-to-string mapping.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
