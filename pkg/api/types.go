package api

import "time"

// Profile is the authenticated user as reported by the backend.
type Profile struct {
	UserID  string `json:"user_id,omitempty"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// ChatReply is the backend's answer to a single chat message.
type ChatReply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

// AdminStats is the aggregate view shown on the admin panel. It is always
// replaced wholesale, never patched.
type AdminStats struct {
	TotalUsers int    `json:"total_users"`
	TotalChats int    `json:"total_chats"`
	AdminEmail string `json:"admin_email"`
}

// UserRecord is one entry of the admin roster.
type UserRecord struct {
	Name      string `json:"name"`
	Picture   string `json:"picture"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	LastLogin string `json:"last_login"`
}

// LastLoginTime parses the roster timestamp. The backend emits ISO-8601,
// with or without an explicit zone depending on how the record was stored.
func (u UserRecord) LastLoginTime() (time.Time, bool) {
	return parseInstant(u.LastLogin)
}

// ChatRecord is one stored exchange from the server-side chat history.
type ChatRecord struct {
	ChatID            string `json:"chat_id"`
	SessionID         string `json:"session_id"`
	UserMessage       string `json:"user_message"`
	AssistantResponse string `json:"assistant_response"`
	Timestamp         string `json:"timestamp"`
}

type usersResponse struct {
	Users []UserRecord `json:"users"`
}

type historyResponse struct {
	Chats []ChatRecord `json:"chats"`
}

type chatRequest struct {
	Message string `json:"message"`
}

type configureRequest struct {
	OpenAIKey string  `json:"openai_key"`
	UserEmail *string `json:"user_email"`
}

type manageAdminRequest struct {
	Email  string `json:"email"`
	Action string `json:"action"`
}

var instantLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

func parseInstant(s string) (time.Time, bool) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseInstant parses a backend timestamp, accepting the handful of ISO-8601
// shapes the backend is known to emit.
func ParseInstant(s string) (time.Time, bool) { return parseInstant(s) }
