package audit

import (
	"database/sql"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	ActionCodeCreate = "code.create"
	ActionCodeDelete = "code.delete"
	ActionTokenIssue = "token.issue"

	ResourceCode   = "code"
	ResourceClient = "client"
)

type Entry struct {
	ID           string                 `json:"id"`
	ClientID     string                 `json:"client_id"`
	Action       string                 `json:"action"`
	ResourceType string                 `json:"resource_type"`
	ResourceID   string                 `json:"resource_id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	IPAddress    string                 `json:"ip_address"`
	UserAgent    string                 `json:"user_agent"`
	CreatedAt    int64                  `json:"created_at"`
}

// Logger records what API clients did. A nil Logger discards entries.
type Logger struct {
	db *sql.DB
}

func NewLogger(db *sql.DB) *Logger {
	return &Logger{db: db}
}

// Log stores one entry for the request. Failures are logged and otherwise
// ignored so auditing never fails the request itself.
func (l *Logger) Log(r *http.Request, clientID, action, resourceType, resourceID string, metadata map[string]interface{}) {
	if l == nil {
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	ua := r.UserAgent()
	if ua == "" {
		ua = "unknown"
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil || metadata == nil {
		metaJSON = []byte("{}")
	}

	entry := &Entry{
		ID:           "audit_" + uuid.New().String(),
		ClientID:     clientID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ip,
		UserAgent:    ua,
		CreatedAt:    time.Now().Unix(),
	}

	query := `
		INSERT INTO audit_logs (id, client_id, action, resource_type, resource_id, metadata, ip_address, user_agent, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = l.db.Exec(query, entry.ID, entry.ClientID, entry.Action, entry.ResourceType, entry.ResourceID, string(metaJSON), entry.IPAddress, entry.UserAgent, entry.CreatedAt)
	if err != nil {
		log.Warn().Err(err).
			Str("client_id", clientID).
			Str("action", action).
			Msg("failed to write audit log")
	}
}

// List returns the newest entries of a client.
func (l *Logger) List(clientID string, limit int) ([]*Entry, error) {
	query := `
		SELECT id, client_id, action, resource_type, resource_id, metadata, ip_address, user_agent, created_at
		FROM audit_logs
		WHERE client_id = ?
		ORDER BY created_at DESC, id
		LIMIT ?
	`
	rows, err := l.db.Query(query, clientID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []*Entry{}
	for rows.Next() {
		var e Entry
		var metaJSON string
		if err := rows.Scan(&e.ID, &e.ClientID, &e.Action, &e.ResourceType, &e.ResourceID, &metaJSON, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(metaJSON), &e.Metadata); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
