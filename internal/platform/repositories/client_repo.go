package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"larry/internal/platform/models"
)

const clientSecretPrefix = "lry_"

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// Provision creates a client with a fresh secret. The raw secret is returned
// once and only its bcrypt hash is stored.
func (r *ClientRepository) Provision(name string, scopes []string) (*models.Client, string, error) {
	secret := clientSecretPrefix + uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	client := &models.Client{
		Name:       name,
		SecretHash: string(hash),
		Scopes:     scopes,
	}
	if err := r.Create(client); err != nil {
		return nil, "", err
	}
	return client, secret, nil
}

func (r *ClientRepository) Create(client *models.Client) error {
	if client.ID == "" {
		client.ID = "cli_" + uuid.New().String()
	}
	client.CreatedAt = time.Now().Unix()
	if client.Scopes == nil {
		client.Scopes = []string{}
	}

	scopesJSON, err := json.Marshal(client.Scopes)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO clients (id, name, secret_hash, scopes, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = r.db.Exec(query, client.ID, client.Name, client.SecretHash, string(scopesJSON), client.CreatedAt)
	return err
}

// GetByID returns nil, nil when the client does not exist.
func (r *ClientRepository) GetByID(id string) (*models.Client, error) {
	query := `SELECT id, name, secret_hash, scopes, last_used_at, created_at, revoked_at FROM clients WHERE id = ?`
	row := r.db.QueryRow(query, id)

	var c models.Client
	var scopesStr string
	var lastUsedAt, revokedAt sql.NullInt64

	err := row.Scan(&c.ID, &c.Name, &c.SecretHash, &scopesStr, &lastUsedAt, &c.CreatedAt, &revokedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if lastUsedAt.Valid {
		c.LastUsedAt = new(int64)
		*c.LastUsedAt = lastUsedAt.Int64
	}
	if revokedAt.Valid {
		c.RevokedAt = new(int64)
		*c.RevokedAt = revokedAt.Int64
	}
	if err := json.Unmarshal([]byte(scopesStr), &c.Scopes); err != nil {
		return nil, err
	}

	return &c, nil
}

// Authenticate returns the client when secret matches and the client is not
// revoked, nil otherwise.
func (r *ClientRepository) Authenticate(id, secret string) (*models.Client, error) {
	client, err := r.GetByID(id)
	if err != nil || client == nil {
		return nil, err
	}
	if client.RevokedAt != nil {
		return nil, nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(client.SecretHash), []byte(secret)); err != nil {
		return nil, nil
	}
	return client, nil
}

func (r *ClientRepository) Revoke(id string) error {
	_, err := r.db.Exec(`UPDATE clients SET revoked_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}

func (r *ClientRepository) UpdateLastUsed(id string) error {
	_, err := r.db.Exec(`UPDATE clients SET last_used_at = ? WHERE id = ?`, time.Now().Unix(), id)
	return err
}
