package model

import "time"

// Paste represents a stored paste's metadata row.
// This is a pure domain model with no database-specific dependencies or tags.
// The paste body itself lives in the content blob store under ContentKey;
// only the row knows where.
type Paste struct {
	ID             string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	Language       string     `json:"language"`
	IsEncrypted    bool       `json:"is_encrypted"`
	EncryptionIV   string     `json:"encryption_iv,omitempty"`
	EncryptionSalt string     `json:"encryption_salt,omitempty"`
	BurnAfter      bool       `json:"burn_after"`
	ExpiresAt      *time.Time `json:"expires_at"`
	ViewCount      int        `json:"view_count"`
	SizeBytes      int64      `json:"size_bytes"`
	ContentKey     string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	IPHash         string     `json:"-"`
}

// Expired reports whether the paste's expiry is set and has passed at now.
func (p *Paste) Expired(now time.Time) bool {
	return p.ExpiresAt != nil && !now.Before(*p.ExpiresAt)
}

// Metadata returns the caller-visible view of the row, without the
// internal content key or the abuse-accounting hash.
func (p *Paste) Metadata() *PasteMetadata {
	return &PasteMetadata{
		ID:             p.ID,
		Title:          p.Title,
		Language:       p.Language,
		IsEncrypted:    p.IsEncrypted,
		EncryptionIV:   p.EncryptionIV,
		EncryptionSalt: p.EncryptionSalt,
		BurnAfter:      p.BurnAfter,
		ExpiresAt:      p.ExpiresAt,
		ViewCount:      p.ViewCount,
		SizeBytes:      p.SizeBytes,
		CreatedAt:      p.CreatedAt,
	}
}

// PasteMetadata is the exported shape of a paste without its content.
type PasteMetadata struct {
	ID             string     `json:"id"`
	Title          string     `json:"title,omitempty"`
	Language       string     `json:"language"`
	IsEncrypted    bool       `json:"is_encrypted"`
	EncryptionIV   string     `json:"encryption_iv,omitempty"`
	EncryptionSalt string     `json:"encryption_salt,omitempty"`
	BurnAfter      bool       `json:"burn_after"`
	ExpiresAt      *time.Time `json:"expires_at"`
	ViewCount      int        `json:"view_count"`
	SizeBytes      int64      `json:"size_bytes"`
	CreatedAt      time.Time  `json:"created_at"`
}

// PasteView combines metadata with the fetched content. ViewCount carries
// the post-increment value seen by this retrieval.
type PasteView struct {
	PasteMetadata
	Content string `json:"content"`
}

// CreatePasteInput is the inbound shape for creating a paste. Encryption
// fields are opaque to the server; when IsEncrypted is set, Content is
// ciphertext and IV/Salt are meaningful to the client only.
type CreatePasteInput struct {
	Content        string    `json:"content"`
	Title          string    `json:"title"`
	Language       string    `json:"language"`
	IsEncrypted    bool      `json:"is_encrypted"`
	EncryptionIV   string    `json:"encryption_iv"`
	EncryptionSalt string    `json:"encryption_salt"`
	ExpiresIn      ExpiresIn `json:"expires_in"`
	BurnAfter      bool      `json:"burn_after"`
}
