package domain

import "time"

// File is the metadata record for one stored blob. StorageKey is the name
// the blob lives under in the object store; OriginalFilename is what the
// uploader called it.
type File struct {
	ID               int64     `json:"id"`
	StorageKey       string    `json:"filename"`
	OriginalFilename string    `json:"original_filename"`
	Size             int64     `json:"size"`
	ContentType      string    `json:"content_type"`
	PublicURL        string    `json:"public_url"`
	CreatedAt        time.Time `json:"created_at"`
}
