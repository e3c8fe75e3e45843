package files

// UploadInput carries one fully buffered upload. ContentType may be empty
// when the client sent no hint.
type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

type UploadResponse struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type DownloadResponse struct {
	Filename    string `json:"filename"`
	DownloadURL string `json:"download_url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type FileInfo struct {
	ID               int64  `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	Size             int64  `json:"size"`
	ContentType      string `json:"content_type"`
	PublicURL        string `json:"public_url"`
	CreatedAt        string `json:"created_at"`
}

type ListResponse struct {
	Files []FileInfo `json:"files"`
}

// ReconcileReport summarizes one orphan sweep over the bucket.
type ReconcileReport struct {
	Checked int      `json:"checked"`
	Orphans []string `json:"orphans"`
	Removed int      `json:"removed"`
}
