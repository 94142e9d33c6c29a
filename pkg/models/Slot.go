package models

// UploadSlotRequest describes a file that is about to be uploaded.
type UploadSlotRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// UploadSlot is a time-limited, single-use write location bound to one image.
type UploadSlot struct {
	UploadURL string `json:"upload_url"`
	ImageID   string `json:"image_id"`
	ExpiresIn int    `json:"expires_in,omitempty"`
}

// DownloadSlot is a time-limited read location bound to one image.
type DownloadSlot struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

type ConfirmUploadResponse struct {
	URL string `json:"url"`
}
