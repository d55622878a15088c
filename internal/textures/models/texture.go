package models

// ============================================================
// Texture Model
// ============================================================

// Texture is a catalog entry: a stable handle that plan styles refer to and
// the file that backs it.
type Texture struct {
	ID          string `json:"id"`
	Handle      string `json:"handle"`
	Filename    string `json:"filename"`
	Description string `json:"description,omitempty"`
	MimeType    string `json:"mime_type,omitempty"`
	CreatedAt   string `json:"created_at"`
	URL         string `json:"url,omitempty"`
}
