package entity

// FileDescriptor is one entry of a file tree listing.
type FileDescriptor struct {
	Guid        string `json:"guid"` // Absolute path
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	IsDirectory bool   `json:"isDirectory"`
	Image       string `json:"image,omitempty"` // Base64 file content for previews
	Text        string `json:"text,omitempty"`  // Encoded value of optical codes
}

// SavedFile is returned after an asset has been written.
type SavedFile struct {
	Guid  string `json:"guid"`
	Image string `json:"image,omitempty"`
}

// SignedDocument identifies the output of one sign operation.
type SignedDocument struct {
	ID   string `json:"id"`
	Guid string `json:"guid"`
}

// DocumentDescription describes a document and its pages.
type DocumentDescription struct {
	Guid  string            `json:"guid"`
	Pages []PageDescription `json:"pages"`
}

// PageDescription describes one page. Data holds the Base64 page image when
// it was rendered.
type PageDescription struct {
	Number int     `json:"number"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Data   string  `json:"data,omitempty"`
}

// LoadedSignatureImage is a saved signature preview with, for text
// signatures, its metadata record.
type LoadedSignatureImage struct {
	PageImage string      `json:"pageImage"`
	Props     *TextRecord `json:"props,omitempty"`
}
