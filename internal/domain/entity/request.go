package entity

// FileTreeRequest lists documents or signature assets.
type FileTreeRequest struct {
	Path          string        `json:"path"`
	SignatureType SignatureType `json:"signatureType"`
}

// LoadDocumentRequest asks for a document description.
type LoadDocumentRequest struct {
	Guid     string `json:"guid"`
	Password string `json:"password"`
}

// LoadDocumentPageRequest asks for one rendered page.
type LoadDocumentPageRequest struct {
	Guid     string `json:"guid"`
	Password string `json:"password"`
	Page     int    `json:"page"`
}

// LoadSignatureImageRequest asks for a saved signature preview.
type LoadSignatureImageRequest struct {
	Guid          string        `json:"guid"`
	SignatureType SignatureType `json:"signatureType"`
}

// DeleteSignatureFileRequest removes a saved signature asset.
type DeleteSignatureFileRequest struct {
	Guid          string        `json:"guid"`
	SignatureType SignatureType `json:"signatureType"`
}

// SignDocumentRequest burns a batch of placements into a document.
type SignDocumentRequest struct {
	Guid           string               `json:"guid"`
	Password       string               `json:"password"`
	DocumentType   DocumentFormat       `json:"documentType"`
	SignaturesData []SignaturePlacement `json:"signaturesData"`
}

// SaveImageRequest stores a hand drawn signature.
type SaveImageRequest struct {
	Image string `json:"image"` // Base64 PNG, optionally with a data URL prefix
}

// SaveStampRequest stores a stamp preview and its ring list.
type SaveStampRequest struct {
	Image     string      `json:"image"`
	StampData []StampRing `json:"stampData"`
}

// SaveOpticalCodeRequest stores a QR code or bar code signature.
type SaveOpticalCodeRequest struct {
	Properties    OpticalRecord `json:"properties"`
	SignatureType SignatureType `json:"signatureType"`
}

// SaveTextRequest stores a text signature.
type SaveTextRequest struct {
	Properties TextRecord `json:"properties"`
}

// UploadDocumentRequest stores an uploaded document or signature asset.
// When Content is empty the file is fetched from URL.
type UploadDocumentRequest struct {
	Filename      string
	Content       []byte
	URL           string
	Rewrite       bool
	SignatureType SignatureType
}
