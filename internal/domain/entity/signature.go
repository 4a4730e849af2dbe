package entity

import (
	"path/filepath"
	"strings"
)

// SignatureType identifies the kind of a signature asset or placement.
// Values match the identifiers used by the signature UI.
type SignatureType string

const (
	SignatureTypeText    SignatureType = "text"
	SignatureTypeImage   SignatureType = "image"
	SignatureTypeHand    SignatureType = "hand"
	SignatureTypeStamp   SignatureType = "stamp"
	SignatureTypeQRCode  SignatureType = "qrCode"
	SignatureTypeBarCode SignatureType = "barCode"
	SignatureTypeDigital SignatureType = "digital"
)

// SignatureTypes lists every known signature type.
var SignatureTypes = []SignatureType{
	SignatureTypeText,
	SignatureTypeImage,
	SignatureTypeHand,
	SignatureTypeStamp,
	SignatureTypeQRCode,
	SignatureTypeBarCode,
	SignatureTypeDigital,
}

// Valid reports whether t is one of the known signature types.
func (t SignatureType) Valid() bool {
	for _, known := range SignatureTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsOptical reports whether t is a QR code or a bar code.
func (t SignatureType) IsOptical() bool {
	return t == SignatureTypeQRCode || t == SignatureTypeBarCode
}

// HasMetadata reports whether assets of this type carry a metadata record
// next to their preview image.
func (t SignatureType) HasMetadata() bool {
	switch t {
	case SignatureTypeText, SignatureTypeStamp, SignatureTypeQRCode, SignatureTypeBarCode:
		return true
	default:
		return false
	}
}

func (t SignatureType) String() string {
	return string(t)
}

// DocumentFormat is the family of the document being signed.
type DocumentFormat string

const (
	DocumentFormatPDF        DocumentFormat = "Portable Document Format"
	DocumentFormatWord       DocumentFormat = "Microsoft Word"
	DocumentFormatExcel      DocumentFormat = "Microsoft Excel"
	DocumentFormatPowerPoint DocumentFormat = "Microsoft PowerPoint"
	DocumentFormatImage      DocumentFormat = "image"
)

// supportedImageExtensions are raster formats signed as images regardless of
// the requested document format.
var supportedImageExtensions = map[string]bool{
	"bmp":  true,
	"jpeg": true,
	"jpg":  true,
	"tiff": true,
	"tif":  true,
	"png":  true,
}

// IsImageDocument reports whether the document extension is a raster image.
func IsImageDocument(documentGuid string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(documentGuid)), ".")
	return supportedImageExtensions[ext]
}

// ResolveDocumentFormat returns the format the document is signed as. Raster
// images are always signed as images.
func ResolveDocumentFormat(requested DocumentFormat, documentGuid string) DocumentFormat {
	if IsImageDocument(documentGuid) {
		return DocumentFormatImage
	}
	return requested
}

// SignaturePlacement is one signature instance positioned on a document page.
type SignaturePlacement struct {
	SignatureType       SignatureType `json:"signatureType"`
	SignatureGuid       string        `json:"signatureGuid,omitempty"` // Saved asset the placement refers to
	PageNumber          int           `json:"pageNumber"`
	Left                int           `json:"left"`
	Top                 int           `json:"top"`
	ImageWidth          int           `json:"imageWidth"`
	ImageHeight         int           `json:"imageHeight"`
	HorizontalAlignment string        `json:"horizontalAlignment,omitempty"`
	VerticalAlignment   string        `json:"verticalAlignment,omitempty"`
	Angle               int           `json:"angle"`
	Deleted             bool          `json:"deleted"`

	// Digital signature payload
	SignatureComment  string `json:"signatureComment,omitempty"`
	SignaturePassword string `json:"signaturePassword,omitempty"`
	Reason            string `json:"reason,omitempty"`
	Contact           string `json:"contact,omitempty"`
	Address           string `json:"address,omitempty"`
	Date              string `json:"date,omitempty"`
}

// StampRing is one concentric ring of a circular stamp as authored in the UI.
type StampRing struct {
	Text            string `json:"text" yaml:"text"`
	TextRepeat      int    `json:"textRepeat" yaml:"text_repeat"`
	Width           int    `json:"width" yaml:"width"`
	Height          int    `json:"height" yaml:"height"`
	Radius          int    `json:"radius" yaml:"radius"`
	FontSize        int    `json:"fontSize" yaml:"font_size"`
	TextColor       string `json:"textColor" yaml:"text_color"`
	StrokeColor     string `json:"strokeColor" yaml:"stroke_color"`
	BackgroundColor string `json:"backgroundColor" yaml:"background_color"`
}

// StampRecord is the persisted ring list of one stamp asset, in the order
// the UI authored it (innermost first).
type StampRecord struct {
	Rings []StampRing `json:"rings" yaml:"rings"`
}

// TextRecord is the persisted metadata of a text signature.
type TextRecord struct {
	ID              string `json:"id,omitempty" yaml:"id,omitempty"`
	Text            string `json:"text" yaml:"text"`
	Width           int    `json:"width" yaml:"width"`
	Height          int    `json:"height" yaml:"height"`
	ImageGuid       string `json:"imageGuid,omitempty" yaml:"-"`
	EncodedImage    string `json:"encodedImage,omitempty" yaml:"-"`
	BackgroundColor string `json:"backgroundColor" yaml:"background_color"`
	FontColor       string `json:"fontColor" yaml:"font_color"`
	Font            string `json:"font" yaml:"font"`
	FontSize        int    `json:"fontSize" yaml:"font_size"`
	Bold            bool   `json:"bold" yaml:"bold"`
	Italic          bool   `json:"italic" yaml:"italic"`
	Underline       bool   `json:"underline" yaml:"underline"`
}

// Default colors of a text signature.
const (
	DefaultTextBackgroundColor = "rgb(255,255,255)"
	DefaultTextFontColor       = "rgb(0,0,0)"
)

// ApplyDefaults fills unset colors.
func (r *TextRecord) ApplyDefaults() {
	if r.BackgroundColor == "" {
		r.BackgroundColor = DefaultTextBackgroundColor
	}
	if r.FontColor == "" {
		r.FontColor = DefaultTextFontColor
	}
}

// OpticalRecord is the persisted metadata of a QR code or bar code signature.
type OpticalRecord struct {
	ID           string `json:"id,omitempty" yaml:"id,omitempty"`
	Text         string `json:"text" yaml:"text"`
	Width        int    `json:"width" yaml:"width"`
	Height       int    `json:"height" yaml:"height"`
	ImageGuid    string `json:"imageGuid,omitempty" yaml:"-"`
	EncodedImage string `json:"encodedImage,omitempty" yaml:"-"`
	Temp         bool   `json:"temp,omitempty" yaml:"-"` // Preview only, never persisted
}

// Default optical code preview size.
const (
	DefaultOpticalWidth  = 270
	DefaultOpticalHeight = 200
)
