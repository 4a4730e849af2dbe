// Package signer converts signature placements into engine instructions.
//
// A Signer is a closed variant over the supported signature kinds. Values are
// built with one constructor per kind and turned into an instruction by
// ToInstruction, which is the only place format support is decided.
package signer

import (
	"esign-composer/internal/domain/entity"
	"esign-composer/internal/domain/stamp"
)

// Signer is one placement bound to the payload its kind needs.
type Signer struct {
	kind      entity.SignatureType
	placement entity.SignaturePlacement

	stamp   *entity.StampLayout
	text    *entity.TextRecord
	optical *entity.OpticalRecord
	digital *entity.DigitalOptions
}

// Kind returns the signature kind of s.
func (s Signer) Kind() entity.SignatureType {
	return s.kind
}

// Placement returns the placement s was built from.
func (s Signer) Placement() entity.SignaturePlacement {
	return s.placement
}

// NewImage builds a signer for an image or hand drawn signature. The asset
// file is the placement's signature guid.
func NewImage(p entity.SignaturePlacement) Signer {
	kind := p.SignatureType
	if kind != entity.SignatureTypeHand {
		kind = entity.SignatureTypeImage
	}
	return Signer{kind: kind, placement: p}
}

// NewText builds a signer for a text signature described by record.
func NewText(p entity.SignaturePlacement, record entity.TextRecord) Signer {
	record.ApplyDefaults()
	return Signer{kind: entity.SignatureTypeText, placement: p, text: &record}
}

// NewStamp builds a signer for a stamp whose rings are ordered outermost
// first. The ring geometry is computed for the placement's image height.
func NewStamp(p entity.SignaturePlacement, rings []entity.StampRing) (Signer, error) {
	layout, err := stamp.Layout(rings, p.ImageHeight)
	if err != nil {
		return Signer{}, err
	}
	return Signer{kind: entity.SignatureTypeStamp, placement: p, stamp: layout}, nil
}

// NewOptical builds a signer for a QR code or bar code.
func NewOptical(p entity.SignaturePlacement, record entity.OpticalRecord) Signer {
	kind := entity.SignatureTypeQRCode
	if p.SignatureType == entity.SignatureTypeBarCode {
		kind = entity.SignatureTypeBarCode
	}
	return Signer{kind: kind, placement: p, optical: &record}
}

// NewDigital builds a signer for a certificate based signature. The
// certificate file is the placement's signature guid.
func NewDigital(p entity.SignaturePlacement) Signer {
	return Signer{
		kind:      entity.SignatureTypeDigital,
		placement: p,
		digital: &entity.DigitalOptions{
			CertificatePath: p.SignatureGuid,
			Password:        p.SignaturePassword,
			Reason:          p.Reason,
			Contact:         p.Contact,
			Location:        p.Address,
			Comment:         p.SignatureComment,
			SignedAt:        p.Date,
		},
	}
}

var (
	visualFormats = map[entity.DocumentFormat]bool{
		entity.DocumentFormatPDF:        true,
		entity.DocumentFormatWord:       true,
		entity.DocumentFormatPowerPoint: true,
		entity.DocumentFormatExcel:      true,
		entity.DocumentFormatImage:      true,
	}
	digitalFormats = map[entity.DocumentFormat]bool{
		entity.DocumentFormatPDF:   true,
		entity.DocumentFormatWord:  true,
		entity.DocumentFormatExcel: true,
	}
)

// Supports reports whether signatures of kind can be applied to documents of
// format.
func Supports(kind entity.SignatureType, format entity.DocumentFormat) bool {
	if kind == entity.SignatureTypeDigital {
		return digitalFormats[format]
	}
	return visualFormats[format]
}

// ToInstruction converts s into an engine instruction for a document of the
// given format.
func ToInstruction(s Signer, format entity.DocumentFormat) (entity.Instruction, error) {
	if !s.kind.Valid() {
		return entity.Instruction{}, entity.UnsupportedSignatureTypeError(s.kind)
	}
	if !Supports(s.kind, format) {
		return entity.Instruction{}, entity.UnsupportedFormatError(s.kind, format)
	}

	p := s.placement
	in := entity.Instruction{
		Kind:                s.kind,
		Format:              format,
		PageNumber:          p.PageNumber,
		Left:                p.Left,
		Top:                 p.Top,
		Width:               p.ImageWidth,
		Height:              p.ImageHeight,
		HorizontalAlignment: p.HorizontalAlignment,
		VerticalAlignment:   p.VerticalAlignment,
		RotationAngle:       p.Angle,
	}

	switch s.kind {
	case entity.SignatureTypeDigital:
		in.Digital = s.digital
	case entity.SignatureTypeStamp:
		in.PreviewPath = p.SignatureGuid
		in.Stamp = s.stamp
	case entity.SignatureTypeText:
		in.PreviewPath = p.SignatureGuid
		in.Text = s.text
	case entity.SignatureTypeQRCode, entity.SignatureTypeBarCode:
		in.PreviewPath = p.SignatureGuid
		in.Optical = s.optical
	default:
		in.PreviewPath = p.SignatureGuid
	}

	return in, nil
}
