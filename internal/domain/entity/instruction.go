package entity

import "image/color"

// Border is a stroked stamp line edge.
type Border struct {
	Color  color.RGBA
	Weight float64
}

// TextRepeatType controls how ring text fills the ring circumference.
type TextRepeatType int

const (
	TextRepeatNone TextRepeatType = iota
	// TextRepeatWithTruncation repeats text shorter than the circumference
	// and truncates text longer than it.
	TextRepeatWithTruncation
)

// StampBackgroundCrop selects which part of the stamp rectangle is painted
// with the stamp background.
type StampBackgroundCrop string

const (
	StampBackgroundCropNone      StampBackgroundCrop = "None"
	StampBackgroundCropOuterArea StampBackgroundCrop = "OuterArea"
)

// StampLine is one drawn element of a circular stamp: a ring for outer
// lines, the center disk for inner lines.
type StampLine struct {
	Text             string
	Height           int
	FontSize         int
	TextColor        color.RGBA
	BackgroundColor  color.RGBA
	OuterBorder      Border
	InnerBorder      Border
	TextBottomIntent int
	TextRepeatType   TextRepeatType
}

// StampLayout is the computed geometry of a stamp.
type StampLayout struct {
	OuterLines      []StampLine
	InnerLines      []StampLine
	BackgroundColor color.RGBA
	BackgroundCrop  StampBackgroundCrop
}

// DigitalOptions carries the certificate reference of a digital signature.
type DigitalOptions struct {
	CertificatePath string
	Password        string
	Reason          string
	Contact         string
	Location        string
	Comment         string
	SignedAt        string
}

// Instruction is one signature rendering instruction for the signing engine.
// Exactly one of the payload pointers matching Kind is set, except for image
// kinds which only carry PreviewPath.
type Instruction struct {
	Kind                SignatureType
	Format              DocumentFormat
	PageNumber          int
	Left                int
	Top                 int
	Width               int
	Height              int
	HorizontalAlignment string
	VerticalAlignment   string
	RotationAngle       int
	PreviewPath         string // Rendered asset burned by image based engines

	Stamp   *StampLayout
	Text    *TextRecord
	Optical *OpticalRecord
	Digital *DigitalOptions
}

// InstructionSet is the ordered list of instructions applied to one document.
type InstructionSet struct {
	Instructions []Instruction
}

// Add appends instructions preserving order.
func (s *InstructionSet) Add(instructions ...Instruction) {
	s.Instructions = append(s.Instructions, instructions...)
}

// Len returns the number of instructions.
func (s *InstructionSet) Len() int {
	return len(s.Instructions)
}

// CountByKind returns the number of instructions per signature kind.
func (s *InstructionSet) CountByKind() map[SignatureType]int {
	counts := make(map[SignatureType]int)
	for _, in := range s.Instructions {
		counts[in.Kind]++
	}
	return counts
}
