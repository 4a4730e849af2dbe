package service

// Service manager registration
const (
	ServiceName        = "EsignComposer"
	ServiceDisplayName = "E-Sign Composer"
	ServiceDescription = "Places image, text, stamp, optical code and digital signatures on documents"
)
