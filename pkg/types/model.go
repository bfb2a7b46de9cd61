package types

// Kind is the conversion path chosen for an upload.
type Kind int

const (
	PdfDocument Kind = iota // default for unknown suffixes
	OfficeDocument
	RasterImage
)

func (k Kind) String() string {
	switch k {
	case OfficeDocument:
		return "office"
	case RasterImage:
		return "image"
	default:
		return "pdf"
	}
}

// UploadItem is one uploaded file. It is not modified after ingress.
type UploadItem struct {
	Filename string
	Data     []byte
}
