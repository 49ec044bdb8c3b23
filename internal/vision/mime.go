package vision

// DetectImageMIMEType detects the MIME type of an image from its magic bytes.
// Unknown formats fall back to JPEG, the common case for meter photos.
func DetectImageMIMEType(data []byte) string {
	if len(data) < 4 {
		return "image/jpeg"
	}

	switch {
	// PNG: 89 50 4E 47
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return "image/png"
	// JPEG: FF D8 FF
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return "image/jpeg"
	// GIF: 47 49 46 38
	case data[0] == 0x47 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x38:
		return "image/gif"
	// WebP: RIFF....WEBP
	case data[0] == 0x52 && data[1] == 0x49 && data[2] == 0x46 && data[3] == 0x46 &&
		len(data) > 11 && data[8] == 0x57 && data[9] == 0x45 && data[10] == 0x42 && data[11] == 0x50:
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
