// Package qrimage renders QR tokens to PNG files on disk.
package qrimage

import qrcode "github.com/skip2/go-qrcode"

// Writer renders a scannable QR image encoding a token string.
type Writer struct {
	// Size is the image edge in pixels; zero means 256.
	Size int
}

func (w Writer) Write(content, path string) error {
	size := w.Size
	if size == 0 {
		size = 256
	}
	return qrcode.WriteFile(content, qrcode.Medium, size, path)
}
