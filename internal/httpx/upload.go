package httpx

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	maxImageBytes   = 2 << 20
	maxMultipartMem = 8 << 20
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true}

// validImage checks extension and size of an uploaded image.
func validImage(fh *multipart.FileHeader) string {
	if !imageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return "The image field must be a file of type: jpg, jpeg, png, gif, webp."
	}
	if fh.Size > maxImageBytes {
		return "The image field must not be greater than 2048 kilobytes."
	}
	return ""
}

// saveImage menyimpan file ke {dir}/products/{uuid}{ext} dan mengembalikan
// path relatif "storage/products/..." yang disimpan di kolom image.
func saveImage(dir string, fh *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	target := filepath.Join(dir, "products")
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", target, err)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close image: %w", err)
	}
	return path.Join("storage", "products", name), nil
}

// imageFile maps the stored "storage/products/..." path back to its file on disk.
func imageFile(dir, stored string) string {
	return filepath.Join(dir, "products", path.Base(stored))
}
