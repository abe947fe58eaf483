package upload

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"imagencali/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	_ "image/png"
)

const jpegQuality = 85

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Result describes a stored image.
type Result struct {
	Key         string `json:"key"`
	Size        int    `json:"size"`
	ContentType string `json:"contentType"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

type Service struct {
	store        storage.ObjectStore
	maxBytes     int64
	maxDimension int
	optimizedMax int
	encode       func(w io.Writer, img image.Image) error
}

func NewService(store storage.ObjectStore, maxBytes int64, maxDimension, optimizedMax int) *Service {
	return &Service{
		store:        store,
		maxBytes:     maxBytes,
		maxDimension: maxDimension,
		optimizedMax: optimizedMax,
		encode: func(w io.Writer, img image.Image) error {
			return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
		},
	}
}

// Upload validates the image, downscales anything wider or taller than
// the optimized bound, and writes the result to the bucket under a
// collision-free key carrying the generation metadata.
func (s *Service) Upload(ctx context.Context, userID int64, data []byte, prompt, style string) (*Result, error) {
	if int64(len(data)) > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	// Sniff the real content type rather than trusting the client header.
	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, ErrUnsupportedType
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > s.maxDimension || height > s.maxDimension {
		return nil, ErrImageTooLarge
	}

	body := data
	if width > s.optimizedMax || height > s.optimizedMax {
		// Optimization failure is not fatal: store the original bytes.
		resized, w, h, err := s.downscale(img, width, height)
		if err != nil {
			log.Printf("image optimization failed, storing original: %v", err)
		} else {
			body, width, height = resized, w, h
			contentType = "image/jpeg"
			ext = ".jpg"
		}
	}

	key := objectKey(ext)
	metadata := map[string]string{
		"userId":     strconv.FormatInt(userID, 10),
		"prompt":     sanitizeMetadata(prompt),
		"style":      sanitizeMetadata(style),
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"dimensions": fmt.Sprintf("%dx%d", width, height),
	}
	if err := s.store.Put(ctx, key, bytes.NewReader(body), contentType, metadata); err != nil {
		return nil, err
	}

	return &Result{
		Key:         key,
		Size:        len(body),
		ContentType: contentType,
		Width:       width,
		Height:      height,
	}, nil
}

// downscale fits the image inside the optimized bound, preserving aspect
// ratio, and re-encodes as JPEG.
func (s *Service) downscale(img image.Image, width, height int) ([]byte, int, int, error) {
	scale := float64(s.optimizedMax) / float64(width)
	if height > width {
		scale = float64(s.optimizedMax) / float64(height)
	}
	newW := int(float64(width) * scale)
	newH := int(float64(height) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := s.encode(&buf, dst); err != nil {
		return nil, 0, 0, err
	}
	return buf.Bytes(), newW, newH, nil
}

func objectKey(ext string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("fg-%d-%s%s", time.Now().UnixMilli(), id, ext)
}

// sanitizeMetadata keeps header values within what the storage API
// accepts: single line, bounded length. Truncation backs up to a rune
// boundary so a multi-byte prompt never leaves an invalid tail.
func sanitizeMetadata(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if len(v) > 256 {
		cut := 256
		for cut > 0 && !utf8.RuneStart(v[cut]) {
			cut--
		}
		v = v[:cut]
	}
	return v
}
