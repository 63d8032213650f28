package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported image format")
	ErrTooLarge          = errors.New("image exceeds maximum size")
)

// MaxFileSize in bytes (10MB)
const MaxFileSize int64 = 10 * 1024 * 1024

// Variant is one encoded rendition of an image.
type Variant struct {
	Data        []byte
	ContentType string
	Ext         string
	Width       int
	Height      int
}

// ProcessedImage contains the display-size original and its thumbnail.
type ProcessedImage struct {
	Original  Variant
	Thumbnail Variant
}

// Config for image processing
type Config struct {
	MaxWidth    int // longest edge limits for the stored original
	MaxHeight   int
	ThumbWidth  int // thumbnail is center-cropped to exactly this size
	ThumbHeight int
	AvatarSize  int
	Quality     int // JPEG quality 1-100
}

// DefaultConfig returns default processing config
func DefaultConfig() Config {
	return Config{
		MaxWidth:    2400,
		MaxHeight:   2400,
		ThumbWidth:  400,
		ThumbHeight: 300,
		AvatarSize:  400,
		Quality:     85,
	}
}

// Processor handles image processing
type Processor struct {
	config Config
}

// NewProcessor creates image processor
func NewProcessor(config Config) *Processor {
	return &Processor{config: config}
}

// Process decodes an upload, honours EXIF orientation, bounds the original to
// the configured maximum and renders a center-cropped thumbnail.
func (p *Processor) Process(reader io.Reader) (*ProcessedImage, error) {
	img, format, err := decode(reader)
	if err != nil {
		return nil, err
	}

	display := img
	b := img.Bounds()
	if b.Dx() > p.config.MaxWidth || b.Dy() > p.config.MaxHeight {
		display = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	original, err := p.encode(display, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode original: %w", err)
	}

	thumb := imaging.Fill(img, p.config.ThumbWidth, p.config.ThumbHeight, imaging.Center, imaging.Lanczos)
	thumbnail, err := p.encode(thumb, format)
	if err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}

	return &ProcessedImage{Original: *original, Thumbnail: *thumbnail}, nil
}

// Avatar renders a square avatar.
func (p *Processor) Avatar(reader io.Reader) (*Variant, error) {
	img, format, err := decode(reader)
	if err != nil {
		return nil, err
	}
	square := imaging.Fill(img, p.config.AvatarSize, p.config.AvatarSize, imaging.Center, imaging.Lanczos)
	return p.encode(square, format)
}

func decode(reader io.Reader) (image.Image, imaging.Format, error) {
	data, err := io.ReadAll(io.LimitReader(reader, MaxFileSize+1))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > MaxFileSize {
		return nil, 0, ErrTooLarge
	}

	_, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, 0, ErrUnsupportedFormat
	}
	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return nil, 0, ErrUnsupportedFormat
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// encode keeps JPEG as JPEG and writes every other format as PNG.
func (p *Processor) encode(img image.Image, source imaging.Format) (*Variant, error) {
	var buf bytes.Buffer
	v := &Variant{Width: img.Bounds().Dx(), Height: img.Bounds().Dy()}

	if source == imaging.JPEG {
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(p.config.Quality)); err != nil {
			return nil, err
		}
		v.ContentType, v.Ext = "image/jpeg", ".jpg"
	} else {
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, err
		}
		v.ContentType, v.Ext = "image/png", ".png"
	}

	v.Data = buf.Bytes()
	return v, nil
}

// ValidateType checks if the file name has an accepted image extension
func ValidateType(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif":
		return true
	default:
		return false
	}
}
