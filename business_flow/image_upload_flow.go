package businessflow

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/services"
	"github.com/amirphl/desa-ngasem/utils"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
	"go.uber.org/zap"
)

const (
	defaultUploadFolder = "images"
	resizedJPEGQuality  = 85
)

var (
	allowedImageExtensions = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".webp": true,
	}
	allowedImageContentTypes = map[string]bool{
		"image/jpeg": true,
		"image/png":  true,
		"image/gif":  true,
		"image/webp": true,
	}
	uploadFolderPattern = regexp.MustCompile(`^[a-z0-9_-]+(/[a-z0-9_-]+)*$`)
)

// UploadImageRequest is one uploaded file. Size is the client-declared size, checked before reading.
type UploadImageRequest struct {
	Folder   string
	Filename string
	Size     int64
	Content  io.Reader
}

// ImageUploadFlow stores images for use in records (news images, facility galleries, photos)
type ImageUploadFlow interface {
	UploadImage(ctx context.Context, req *UploadImageRequest) (*dto.UploadImageResponse, error)
}

type ImageUploadFlowImpl struct {
	storage   services.ObjectStorage
	maxBytes  int64
	maxWidth  int
	maxPixels int64
	now       func() time.Time
	logger    *zap.Logger
}

// NewImageUploadFlow creates the upload flow. maxPixels bounds width*height before any pixel is decoded.
func NewImageUploadFlow(storage services.ObjectStorage, maxBytes int64, maxWidth int, maxPixels int64, logger *zap.Logger) ImageUploadFlow {
	if maxBytes <= 0 {
		maxBytes = utils.MaxUploadBytes
	}
	if maxWidth <= 0 {
		maxWidth = utils.MaxImageWidth
	}
	if maxPixels <= 0 {
		maxPixels = utils.MaxImagePixels
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImageUploadFlowImpl{
		storage:   storage,
		maxBytes:  maxBytes,
		maxWidth:  maxWidth,
		maxPixels: maxPixels,
		now:       utils.UTCNow,
		logger:    logger,
	}
}

func (f *ImageUploadFlowImpl) UploadImage(ctx context.Context, req *UploadImageRequest) (*dto.UploadImageResponse, error) {
	if req == nil || req.Content == nil {
		return nil, uploadError("FILE_REQUIRED", "", ErrFileRequired)
	}

	folder := strings.Trim(strings.ToLower(strings.TrimSpace(req.Folder)), "/")
	if folder == "" {
		folder = defaultUploadFolder
	}
	if !uploadFolderPattern.MatchString(folder) {
		return nil, uploadError("INVALID_FOLDER", "", services.ErrInvalidObjectPath)
	}

	ext := strings.ToLower(filepath.Ext(req.Filename))
	if !allowedImageExtensions[ext] {
		return nil, uploadError("INVALID_FILE_TYPE", "", ErrInvalidFileType)
	}
	if req.Size > f.maxBytes {
		return nil, uploadError("FILE_TOO_LARGE", "", ErrFileTooLarge)
	}

	data, err := io.ReadAll(io.LimitReader(req.Content, f.maxBytes+1))
	if err != nil {
		return nil, uploadError("UPLOAD_READ_FAILED", "", err)
	}
	if len(data) == 0 {
		return nil, uploadError("FILE_REQUIRED", "", ErrFileRequired)
	}
	if int64(len(data)) > f.maxBytes {
		return nil, uploadError("FILE_TOO_LARGE", "", ErrFileTooLarge)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageContentTypes[contentType] {
		return nil, uploadError("INVALID_FILE_TYPE", "", ErrInvalidFileType)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, uploadError("INVALID_IMAGE", "", ErrInvalidImage)
	}
	// A small compressed file can declare a huge canvas; refuse it before decoding pixels
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > f.maxPixels {
		f.logger.Warn("image dimensions rejected", zap.Int("width", cfg.Width), zap.Int("height", cfg.Height))
		return nil, uploadError("INVALID_IMAGE", "", ErrInvalidImage)
	}

	width, height := cfg.Width, cfg.Height
	if width > f.maxWidth {
		resized, h, err := f.downscale(data, cfg)
		if err != nil {
			return nil, uploadError("INVALID_IMAGE", "", ErrInvalidImage)
		}
		data = resized
		width, height = f.maxWidth, h
		ext = ".jpg"
		contentType = "image/jpeg"
	}

	objectPath := path.Join(folder, utils.DatePath(f.now()), uuid.NewString()+ext)
	if err := f.storage.Upload(ctx, objectPath, bytes.NewReader(data)); err != nil {
		f.logger.Error("failed to store image", zap.String("path", objectPath), zap.Error(err))
		return nil, uploadError("UPLOAD_FAILED", objectPath, err)
	}

	f.logger.Info("image uploaded",
		zap.String("path", objectPath),
		zap.Int("size", len(data)),
		zap.Int("width", width),
		zap.Int("height", height))

	return &dto.UploadImageResponse{
		Path:        objectPath,
		URL:         f.storage.PublicURL(objectPath),
		ContentType: contentType,
		Size:        int64(len(data)),
		Width:       width,
		Height:      height,
	}, nil
}

// downscale re-encodes the image as JPEG at maxWidth, keeping the aspect ratio
func (f *ImageUploadFlowImpl) downscale(data []byte, cfg image.Config) ([]byte, int, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, err
	}

	height := cfg.Height * f.maxWidth / cfg.Width
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, f.maxWidth, height))
	// JPEG has no alpha; transparent pixels become white
	xdraw.Draw(dst, dst.Bounds(), image.White, image.Point{}, xdraw.Src)
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: resizedJPEGQuality}); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), height, nil
}

func uploadError(code, objectPath string, err error) error {
	return NewBusinessError(code, "Image upload failed", &UploadError{Path: objectPath, Err: err})
}

// IsUploadRejected reports whether an upload failed because of the file itself rather than storage
func IsUploadRejected(err error) bool {
	if !IsUploadError(err) {
		return false
	}
	for _, target := range []error{ErrFileRequired, ErrInvalidFileType, ErrFileTooLarge, ErrInvalidImage, services.ErrInvalidObjectPath} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
