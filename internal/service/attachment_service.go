package service

import (
	"alcyxob/hypertrophy-app/internal/domain"
	"alcyxob/hypertrophy-app/internal/repository"
	"alcyxob/hypertrophy-app/internal/storage"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid" // For generating unique identifiers for S3 keys
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrUploadNotAllowed = errors.New("uploads are only allowed for content type video/* or image/*")
	ErrUploadURLError   = errors.New("failed to generate upload URL")
	ErrUploadNotFound   = errors.New("upload not found")
)

// UploadURLResponse carries a presigned PUT URL and the object key the client
// must confirm with after uploading.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// AttachmentView is an upload record paired with a presigned download URL.
type AttachmentView struct {
	Upload      domain.Upload `json:"upload"`
	DownloadURL string        `json:"downloadUrl"`
}

// --- Service Interface ---

// AttachmentService manages form-check videos/photos attached to training day
// occurrences. Files live in S3; only metadata is persisted here.
type AttachmentService interface {
	RequestUploadURL(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID, contentType string) (*UploadURLResponse, error)
	ConfirmUpload(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID, objectKey, fileName string, size int64, contentType string) (*domain.Upload, error)
	GetOccurrenceAttachments(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID string) ([]AttachmentView, error)
}

// --- Service Implementation ---

type attachmentService struct {
	runRepo     repository.RunRepository
	uploadRepo  repository.UploadRepository
	fileStorage storage.FileStorage
}

// NewAttachmentService creates a new instance of attachmentService.
func NewAttachmentService(runRepo repository.RunRepository, uploadRepo repository.UploadRepository, fileStorage storage.FileStorage) AttachmentService {
	return &attachmentService{
		runRepo:     runRepo,
		uploadRepo:  uploadRepo,
		fileStorage: fileStorage,
	}
}

// RequestUploadURL verifies the occurrence belongs to the user's run and
// returns a presigned PUT URL for the file.
func (s *attachmentService) RequestUploadURL(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID, contentType string) (*UploadURLResponse, error) {
	// 1. Validate Inputs
	if err := s.authorizeOccurrence(ctx, userID, runID, occurrenceID); err != nil {
		return nil, err
	}
	if !allowedContentType(contentType) {
		return nil, ErrUploadNotAllowed
	}

	// 2. Generate a unique object key for S3
	uniqueID := uuid.NewString()
	fileExtension := ""
	parts := strings.Split(contentType, "/")
	if len(parts) == 2 {
		fileExtension = parts[1]
	}
	objectKey := path.Join("attachments", userID.Hex(), runID.Hex(), occurrenceID, fmt.Sprintf("%s.%s", uniqueID, fileExtension))

	// 3. Generate the pre-signed URL
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrUploadURLError
	}

	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
	}, nil
}

// ConfirmUpload creates the Upload metadata record.
// Called AFTER the athlete has successfully uploaded the file to S3 using the
// pre-signed URL.
func (s *attachmentService) ConfirmUpload(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID, objectKey, fileName string, size int64, contentType string) (*domain.Upload, error) {
	if objectKey == "" {
		return nil, errors.New("object key is required")
	}
	if err := s.authorizeOccurrence(ctx, userID, runID, occurrenceID); err != nil {
		return nil, err
	}

	upload := &domain.Upload{
		UserID:       userID,
		RunID:        runID,
		OccurrenceID: occurrenceID,
		S3ObjectKey:  objectKey,
		FileName:     fileName,
		ContentType:  contentType,
		Size:         size,
	}
	uploadID, err := s.uploadRepo.Create(ctx, upload)
	if err != nil {
		return nil, err
	}
	upload.ID = uploadID
	return upload, nil
}

// GetOccurrenceAttachments lists the occurrence's uploads with fresh
// presigned download URLs.
func (s *attachmentService) GetOccurrenceAttachments(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID string) ([]AttachmentView, error) {
	if err := s.authorizeOccurrence(ctx, userID, runID, occurrenceID); err != nil {
		return nil, err
	}

	uploads, err := s.uploadRepo.GetByOccurrenceID(ctx, runID, occurrenceID)
	if err != nil {
		return nil, err
	}

	views := make([]AttachmentView, 0, len(uploads))
	for _, upload := range uploads {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, upload.S3ObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			return nil, err
		}
		views = append(views, AttachmentView{Upload: upload, DownloadURL: url})
	}
	return views, nil
}

// authorizeOccurrence checks the run exists, belongs to the user, and
// contains the occurrence.
func (s *attachmentService) authorizeOccurrence(ctx context.Context, userID, runID primitive.ObjectID, occurrenceID string) error {
	if userID == primitive.NilObjectID || runID == primitive.NilObjectID || occurrenceID == "" {
		return errors.New("user ID, run ID, and occurrence ID are required")
	}
	run, err := s.runRepo.GetByID(ctx, runID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRunNotFound
		}
		return err
	}
	if run.UserID != userID {
		return ErrRunAccessDenied
	}
	if run.FindOccurrence(occurrenceID) == nil {
		return ErrOccurrenceNotFound
	}
	return nil
}

func allowedContentType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "image/")
}
