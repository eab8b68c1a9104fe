package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

type FileStore interface {
	CreateFile(ctx context.Context, file *model.StoredFile) error
	GetFile(ctx context.Context, id uuid.UUID) (*model.StoredFile, error)
	FileMetas(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.FileMeta, error)
}

type ItemGetter interface {
	GetItem(ctx context.Context, id uuid.UUID) (*model.Item, error)
}

const (
	AttachmentInvoice = "invoice"
	AttachmentBoleto  = "boleto"
)

// ResolvedAttachment is one attachment of an item checked against the file
// store. A missing file is reported here instead of failing the listing.
type ResolvedAttachment struct {
	Kind        string           `json:"kind"`
	Attachment  model.Attachment `json:"attachment"`
	Available   bool             `json:"available"`
	ContentType string           `json:"content_type,omitempty"`
	Error       string           `json:"error,omitempty"`
}

type AttachmentService struct {
	files   FileStore
	items   ItemGetter
	audit   AuditRecorder
	maxSize int64
	allowed map[string]struct{}
	now     func() time.Time
}

func NewAttachmentService(files FileStore, items ItemGetter, audit AuditRecorder, maxSize int64, allowedTypes []string) *AttachmentService {
	allowed := make(map[string]struct{}, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = struct{}{}
	}
	return &AttachmentService{
		files:   files,
		items:   items,
		audit:   audit,
		maxSize: maxSize,
		allowed: allowed,
		now:     time.Now,
	}
}

// Upload stores a file and returns the attachment reference to put on an item.
func (s *AttachmentService) Upload(ctx context.Context, actor Actor, name, contentType string, content []byte) (*model.Attachment, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if int64(len(content)) > s.maxSize {
		return nil, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, s.maxSize)
	}

	contentType = s.detectType(name, contentType)
	if _, ok := s.allowed[contentType]; !ok {
		return nil, fmt.Errorf("%w: file type %q is not allowed", ErrInvalidInput, contentType)
	}

	now := s.now().UTC()
	file := &model.StoredFile{
		ID:          uuid.New(),
		Name:        name,
		Size:        int64(len(content)),
		ContentType: contentType,
		Content:     content,
		CreatedAt:   now,
	}
	if err := s.files.CreateFile(ctx, file); err != nil {
		return nil, saveFailed(err)
	}
	return &model.Attachment{
		Name:       file.Name,
		Size:       file.Size,
		FileID:     file.ID.String(),
		UploadedAt: now,
	}, nil
}

func (s *AttachmentService) Download(ctx context.Context, actor Actor, id uuid.UUID) (*model.StoredFile, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	file, err := s.files.GetFile(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	s.audit.Record(ctx, actor.Principal.Email, model.AuditDownloadFile, file.Name)
	return file, nil
}

// Resolve lists the invoice and boleto attachments of an item with the
// availability of each file.
func (s *AttachmentService) Resolve(ctx context.Context, actor Actor, itemID uuid.UUID) ([]ResolvedAttachment, error) {
	if err := actor.require(permission.Entry); err != nil {
		return nil, err
	}
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	resolved := make([]ResolvedAttachment, 0, len(item.InvoiceAttachments)+len(item.BoletoAttachments))
	for _, a := range item.InvoiceAttachments {
		resolved = append(resolved, ResolvedAttachment{Kind: AttachmentInvoice, Attachment: a})
	}
	for _, a := range item.BoletoAttachments {
		resolved = append(resolved, ResolvedAttachment{Kind: AttachmentBoleto, Attachment: a})
	}

	ids := make([]uuid.UUID, 0, len(resolved))
	for i := range resolved {
		id, err := uuid.Parse(resolved[i].Attachment.FileID)
		if err != nil {
			resolved[i].Error = "invalid file reference"
			continue
		}
		ids = append(ids, id)
	}
	metas, err := s.files.FileMetas(ctx, ids)
	if err != nil {
		return nil, err
	}

	for i := range resolved {
		if resolved[i].Error != "" {
			continue
		}
		id := uuid.MustParse(resolved[i].Attachment.FileID)
		meta, ok := metas[id]
		if !ok {
			resolved[i].Error = "file not found"
			continue
		}
		resolved[i].Available = true
		resolved[i].ContentType = meta.ContentType
	}
	return resolved, nil
}

func (s *AttachmentService) detectType(name, declared string) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if parsed, _, err := mime.ParseMediaType(declared); err == nil {
		declared = parsed
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		if parsed, _, err := mime.ParseMediaType(byExt); err == nil {
			return parsed
		}
	}
	return declared
}
