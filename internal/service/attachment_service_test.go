package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
)

var allowedTypes = []string{"application/pdf", "image/png", "image/jpeg"}

func TestUploadValidatesSizeAndType(t *testing.T) {
	files := new(MockFileStore)
	svc := NewAttachmentService(files, new(MockItemStore), &recordedAudit{}, 10, allowedTypes)
	actor := actorWith("ana@lma.com", permission.Entry)

	_, err := svc.Upload(context.Background(), actor, "nf.pdf", "application/pdf", bytes.Repeat([]byte("a"), 11))
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), actor, "nf.pdf", "application/pdf", nil)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(context.Background(), actor, "script.sh", "text/x-shellscript", []byte("ls"))
	require.ErrorIs(t, err, ErrInvalidInput)

	files.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything)
}

func TestUploadDetectsTypeFromExtension(t *testing.T) {
	files := new(MockFileStore)
	svc := NewAttachmentService(files, new(MockItemStore), &recordedAudit{}, 1024, allowedTypes)
	files.On("CreateFile", mock.Anything, mock.MatchedBy(func(f *model.StoredFile) bool {
		return f.ContentType == "application/pdf" && f.Name == "boleto.pdf" && f.Size == 3
	})).Return(nil)

	attachment, err := svc.Upload(context.Background(), actorWith("ana@lma.com", permission.Entry), "/tmp/boleto.pdf", "application/octet-stream", []byte("pdf"))
	require.NoError(t, err)
	require.Equal(t, "boleto.pdf", attachment.Name)
	_, err = uuid.Parse(attachment.FileID)
	require.NoError(t, err)
	files.AssertExpectations(t)
}

func TestResolveReportsMissingFilesIndividually(t *testing.T) {
	files := new(MockFileStore)
	items := new(MockItemStore)
	svc := NewAttachmentService(files, items, &recordedAudit{}, 1024, allowedTypes)

	present, missing := uuid.New(), uuid.New()
	itemID := uuid.New()
	items.On("GetItem", mock.Anything, itemID).Return(&model.Item{
		ID: itemID,
		InvoiceAttachments: []model.Attachment{
			{Name: "nf.pdf", FileID: present.String()},
			{Name: "nf2.pdf", FileID: missing.String()},
		},
		BoletoAttachments: []model.Attachment{{Name: "legacy.pdf", FileID: "legacy-chunk-7"}},
	}, nil)
	files.On("FileMetas", mock.Anything, []uuid.UUID{present, missing}).Return(map[uuid.UUID]model.FileMeta{
		present: {ID: present, Name: "nf.pdf", ContentType: "application/pdf"},
	}, nil)

	resolved, err := svc.Resolve(context.Background(), actorWith("ana@lma.com", permission.Entry), itemID)
	require.NoError(t, err)
	require.Len(t, resolved, 3)

	require.True(t, resolved[0].Available)
	require.Equal(t, AttachmentInvoice, resolved[0].Kind)
	require.Equal(t, "application/pdf", resolved[0].ContentType)

	require.False(t, resolved[1].Available)
	require.Equal(t, "file not found", resolved[1].Error)

	require.False(t, resolved[2].Available)
	require.Equal(t, AttachmentBoleto, resolved[2].Kind)
	require.Equal(t, "invalid file reference", resolved[2].Error)
}

func TestDownloadAudits(t *testing.T) {
	files := new(MockFileStore)
	audit := &recordedAudit{}
	svc := NewAttachmentService(files, new(MockItemStore), audit, 1024, allowedTypes)
	id := uuid.New()
	files.On("GetFile", mock.Anything, id).Return(&model.StoredFile{ID: id, Name: "nf.pdf"}, nil)
	files.On("GetFile", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

	file, err := svc.Download(context.Background(), actorWith("ana@lma.com", permission.Entry), id)
	require.NoError(t, err)
	require.Equal(t, "nf.pdf", file.Name)
	require.Equal(t, []string{model.AuditDownloadFile}, audit.actions())

	_, err = svc.Download(context.Background(), actorWith("ana@lma.com", permission.Entry), uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
}
