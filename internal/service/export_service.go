package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shipstore/lma-finance/internal/model"
	"github.com/shipstore/lma-finance/internal/permission"
	"github.com/shipstore/lma-finance/internal/view"
)

type SpreadsheetGenerator interface {
	Generate(list view.LaunchedList, generatedAt time.Time) ([]byte, error)
}

type StatementGenerator interface {
	Generate(board view.FinanceBoard, generatedAt time.Time) ([]byte, error)
}

type SnapshotSource interface {
	ListItems(ctx context.Context) ([]model.ItemWithFDA, error)
}

type ExportService struct {
	items SnapshotSource
	excel SpreadsheetGenerator
	pdf   StatementGenerator
	now   func() time.Time
}

type ExportResult struct {
	FileName string
	Content  []byte
}

func NewExportService(items SnapshotSource, excel SpreadsheetGenerator, pdf StatementGenerator) *ExportService {
	return &ExportService{
		items: items,
		excel: excel,
		pdf:   pdf,
		now:   time.Now,
	}
}

// LaunchedSpreadsheet exports the launched list exactly as it is shown for q.
func (s *ExportService) LaunchedSpreadsheet(ctx context.Context, actor Actor, q view.LaunchedQuery) (*ExportResult, error) {
	if err := actor.require(permission.Launched); err != nil {
		return nil, err
	}
	snapshot, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	list := view.BuildLaunchedList(snapshot, actor.Caps, q)
	if len(list.Tabs) == 0 {
		return nil, fmt.Errorf("%w: no launched tab granted", ErrPermissionDenied)
	}

	now := s.now()
	content, err := s.excel.Generate(list, now)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName("lancados", string(list.ActiveTab), now, "xlsx"),
		Content:  content,
	}, nil
}

// FinanceStatement renders the active finance tab for q as a PDF.
func (s *ExportService) FinanceStatement(ctx context.Context, actor Actor, q view.FinanceQuery) (*ExportResult, error) {
	if err := actor.require(permission.Finance); err != nil {
		return nil, err
	}
	snapshot, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	board := view.BuildFinanceBoard(snapshot, actor.Caps, q)
	if len(board.Tabs) == 0 {
		return nil, fmt.Errorf("%w: no finance tab granted", ErrPermissionDenied)
	}

	now := s.now()
	content, err := s.pdf.Generate(board, now)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: buildFileName("financeiro", string(board.ActiveTab), now, "pdf"),
		Content:  content,
	}, nil
}

func buildFileName(prefix, scope string, at time.Time, ext string) string {
	scope = sanitizeFileName(strings.ToLower(scope))
	return fmt.Sprintf("%s-%s-%s.%s", prefix, scope, at.Format("20060102"), ext)
}

func sanitizeFileName(input string) string {
	result := make([]rune, 0, len(input))
	for _, r := range input {
		switch {
		case r >= 'a' && r <= 'z':
			result = append(result, r)
		case r >= 'A' && r <= 'Z':
			result = append(result, r)
		case r >= '0' && r <= '9':
			result = append(result, r)
		case r == '-', r == '_':
			result = append(result, r)
		default:
			result = append(result, '-')
		}
	}
	return strings.Trim(string(result), "-")
}
