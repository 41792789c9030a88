package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/cmlabs-hris/office-attendance/internal/domain/report"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/storage"
)

const exportsDir = "exports/"

// exportPath cleans p and rejects anything outside the exports directory.
func exportPath(p string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(p, "/"))
	if !strings.HasPrefix(clean, exportsDir) || path.Ext(clean) != ".xlsx" {
		return "", fmt.Errorf("%w: %s", storage.ErrInvalidPath, p)
	}
	return clean, nil
}

// exportFilename drops the uuid prefix from a stored export name.
func exportFilename(p string) string {
	base := path.Base(p)
	if _, name, ok := strings.Cut(base, "_"); ok {
		return name
	}
	return base
}

// OpenExport implements report.ReportService.
func (s *ReportServiceImpl) OpenExport(ctx context.Context, p string) (report.ExportFile, error) {
	clean, err := exportPath(p)
	if err != nil {
		return report.ExportFile{}, err
	}

	rc, err := s.storage.Open(ctx, clean)
	if err != nil {
		return report.ExportFile{}, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return report.ExportFile{}, fmt.Errorf("failed to read export: %w", err)
	}

	return report.ExportFile{
		Filename:    exportFilename(clean),
		Path:        clean,
		ContentType: report.SpreadsheetContentType,
		Size:        int64(len(data)),
		Content:     data,
	}, nil
}

// DeleteExport implements report.ReportService.
func (s *ReportServiceImpl) DeleteExport(ctx context.Context, p string) error {
	clean, err := exportPath(p)
	if err != nil {
		return err
	}

	exists, err := s.storage.Exists(ctx, clean)
	if err != nil {
		return fmt.Errorf("failed to check export: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", storage.ErrFileNotFound, clean)
	}

	if err := s.storage.Delete(ctx, clean); err != nil {
		return err
	}

	slog.Info("Monthly report export deleted", "path", clean)
	return nil
}
