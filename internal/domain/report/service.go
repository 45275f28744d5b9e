package report

import (
	"context"
	"io"
)

type ReportService interface {
	// Personnel session transitions
	StartWork(ctx context.Context, deviceID string, req StartWorkRequest) (Report, error)
	EndWork(ctx context.Context, deviceID string, req EndWorkRequest) (Report, error)
	StartOvertime(ctx context.Context, deviceID string, req StartOvertimeRequest) (Report, error)
	EndOvertime(ctx context.Context, deviceID string, req EndOvertimeRequest) (Report, error)
	SaveOvertime(ctx context.Context, deviceID string, req SaveOvertimeRequest) (Report, error)
	SaveManualEntry(ctx context.Context, deviceID string, req ManualEntryRequest) (ManualEntryResult, error)

	// Personnel reads
	GetToday(ctx context.Context, deviceID string) (TodayResponse, error)
	ListOpenBacklog(ctx context.Context, deviceID string) ([]Report, error)
	ListMine(ctx context.Context, deviceID string, filter ReportFilter) (ListReportResponse, error)

	// Admin
	List(ctx context.Context, filter ReportFilter) (ListReportResponse, error)
	GetByID(ctx context.Context, id string) (Report, error)
	AdminUpdate(ctx context.Context, id string, req AdminUpdateReportRequest) (Report, error)
	Delete(ctx context.Context, id string) error
	DeleteSelected(ctx context.Context, ids []string) (int64, error)
	ExportCSV(ctx context.Context, filter ReportFilter, w io.Writer) error
	ExportXLSX(ctx context.Context, filter ReportFilter, w io.Writer) error
}
