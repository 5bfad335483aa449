package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/swasthsathi/telehealth-service/internal/auth"
	"github.com/swasthsathi/telehealth-service/internal/models"
	"github.com/swasthsathi/telehealth-service/internal/repositories"
)

type reportService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	dashboard DashboardService
}

func NewReportService(repo repositories.Repository, logger *slog.Logger, dashboard DashboardService) ReportService {
	return &reportService{
		repo:      repo,
		logger:    logger,
		dashboard: dashboard,
	}
}

func (s *reportService) HouseholdRegister(ctx context.Context, identity auth.Identity) ([]byte, error) {
	households, _, err := s.repo.Household().ListByWorker(ctx, nil, identity.UserID, repositories.HouseholdFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load households: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Households"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Household Name", "Address", "Members", "Verified", "Registered At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, h := range households {
		values := []interface{}{
			h.ID,
			h.Name,
			h.Address,
			h.MembersCount,
			h.IsVerified,
			h.CreatedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render household register: %w", err)
	}

	s.logger.Info("Household register exported", "asha_id", identity.UserID, "rows", len(households))
	return buf.Bytes(), nil
}

func (s *reportService) MCHRegister(ctx context.Context, identity auth.Identity) ([]byte, error) {
	records, _, err := s.repo.MCH().ListByWorker(ctx, nil, identity.UserID, repositories.MCHFilters{})
	if err != nil {
		return nil, fmt.Errorf("failed to load mch records: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "MCH Records"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Patient ID", "Record Type", "Details", "Record Date"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for row, r := range records {
		values := []interface{}{
			r.ID,
			r.PatientID,
			r.RecordType,
			r.RecordDetails,
			r.RecordDate.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render mch register: %w", err)
	}

	s.logger.Info("MCH register exported", "asha_id", identity.UserID, "rows", len(records))
	return buf.Bytes(), nil
}

func (s *reportService) AdminOverview(ctx context.Context) ([]byte, error) {
	stats, err := s.dashboard.GetAdminStats(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Overview"
	f.SetSheetName("Sheet1", sheet)

	f.SetCellValue(sheet, "A1", "Metric")
	f.SetCellValue(sheet, "B1", "Count")

	row := 2
	writeRow := func(metric string, count int64) {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), metric)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), count)
		row++
	}

	for _, role := range models.AllRoles {
		writeRow("Users: "+role.DisplayName(), stats.UsersByRole[role])
	}
	for _, status := range []models.ConsultationStatus{models.StatusPending, models.StatusUnderReview, models.StatusReviewed} {
		writeRow("Consultations: "+string(status), stats.ConsultationsByStatus[status])
	}
	writeRow("Households", stats.TotalHouseholds)
	writeRow("Verified Households", stats.VerifiedHouseholds)
	writeRow("MCH Records", stats.TotalMCHRecords)
	writeRow("Chat Threads", stats.TotalChatThreads)
	writeRow("Chat Messages", stats.TotalChatMessages)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render admin overview: %w", err)
	}
	return buf.Bytes(), nil
}
