package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"alcyxob/annual-plan/internal/domain"
	"alcyxob/annual-plan/internal/repository"
	"alcyxob/annual-plan/internal/storage"
)

// ExportService writes a plan's calendar to object storage.
type ExportService interface {
	ExportPlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.PlanExport, error)
}

type exportService struct {
	store     repository.Store
	files     storage.FileStorage
	prefix    string
	urlExpiry time.Duration
	now       Clock
	logger    *slog.Logger
}

func NewExportService(store repository.Store, files storage.FileStorage, prefix string, urlExpiry time.Duration, now Clock, logger *slog.Logger) ExportService {
	if urlExpiry <= 0 {
		urlExpiry = storage.DefaultPresignedURLExpiry
	}
	return &exportService{store: store, files: files, prefix: prefix, urlExpiry: urlExpiry, now: now, logger: logger}
}

var exportHeader = []string{"date", "week", "day", "period", "session_type", "minutes", "intensity", "status"}

func (s *exportService) ExportPlan(ctx context.Context, actor domain.Actor, planID primitive.ObjectID) (*domain.PlanExport, error) {
	plan, err := loadPlan(ctx, s.store, actor, planID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.store.Assignments().ListByRange(ctx, planID, plan.StartDate, plan.EndDate)
	if err != nil {
		return nil, fmt.Errorf("loading assignments: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, a := range assignments {
		record := []string{
			a.AssignedDate.Format(domain.DateLayout),
			strconv.Itoa(a.WeekNumber),
			a.DayOfWeek.String(),
			string(a.Period),
			string(a.SessionType),
			strconv.Itoa(a.EstimatedDuration),
			string(a.Intensity),
			string(a.Status),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing csv: %w", err)
	}

	key := path.Join(s.prefix, plan.PlayerID.Hex(), planID.Hex(), uuid.NewString()+".csv")
	if err := s.files.PutObject(ctx, key, "text/csv", &buf); err != nil {
		return nil, err
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, s.urlExpiry)
	if err != nil {
		if derr := s.files.DeleteObject(ctx, key); derr != nil {
			s.logger.WarnContext(ctx, "could not remove unsigned export",
				slog.String("key", key), slog.Any("error", derr))
		}
		return nil, fmt.Errorf("presigning export: %w", err)
	}

	now := s.now()
	s.logger.InfoContext(ctx, "plan exported",
		slog.String("plan_id", planID.Hex()),
		slog.String("actor", actor.String()),
		slog.Int("rows", len(assignments)))
	return &domain.PlanExport{
		PlanID:      planID,
		ObjectKey:   key,
		DownloadURL: url,
		Rows:        len(assignments),
		ExpiresAt:   now.Add(s.urlExpiry),
		CreatedAt:   now,
	}, nil
}
