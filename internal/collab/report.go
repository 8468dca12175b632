package collab

import (
	"context"

	"go.uber.org/zap"

	"github.com/codingships/honestSpanish-sub001/internal/model"
)

// ReportPublisher receives the structured post-class report attached when a
// session is completed. Publishing is a side effect; failures must never
// block completion.
type ReportPublisher interface {
	PublishReport(ctx context.Context, sessionID int64, report model.ClassReport) error
}

// ConsoleReportPublisher logs reports instead of delivering them anywhere.
type ConsoleReportPublisher struct {
	logger *zap.Logger
}

func NewConsoleReportPublisher(logger *zap.Logger) *ConsoleReportPublisher {
	return &ConsoleReportPublisher{logger: logger}
}

func (p *ConsoleReportPublisher) PublishReport(_ context.Context, sessionID int64, report model.ClassReport) error {
	p.logger.Info("Class report published",
		zap.Int64("session_id", sessionID),
		zap.Int("rating", report.Rating),
		zap.Any("skill_levels", report.SkillLevels),
		zap.String("comments", report.Comments),
	)
	return nil
}
