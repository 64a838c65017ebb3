package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/parser"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

type ImportService struct {
	taskRepo repo.ImportTaskRepository
	drafts   repo.DraftRepository
	parser   *parser.GoogleSheetsParser
	broker   queue.Broker
	logger   *zap.SugaredLogger
}

func NewImportService(
	taskRepo repo.ImportTaskRepository,
	drafts repo.DraftRepository,
	parser *parser.GoogleSheetsParser,
	broker queue.Broker,
	logger *zap.SugaredLogger,
) *ImportService {
	return &ImportService{
		taskRepo: taskRepo,
		drafts:   drafts,
		parser:   parser,
		broker:   broker,
		logger:   logger,
	}
}

func (s *ImportService) CreateImportTask(ctx context.Context, spreadsheetID, businessID string) (primitive.ObjectID, error) {
	if s.parser == nil {
		return primitive.NilObjectID, fmt.Errorf("spreadsheet import is not configured")
	}

	task := &domain.ImportTask{
		Status:        domain.StatusQueued,
		SpreadsheetID: spreadsheetID,
		BusinessID:    businessID,
		RetryCount:    0,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to create import task: %w", err)
	}

	message := domain.MenuImportMessage{
		TaskID:        task.ID.Hex(),
		SpreadsheetID: spreadsheetID,
		BusinessID:    businessID,
	}

	messageBytes, err := json.Marshal(message)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := s.broker.Publish(ctx, queue.QueueMenuImport, messageBytes); err != nil {
		_ = s.taskRepo.UpdateStatus(ctx, task.ID, domain.StatusFailed, err.Error())
		return primitive.NilObjectID, fmt.Errorf("failed to publish message: %w", err)
	}

	s.logger.Infow("import task created", "task_id", task.ID.Hex(), "spreadsheet_id", spreadsheetID)

	return task.ID, nil
}

func (s *ImportService) GetTaskStatus(ctx context.Context, taskID primitive.ObjectID) (*domain.ImportTask, error) {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import task: %w", err)
	}

	return task, nil
}

func (s *ImportService) ProcessImportTask(ctx context.Context, taskID primitive.ObjectID) error {
	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to get task: %w", err)
	}

	if err := s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}

	s.logger.Infow("processing import task", "task_id", taskID.Hex())

	if s.parser == nil {
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, "spreadsheet import is not configured")
		return fmt.Errorf("spreadsheet import is not configured")
	}

	result, err := s.parser.ParseMenu(ctx, task.SpreadsheetID, task.BusinessID)
	if err != nil {
		s.logger.Errorw("failed to parse spreadsheet", "task_id", taskID.Hex(), "error", err)
		_ = s.taskRepo.IncrementRetryCount(ctx, taskID)
		_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
		return fmt.Errorf("failed to parse spreadsheet: %w", err)
	}

	for i := range result.Items {
		if err := s.drafts.Upsert(ctx, &result.Items[i]); err != nil {
			s.logger.Errorw("failed to store draft", "task_id", taskID.Hex(),
				"item", result.Items[i].Name, "error", err)
			_ = s.taskRepo.IncrementRetryCount(ctx, taskID)
			_ = s.taskRepo.UpdateStatus(ctx, taskID, domain.StatusFailed, err.Error())
			return fmt.Errorf("failed to store draft: %w", err)
		}
	}

	if err := s.taskRepo.CompleteWithReport(ctx, taskID, len(result.Items), result.Skipped, result.Warnings); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	s.logger.Infow("import task completed", "task_id", taskID.Hex(),
		"items", len(result.Items), "skipped", len(result.Skipped), "warnings", len(result.Warnings))

	return nil
}
