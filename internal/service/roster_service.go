package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"ta-chatbot-be/internal/dto"
	"ta-chatbot-be/internal/entity"
	"ta-chatbot-be/internal/pkg/logger"
	"ta-chatbot-be/internal/repository/unitofwork"
	"ta-chatbot-be/pkg/events"
)

var ErrRosterMissingColumns = errors.New("roster is missing required columns")

type IRosterService interface {
	// ImportCSV ingests an Avenue classlist export. Bad rows are skipped and
	// reported; they never abort the remaining rows.
	ImportCSV(ctx context.Context, r io.Reader) (*dto.RosterImportResult, error)
	UpsertUser(ctx context.Context, request *dto.UpsertUserRequest) error
	DeleteUser(ctx context.Context, username string) error
	ListUsers(ctx context.Context) ([]*entity.User, error)
}

type rosterService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  EventPublisher
	log        logger.ILogger
}

func NewRosterService(
	uowFactory unitofwork.RepositoryFactory,
	publisher EventPublisher,
	log logger.ILogger,
) IRosterService {
	return &rosterService{
		uowFactory: uowFactory,
		publisher:  publisher,
		log:        log,
	}
}

// Classlist exports name their columns like this. "Email" and the trailing
// "End-of-Line Indicator" column are present in the export but never stored.
const (
	colOrgDefinedID = "OrgDefinedId"
	colUsername     = "Username"
	colLastName     = "Last Name"
	colFirstName    = "First Name"
)

func (s *rosterService) ImportCSV(ctx context.Context, r io.Reader) (*dto.RosterImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read roster header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{colOrgDefinedID, colUsername, colLastName, colFirstName} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrRosterMissingColumns, required)
		}
	}

	result := &dto.RosterImportResult{}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.UserRepository()

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		user, err := parseRosterRow(record, cols)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			s.log.Warn("RosterService", "skipped roster row", map[string]interface{}{
				"line":  line,
				"error": err.Error(),
			})
			continue
		}

		if err := repo.Upsert(ctx, user); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			s.log.Warn("RosterService", "failed to upsert roster row", map[string]interface{}{
				"line":     line,
				"username": user.Username,
				"error":    err.Error(),
			})
			continue
		}
		result.Imported++
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.BaseEvent{
			Type: events.TypeRosterImported,
			Data: map[string]interface{}{
				"imported": result.Imported,
				"skipped":  result.Skipped,
			},
			OccurredAt: time.Now(),
		}); err != nil {
			s.log.Warn("RosterService", "failed to publish roster event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	s.log.Info("RosterService", "roster import finished", map[string]interface{}{
		"imported": result.Imported,
		"skipped":  result.Skipped,
	})
	return result, nil
}

// parseRosterRow normalizes one export row: the student number loses its
// leading '#' and must parse as an integer, the username is lowercased.
func parseRosterRow(record []string, cols map[string]int) (*entity.User, error) {
	field := func(name string) string {
		idx := cols[name]
		if idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	username := strings.ToLower(field(colUsername))
	if username == "" {
		return nil, errors.New("empty username")
	}

	rawNumber := strings.TrimPrefix(field(colOrgDefinedID), "#")
	studentNumber, err := strconv.Atoi(rawNumber)
	if err != nil {
		return nil, fmt.Errorf("invalid student number %q", rawNumber)
	}

	return &entity.User{
		Username:      username,
		StudentNumber: studentNumber,
		FirstName:     field(colFirstName),
		LastName:      field(colLastName),
		Role:          entity.UserRoleViewer,
	}, nil
}

func (s *rosterService) UpsertUser(ctx context.Context, request *dto.UpsertUserRequest) error {
	role := entity.UserRole(request.Role)
	if role == "" {
		role = entity.UserRoleViewer
	}
	if role != entity.UserRoleViewer && role != entity.UserRoleAdmin {
		return fmt.Errorf("unknown role %q", request.Role)
	}

	username := strings.ToLower(strings.TrimSpace(request.Username))
	if username == "" {
		return errors.New("username must not be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().Upsert(ctx, &entity.User{
		Username:      username,
		StudentNumber: request.StudentNumber,
		FirstName:     request.FirstName,
		LastName:      request.LastName,
		Role:          role,
	})
}

func (s *rosterService) DeleteUser(ctx context.Context, username string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().Delete(ctx, strings.ToLower(strings.TrimSpace(username)))
}

func (s *rosterService) ListUsers(ctx context.Context) ([]*entity.User, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.UserRepository().FindAll(ctx)
}
