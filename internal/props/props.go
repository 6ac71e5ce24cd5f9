package props

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuatilia.org/internal/auth"
)

// Config is a named runtime setting editable by administrators.
type Config struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Value       string    `json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedBy   string    `json:"updated_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FAQ is a public question and answer entry.
type FAQ struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store describes config and FAQ persistence.
type Store interface {
	CreateConfig(ctx context.Context, c Config) (Config, error)
	ConfigByID(ctx context.Context, id string) (Config, error)
	ListConfigs(ctx context.Context) ([]Config, error)
	UpdateConfig(ctx context.Context, id string, value, description, updatedBy string) (Config, error)
	DeleteConfig(ctx context.Context, id string) error

	CreateFAQ(ctx context.Context, f FAQ) (FAQ, error)
	FAQByID(ctx context.Context, id string) (FAQ, error)
	ListFAQs(ctx context.Context) ([]FAQ, error)
	UpdateFAQ(ctx context.Context, id string, question, answer, updatedBy string) (FAQ, error)
	DeleteFAQ(ctx context.Context, id string) error
}

// Service validates and coordinates config and FAQ operations.
type Service struct {
	store Store
}

// NewService constructs the props service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("props store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) CreateConfig(ctx context.Context, c Config) (Config, error) {
	c.Name = strings.TrimSpace(c.Name)
	c.Value = strings.TrimSpace(c.Value)
	if c.Name == "" || c.Value == "" {
		return Config{}, fmt.Errorf("%w: config name and value are required", auth.ErrInvalidInput)
	}
	return s.store.CreateConfig(ctx, c)
}

func (s *Service) GetConfig(ctx context.Context, id string) (Config, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Config{}, fmt.Errorf("%w: config_id is required", auth.ErrInvalidInput)
	}
	return s.store.ConfigByID(ctx, id)
}

func (s *Service) ListConfigs(ctx context.Context) ([]Config, error) {
	return s.store.ListConfigs(ctx)
}

func (s *Service) UpdateConfig(ctx context.Context, id, value, description, updatedBy string) (Config, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Config{}, fmt.Errorf("%w: config_id is required", auth.ErrInvalidInput)
	}
	if strings.TrimSpace(value) == "" {
		return Config{}, fmt.Errorf("%w: config value is required", auth.ErrInvalidInput)
	}
	return s.store.UpdateConfig(ctx, id, strings.TrimSpace(value), strings.TrimSpace(description), updatedBy)
}

func (s *Service) DeleteConfig(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: config_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteConfig(ctx, id)
}

func (s *Service) CreateFAQ(ctx context.Context, f FAQ) (FAQ, error) {
	f.Question = strings.TrimSpace(f.Question)
	f.Answer = strings.TrimSpace(f.Answer)
	if f.Question == "" || f.Answer == "" {
		return FAQ{}, fmt.Errorf("%w: question and answer are required", auth.ErrInvalidInput)
	}
	return s.store.CreateFAQ(ctx, f)
}

func (s *Service) GetFAQ(ctx context.Context, id string) (FAQ, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FAQ{}, fmt.Errorf("%w: faq_id is required", auth.ErrInvalidInput)
	}
	return s.store.FAQByID(ctx, id)
}

func (s *Service) ListFAQs(ctx context.Context) ([]FAQ, error) {
	return s.store.ListFAQs(ctx)
}

func (s *Service) UpdateFAQ(ctx context.Context, id, question, answer, updatedBy string) (FAQ, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return FAQ{}, fmt.Errorf("%w: faq_id is required", auth.ErrInvalidInput)
	}
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return FAQ{}, fmt.Errorf("%w: question and answer are required", auth.ErrInvalidInput)
	}
	return s.store.UpdateFAQ(ctx, id, strings.TrimSpace(question), strings.TrimSpace(answer), updatedBy)
}

func (s *Service) DeleteFAQ(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: faq_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteFAQ(ctx, id)
}
