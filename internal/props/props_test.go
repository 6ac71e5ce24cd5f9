package props

import (
	"context"
	"errors"
	"testing"

	"fuatilia.org/internal/auth"
)

type stubStore struct {
	config *Config
	faq    *FAQ
}

func (s *stubStore) CreateConfig(_ context.Context, c Config) (Config, error) {
	c.ID = "config-1"
	s.config = &c
	return c, nil
}
func (s *stubStore) ConfigByID(context.Context, string) (Config, error) {
	return Config{}, auth.ErrNotFound
}
func (s *stubStore) ListConfigs(context.Context) ([]Config, error) { return nil, nil }
func (s *stubStore) UpdateConfig(_ context.Context, id, value, description, updatedBy string) (Config, error) {
	return Config{ID: id, Value: value, Description: description, UpdatedBy: updatedBy}, nil
}
func (s *stubStore) DeleteConfig(context.Context, string) error { return nil }

func (s *stubStore) CreateFAQ(_ context.Context, f FAQ) (FAQ, error) {
	f.ID = "faq-1"
	s.faq = &f
	return f, nil
}
func (s *stubStore) FAQByID(context.Context, string) (FAQ, error) {
	return FAQ{}, auth.ErrNotFound
}
func (s *stubStore) ListFAQs(context.Context) ([]FAQ, error) { return nil, nil }
func (s *stubStore) UpdateFAQ(_ context.Context, id, question, answer, updatedBy string) (FAQ, error) {
	return FAQ{ID: id, Question: question, Answer: answer, UpdatedBy: updatedBy}, nil
}
func (s *stubStore) DeleteFAQ(context.Context, string) error { return nil }

func TestCreateConfigTrimsAndValidates(t *testing.T) {
	store := &stubStore{}
	svc, err := NewService(store)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	c, err := svc.CreateConfig(context.Background(), Config{Name: "  site_banner ", Value: " karibu "})
	if err != nil {
		t.Fatalf("create config: %v", err)
	}
	if c.Name != "site_banner" || c.Value != "karibu" {
		t.Fatalf("expected trimmed fields, got %+v", c)
	}

	if _, err := svc.CreateConfig(context.Background(), Config{Name: "site_banner"}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without value, got %v", err)
	}
}

func TestUpdateConfigRequiresValue(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	if _, err := svc.UpdateConfig(context.Background(), "config-1", "  ", "", "root"); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank value, got %v", err)
	}
	c, err := svc.UpdateConfig(context.Background(), "config-1", " new ", " desc ", "root")
	if err != nil {
		t.Fatalf("update config: %v", err)
	}
	if c.Value != "new" || c.Description != "desc" {
		t.Fatalf("expected trimmed update, got %+v", c)
	}
}

func TestCreateFAQValidation(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	if _, err := svc.CreateFAQ(context.Background(), FAQ{Question: "How are bills tracked?"}); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without answer, got %v", err)
	}
	f, err := svc.CreateFAQ(context.Background(), FAQ{
		Question: "How are bills tracked?",
		Answer:   "Through each reading stage in parliament.",
	})
	if err != nil {
		t.Fatalf("create faq: %v", err)
	}
	if f.ID != "faq-1" {
		t.Fatalf("expected stored faq, got %+v", f)
	}
}

func TestBlankIDsRejected(t *testing.T) {
	svc, _ := NewService(&stubStore{})

	if _, err := svc.GetConfig(context.Background(), " "); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := svc.DeleteFAQ(context.Background(), ""); !errors.Is(err, auth.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
