package bills

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuatilia.org/internal/auth"
)

// BillStatus tracks a bill through the legislative pipeline.
type BillStatus string

const (
	StatusFirstReading  BillStatus = "FIRST_READING"
	StatusSecondReading BillStatus = "SECOND_READING"
	StatusPassed        BillStatus = "PASSED"
	StatusFailed        BillStatus = "FAILED"
	StatusInProgress    BillStatus = "IN_PROGRESS"
	StatusAscented      BillStatus = "ASCENTED"
)

// House identifies the chamber a bill originates from.
type House string

const (
	HouseNational House = "NATIONAL_ASSEMBLY"
	HouseSenate   House = "SENATE"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (BillStatus, error) {
	switch BillStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusFirstReading:
		return StatusFirstReading, nil
	case StatusSecondReading:
		return StatusSecondReading, nil
	case StatusPassed:
		return StatusPassed, nil
	case StatusFailed:
		return StatusFailed, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusAscented:
		return StatusAscented, nil
	}
	return "", fmt.Errorf("%w: unknown bill status %q", auth.ErrInvalidInput, s)
}

// ParseHouse validates a house string.
func ParseHouse(s string) (House, error) {
	switch House(strings.ToUpper(strings.TrimSpace(s))) {
	case HouseNational:
		return HouseNational, nil
	case HouseSenate:
		return HouseSenate, nil
	}
	return "", fmt.Errorf("%w: unknown house %q", auth.ErrInvalidInput, s)
}

// Bill is a legislative proposal under scrutiny. FinalDateVoted is free text
// recorded when the bill passes or fails; Topics is a comma-separated search
// aid.
type Bill struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Status         BillStatus `json:"status"`
	SponsoredBy    string     `json:"sponsored_by"`
	SupportedBy    string     `json:"supported_by,omitempty"`
	House          House      `json:"house"`
	Summary        string     `json:"summary,omitempty"`
	Topics         string     `json:"topics,omitempty"`
	FinalDateVoted string     `json:"final_date_voted,omitempty"`
	FileURL        string     `json:"file_url,omitempty"`
	UpdatedBy      string     `json:"updated_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	Title         string
	House         House
	Status        BillStatus
	SponsoredBy   string
	Topics        string
	CreatedAfter  time.Time
	CreatedBefore time.Time
	UpdatedAfter  time.Time
	UpdatedBefore time.Time
	Page          int
	ItemsPerPage  int
}

// Update carries mutable bill fields. Nil pointers leave values untouched.
type Update struct {
	Title          *string
	Summary        *string
	Status         *BillStatus
	SponsoredBy    *string
	SupportedBy    *string
	Topics         *string
	FinalDateVoted *string
	UpdatedBy      string
}

// Store describes bill persistence.
type Store interface {
	CreateBill(ctx context.Context, b Bill) (Bill, error)
	BillByID(ctx context.Context, id string) (Bill, error)
	FilterBills(ctx context.Context, f Filter) ([]Bill, int, error)
	UpdateBill(ctx context.Context, id string, upd Update) (Bill, error)
	DeleteBill(ctx context.Context, id string) error
	SetBillFileURL(ctx context.Context, id, url string) error
}

// Service validates and coordinates bill operations.
type Service struct {
	store Store
}

// NewService constructs the bill service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("bills store is required")
	}
	return &Service{store: store}, nil
}

// Create stores a new bill. Status defaults to IN_PROGRESS.
func (s *Service) Create(ctx context.Context, b Bill) (Bill, error) {
	b.Title = strings.TrimSpace(b.Title)
	b.SponsoredBy = strings.TrimSpace(b.SponsoredBy)
	if b.Title == "" {
		return Bill{}, fmt.Errorf("%w: title is required", auth.ErrInvalidInput)
	}
	if b.SponsoredBy == "" {
		return Bill{}, fmt.Errorf("%w: sponsored_by is required", auth.ErrInvalidInput)
	}
	if _, err := ParseHouse(string(b.House)); err != nil {
		return Bill{}, err
	}
	if b.Status == "" {
		b.Status = StatusInProgress
	} else if _, err := ParseStatus(string(b.Status)); err != nil {
		return Bill{}, err
	}
	return s.store.CreateBill(ctx, b)
}

// Get returns the bill with the given id.
func (s *Service) Get(ctx context.Context, id string) (Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Bill{}, fmt.Errorf("%w: bill_id is required", auth.ErrInvalidInput)
	}
	return s.store.BillByID(ctx, id)
}

// Filter returns a page of bills plus the total match count.
func (s *Service) Filter(ctx context.Context, f Filter) ([]Bill, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = 10
	}
	return s.store.FilterBills(ctx, f)
}

// Update applies a partial update to the bill.
func (s *Service) Update(ctx context.Context, id string, upd Update) (Bill, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Bill{}, fmt.Errorf("%w: bill_id is required", auth.ErrInvalidInput)
	}
	if upd.Status != nil {
		if _, err := ParseStatus(string(*upd.Status)); err != nil {
			return Bill{}, err
		}
	}
	return s.store.UpdateBill(ctx, id, upd)
}

// Delete removes the bill.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: bill_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteBill(ctx, id)
}

// AttachFile records the stored document location on the bill.
func (s *Service) AttachFile(ctx context.Context, id, url string) error {
	id = strings.TrimSpace(id)
	if id == "" || strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: bill_id and file url are required", auth.ErrInvalidInput)
	}
	return s.store.SetBillFileURL(ctx, id, url)
}
