package representatives

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fuatilia.org/internal/auth"
)

// Position is the elective or nominated seat a representative holds.
type Position string

const (
	PositionMP       Position = "MP"
	PositionSenator  Position = "SENATOR"
	PositionWomenRep Position = "WOMEN_REP"
	PositionMCA      Position = "MCA"
)

// PositionClass distinguishes how the seat was obtained.
type PositionClass string

const (
	ClassElected   PositionClass = "ELECTED"
	ClassNominated PositionClass = "NOMINATED"
)

// House identifies the chamber the representative sits in.
type House string

const (
	HouseNational House = "NATIONAL_ASSEMBLY"
	HouseSenate   House = "SENATE"
)

// Gender as self-declared on the register.
type Gender string

const (
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
	GenderOther  Gender = "OTHER"
)

// ParsePosition validates a position string.
func ParsePosition(s string) (Position, error) {
	switch Position(strings.ToUpper(strings.TrimSpace(s))) {
	case PositionMP:
		return PositionMP, nil
	case PositionSenator:
		return PositionSenator, nil
	case PositionWomenRep:
		return PositionWomenRep, nil
	case PositionMCA:
		return PositionMCA, nil
	}
	return "", fmt.Errorf("%w: unknown position %q", auth.ErrInvalidInput, s)
}

// ParsePositionClass validates a position class string.
func ParsePositionClass(s string) (PositionClass, error) {
	switch PositionClass(strings.ToUpper(strings.TrimSpace(s))) {
	case ClassElected:
		return ClassElected, nil
	case ClassNominated:
		return ClassNominated, nil
	}
	return "", fmt.Errorf("%w: unknown position class %q", auth.ErrInvalidInput, s)
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

// ParseGender validates a gender string.
func ParseGender(s string) (Gender, error) {
	switch Gender(strings.ToUpper(strings.TrimSpace(s))) {
	case GenderMale:
		return GenderMale, nil
	case GenderFemale:
		return GenderFemale, nil
	case GenderOther:
		return GenderOther, nil
	}
	return "", fmt.Errorf("%w: unknown gender %q", auth.ErrInvalidInput, s)
}

// Representative is an elected or nominated member under monitoring.
// AreaRepresented is the county, constituency or ward the seat covers;
// CurrentParliamentaryRoles is free text such as "Majority Leader".
type Representative struct {
	ID                        string        `json:"id"`
	FullName                  string        `json:"full_name"`
	Position                  Position      `json:"position"`
	PositionClass             PositionClass `json:"position_class"`
	House                     House         `json:"house"`
	AreaRepresented           string        `json:"area_represented"`
	PhoneNumber               string        `json:"phone_number,omitempty"`
	Gender                    Gender        `json:"gender,omitempty"`
	CurrentParliamentaryRoles string        `json:"current_parliamentary_roles,omitempty"`
	ImageURL                  string        `json:"image_url,omitempty"`
	UpdatedBy                 string        `json:"updated_by,omitempty"`
	CreatedAt                 time.Time     `json:"created_at"`
	UpdatedAt                 time.Time     `json:"updated_at"`
}

// Filter narrows List results. Zero values mean "any".
type Filter struct {
	FullName        string
	Position        Position
	PositionClass   PositionClass
	House           House
	AreaRepresented string
	Gender          Gender
	CreatedAfter    time.Time
	CreatedBefore   time.Time
	UpdatedAfter    time.Time
	UpdatedBefore   time.Time
	Page            int
	ItemsPerPage    int
}

// Update carries mutable representative fields.
type Update struct {
	FullName                  *string
	Position                  *Position
	House                     *House
	AreaRepresented           *string
	PhoneNumber               *string
	CurrentParliamentaryRoles *string
	ImageURL                  *string
	UpdatedBy                 string
}

// Store describes representative persistence.
type Store interface {
	CreateRepresentative(ctx context.Context, r Representative) (Representative, error)
	RepresentativeByID(ctx context.Context, id string) (Representative, error)
	FilterRepresentatives(ctx context.Context, f Filter) ([]Representative, int, error)
	UpdateRepresentative(ctx context.Context, id string, upd Update) (Representative, error)
	DeleteRepresentative(ctx context.Context, id string) error
}

// Service validates and coordinates representative operations.
type Service struct {
	store Store
}

// NewService constructs the representative service.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, errors.New("representatives store is required")
	}
	return &Service{store: store}, nil
}

func (s *Service) Create(ctx context.Context, r Representative) (Representative, error) {
	r.FullName = strings.TrimSpace(r.FullName)
	r.AreaRepresented = strings.TrimSpace(r.AreaRepresented)
	if r.FullName == "" {
		return Representative{}, fmt.Errorf("%w: full_name is required", auth.ErrInvalidInput)
	}
	if r.AreaRepresented == "" {
		return Representative{}, fmt.Errorf("%w: area_represented is required", auth.ErrInvalidInput)
	}
	if _, err := ParsePosition(string(r.Position)); err != nil {
		return Representative{}, err
	}
	if _, err := ParseHouse(string(r.House)); err != nil {
		return Representative{}, err
	}
	if r.PositionClass == "" {
		r.PositionClass = ClassElected
	} else if _, err := ParsePositionClass(string(r.PositionClass)); err != nil {
		return Representative{}, err
	}
	if r.Gender != "" {
		if _, err := ParseGender(string(r.Gender)); err != nil {
			return Representative{}, err
		}
	}
	return s.store.CreateRepresentative(ctx, r)
}

func (s *Service) Get(ctx context.Context, id string) (Representative, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Representative{}, fmt.Errorf("%w: representative_id is required", auth.ErrInvalidInput)
	}
	return s.store.RepresentativeByID(ctx, id)
}

func (s *Service) Filter(ctx context.Context, f Filter) ([]Representative, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.ItemsPerPage < 1 {
		f.ItemsPerPage = 10
	}
	return s.store.FilterRepresentatives(ctx, f)
}

func (s *Service) Update(ctx context.Context, id string, upd Update) (Representative, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Representative{}, fmt.Errorf("%w: representative_id is required", auth.ErrInvalidInput)
	}
	if upd.Position != nil {
		if _, err := ParsePosition(string(*upd.Position)); err != nil {
			return Representative{}, err
		}
	}
	if upd.House != nil {
		if _, err := ParseHouse(string(*upd.House)); err != nil {
			return Representative{}, err
		}
	}
	return s.store.UpdateRepresentative(ctx, id, upd)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: representative_id is required", auth.ErrInvalidInput)
	}
	return s.store.DeleteRepresentative(ctx, id)
}
