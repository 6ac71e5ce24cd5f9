package pg

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"fuatilia.org/internal/auth"
	"fuatilia.org/internal/bills"
)

var billRowColumns = []string{
	"id", "title", "status", "sponsored_by", "supported_by", "house", "summary", "topics",
	"final_date_voted", "file_url", "updated_by", "created_at", "updated_at",
}

func billRow(id, title, sponsoredBy string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(billRowColumns).AddRow(
		id, title, "IN_PROGRESS", sponsoredBy, nil, "NATIONAL_ASSEMBLY", nil, nil,
		nil, nil, nil, now, now,
	)
}

func TestCreateBill(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	mock.ExpectQuery("insert into bills").
		WillReturnRows(billRow("bill-1", "Finance Bill", "Hon. Amina Odhiambo"))

	b, err := store.CreateBill(context.Background(), bills.Bill{
		Title:       "Finance Bill",
		SponsoredBy: "Hon. Amina Odhiambo",
		House:       bills.HouseNational,
		Status:      bills.StatusInProgress,
	})
	if err != nil {
		t.Fatalf("CreateBill: %v", err)
	}
	if b.ID != "bill-1" || b.House != bills.HouseNational {
		t.Fatalf("unexpected bill %+v", b)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBillDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	mock.ExpectQuery("insert into bills").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err = store.CreateBill(context.Background(), bills.Bill{
		Title:       "Finance Bill",
		SponsoredBy: "Hon. Amina Odhiambo",
		House:       bills.HouseNational,
		Status:      bills.StatusInProgress,
	})
	if !errors.Is(err, auth.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestFilterBillsPagination(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	mock.ExpectQuery(`select count\(\*\) from bills where house = \$1`).
		WithArgs("SENATE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))
	mock.ExpectQuery("select id, title, status.*from bills where house.*order by created_at desc limit").
		WithArgs("SENATE", 5, 5).
		WillReturnRows(billRow("bill-6", "County Allocation Bill", "Hon. Otieno Kibaki"))

	items, total, err := store.FilterBills(context.Background(), bills.Filter{
		House:        bills.HouseSenate,
		Page:         2,
		ItemsPerPage: 5,
	})
	if err != nil {
		t.Fatalf("FilterBills: %v", err)
	}
	if total != 7 || len(items) != 1 {
		t.Fatalf("expected total 7 and 1 item, got %d and %d", total, len(items))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDeleteBillNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()
	store := NewWithDB(db)

	mock.ExpectExec("delete from bills").
		WithArgs("bill-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := store.DeleteBill(context.Background(), "bill-missing"); !errors.Is(err, auth.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
