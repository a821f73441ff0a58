package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmockv3 "github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
)

var productColumns = []string{"id", "name", "description", "price", "weight", "category_id"}

func TestProductRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &productRepository{storage: storage}

	mock.ExpectQuery(quote("FROM products WHERE id=$1")).WithArgs(int64(10)).WillReturnRows(
		pgxmockv3.NewRows(productColumns).AddRow(int64(10), "Widget", "", "5.00", "100.000", int64(1)))
	product, err := repo.GetByID(context.Background(), 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !product.Price.Equal(decimal.RequireFromString("5")) || !product.Weight.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected product: %+v", product)
	}

	mock.ExpectQuery(quote("FROM products WHERE name=$1")).WithArgs("Gadget").WillReturnRows(
		pgxmockv3.NewRows(productColumns).AddRow(int64(11), "Gadget", "shiny", "9.99", "50", int64(0)))
	product, err = repo.GetByName(context.Background(), "Gadget")
	if err != nil || product.ID != 11 || product.Price.String() != "9.99" {
		t.Fatalf("unexpected product: %+v err=%v", product, err)
	}

	mock.ExpectQuery(quote("FROM products WHERE id=$1")).WithArgs(int64(99)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 99); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery(quote("FROM products WHERE id=$1")).WithArgs(int64(12)).WillReturnRows(
		pgxmockv3.NewRows(productColumns).AddRow(int64(12), "Broken", "", "n/a", "1", int64(0)))
	if _, err := repo.GetByID(context.Background(), 12); err == nil {
		t.Fatal("expected numeric parse error")
	}

	mock.ExpectQuery(quote("FROM products WHERE id=$1")).WithArgs(int64(13)).WillReturnRows(
		pgxmockv3.NewRows(productColumns).AddRow(int64(13), "Broken", "", "1", "heavy", int64(0)))
	if _, err := repo.GetByID(context.Background(), 13); err == nil {
		t.Fatal("expected numeric parse error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestStatusRepository(t *testing.T) {
	storage, mock := newMockStorage(t)
	defer mock.Close()
	repo := &statusRepository{storage: storage}

	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(2)).WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(true))
	if ok, err := repo.Exists(context.Background(), 2); err != nil || !ok {
		t.Fatalf("expected status to exist: ok=%v err=%v", ok, err)
	}

	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(42)).WillReturnRows(pgxmockv3.NewRows([]string{"exists"}).AddRow(false))
	if ok, err := repo.Exists(context.Background(), 42); err != nil || ok {
		t.Fatalf("expected missing status: ok=%v err=%v", ok, err)
	}

	mock.ExpectQuery("SELECT EXISTS").WithArgs(int64(1)).WillReturnError(errors.New("query"))
	if _, err := repo.Exists(context.Background(), 1); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery(quote("FROM order_statuses WHERE id=$1")).WithArgs(int64(3)).WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name"}).AddRow(int64(3), "Shipped"))
	if st, err := repo.GetByID(context.Background(), 3); err != nil || st.Name != "Shipped" {
		t.Fatalf("unexpected status: %+v err=%v", st, err)
	}

	mock.ExpectQuery(quote("FROM order_statuses WHERE id=$1")).WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)
	if _, err := repo.GetByID(context.Background(), 9); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	mock.ExpectQuery("FROM order_statuses ORDER BY id").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name"}).AddRow(int64(1), "New").AddRow(int64(2), "Processing"))
	list, err := repo.List(context.Background())
	if err != nil || len(list) != 2 || list[1].Name != "Processing" {
		t.Fatalf("unexpected list: %v err=%v", list, err)
	}

	mock.ExpectQuery("FROM order_statuses ORDER BY id").WillReturnError(errors.New("query"))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected error")
	}

	mock.ExpectQuery("FROM order_statuses ORDER BY id").WillReturnRows(
		pgxmockv3.NewRows([]string{"id", "name"}).AddRow("bad", "New"))
	if _, err := repo.List(context.Background()); err == nil {
		t.Fatal("expected scan error")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations not met: %v", err)
	}
}

func TestStatusRepositoryListRowsError(t *testing.T) {
	storage := &Storage{pool: &rowsErrorPool{rows: &errorRows{err: errors.New("rows err")}}}
	repo := &statusRepository{storage: storage}

	if _, err := repo.List(context.Background()); err == nil || err.Error() != "rows err" {
		t.Fatalf("expected rows err, got %v", err)
	}
}
