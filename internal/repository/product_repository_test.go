package repository

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"product-catalog/internal/domain"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var testDB *sql.DB

func setupTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, error) {
	var (
		dbName = "testdb"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:15",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		return dbContainer.Terminate, err
	}

	connStr := "postgres://" + dbUser + ":" + dbPwd + "@" + dbHost + ":" + dbPort.Port() + "/" + dbName + "?sslmode=disable"
	testDB, err = sql.Open("pgx", connStr)
	if err != nil {
		return dbContainer.Terminate, err
	}

	_, err = testDB.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			description VARCHAR(500) NOT NULL,
			price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
			category VARCHAR(100) NOT NULL,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			created_by VARCHAR(255) NOT NULL DEFAULT 'Unknown',
			created_at TIMESTAMPTZ NOT NULL,
			updated_by VARCHAR(255),
			updated_at TIMESTAMPTZ
		)
	`)
	if err != nil {
		return dbContainer.Terminate, err
	}

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	teardown, err := setupTestDB()
	if err != nil {
		log.Fatalf("could not start postgres container: %v", err)
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Printf("could not terminate postgres container: %v", err)
		}
	}
	os.Exit(code)
}

func sampleProduct() *domain.Product {
	return &domain.Product{
		ID:          uuid.New(),
		Name:        "Thermal Printer",
		Description: "80mm receipt printer",
		Price:       119.90,
		Category:    "Office",
		Stock:       15,
		CreatedBy:   "alice",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestProductRepository_InsertAndFindByID(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := sampleProduct()
	if err := repo.Insert(ctx, product); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	if found.Name != product.Name || found.Description != product.Description ||
		found.Price != product.Price || found.Category != product.Category ||
		found.Stock != product.Stock || found.CreatedBy != product.CreatedBy {
		t.Errorf("stored product differs: %+v vs %+v", found, product)
	}
	if found.UpdatedBy != "" || found.UpdatedAt != nil {
		t.Error("freshly inserted rows must have empty update stamps")
	}
}

func TestProductRepository_FindByIDMissing(t *testing.T) {
	repo := NewProductRepository(testDB)

	_, err := repo.FindByID(context.Background(), uuid.New())
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_Replace(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := sampleProduct()
	if err := repo.Insert(ctx, product); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	product.Name = "Thermal Printer Pro"
	product.Stock = 9
	product.UpdatedBy = "bob"
	product.UpdatedAt = &now

	if err := repo.Replace(ctx, product); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	found, err := repo.FindByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if found.Name != "Thermal Printer Pro" || found.Stock != 9 {
		t.Errorf("replace did not persist field changes: %+v", found)
	}
	if found.UpdatedBy != "bob" || found.UpdatedAt == nil {
		t.Errorf("replace did not persist update stamps: %+v", found)
	}
}

func TestProductRepository_ReplaceMissing(t *testing.T) {
	repo := NewProductRepository(testDB)

	product := sampleProduct()
	err := repo.Replace(context.Background(), product)
	if !errors.Is(err, ErrProductNotFound) {
		t.Errorf("err = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_Delete(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	product := sampleProduct()
	if err := repo.Insert(ctx, product); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := repo.Delete(ctx, product.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := repo.FindByID(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Error("row still present after delete")
	}

	if err := repo.Delete(ctx, product.ID); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("second delete: err = %v, want ErrProductNotFound", err)
	}
}

func TestProductRepository_ListAll(t *testing.T) {
	repo := NewProductRepository(testDB)
	ctx := context.Background()

	inserted := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		product := sampleProduct()
		if err := repo.Insert(ctx, product); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		inserted[product.ID] = true
	}

	products, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	seen := 0
	for _, p := range products {
		if inserted[p.ID] {
			seen++
		}
	}
	if seen != len(inserted) {
		t.Errorf("ListAll returned %d of %d inserted rows", seen, len(inserted))
	}
}
