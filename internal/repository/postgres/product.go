package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/RaihanulHaque/rimu-world/internal/domain"
	"github.com/RaihanulHaque/rimu-world/internal/repository"
	"github.com/RaihanulHaque/rimu-world/pkg/database"
	apperrors "github.com/RaihanulHaque/rimu-world/pkg/errors"
)

// ProductRepository implements repository.ProductRepository using PostgreSQL.
type ProductRepository struct {
	pool database.DBTX
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool database.DBTX) *ProductRepository {
	return &ProductRepository{pool: pool}
}

const productColumns = "id, name, type, category, price, details, colors, sizes, images, created_at"

// Insert adds a new product record.
func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	colorsJSON, sizesJSON, imagesJSON, err := marshalLists(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO products (id, name, type, category, price, details, colors, sizes, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Name,
		string(p.Type),
		p.Category,
		p.Price,
		p.Details,
		colorsJSON,
		sizesJSON,
		imagesJSON,
		p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.DuplicateIdentifier(p.ID)
		}
		return fmt.Errorf("insert product: %w", err)
	}

	return nil
}

// GetByID retrieves a product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return p, nil
}

// List returns products matching the filter, newest first.
func (r *ProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, error) {
	var (
		rows pgx.Rows
		err  error
	)

	if filter.Type != nil {
		query := fmt.Sprintf(`SELECT %s FROM products WHERE type = $1 ORDER BY created_at DESC, id DESC`, productColumns)
		rows, err = r.pool.Query(ctx, query, string(*filter.Type))
	} else {
		query := fmt.Sprintf(`SELECT %s FROM products ORDER BY created_at DESC, id DESC`, productColumns)
		rows, err = r.pool.Query(ctx, query)
	}
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}

	return products, nil
}

// Delete removes a product and returns the image references of the deleted
// record.
func (r *ProductRepository) Delete(ctx context.Context, id string) ([]string, error) {
	query := `DELETE FROM products WHERE id = $1 RETURNING images`

	var imagesJSON []byte
	if err := r.pool.QueryRow(ctx, query, id).Scan(&imagesJSON); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("product", id)
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}

	var images []string
	if err := json.Unmarshal(imagesJSON, &images); err != nil {
		return nil, fmt.Errorf("unmarshal deleted images: %w", err)
	}

	return images, nil
}

// rowScanner covers both pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var (
		p          domain.Product
		colorsJSON []byte
		sizesJSON  []byte
		imagesJSON []byte
	)

	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Type,
		&p.Category,
		&p.Price,
		&p.Details,
		&colorsJSON,
		&sizesJSON,
		&imagesJSON,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(colorsJSON, &p.Colors); err != nil {
		return nil, fmt.Errorf("unmarshal colors: %w", err)
	}
	if err := json.Unmarshal(sizesJSON, &p.Sizes); err != nil {
		return nil, fmt.Errorf("unmarshal sizes: %w", err)
	}
	if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
		return nil, fmt.Errorf("unmarshal images: %w", err)
	}

	return &p, nil
}

// marshalLists encodes the list-valued columns, normalizing nil to empty
// arrays so reads never hand callers a null list.
func marshalLists(p *domain.Product) (colors, sizes, images []byte, err error) {
	colors, err = marshalStringList(p.Colors)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal colors: %w", err)
	}
	sizes, err = marshalStringList(p.Sizes)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal sizes: %w", err)
	}
	images, err = marshalStringList(p.Images)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("marshal images: %w", err)
	}
	return colors, sizes, images, nil
}

func marshalStringList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
