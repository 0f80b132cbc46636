package repositories

import (
	"context"
	"testing"
	"time"

	"shopmart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ProductRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ProductRepository
	productID uuid.UUID
	context   context.Context
}

func (suite *ProductRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewProductRepo(mock)
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *ProductRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestProductRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ProductRepoTestSuite))
}

func (suite *ProductRepoTestSuite) productRow(stock int) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{"id", "name", "description", "price", "stock_quantity", "created_at", "updated_at"}).
		AddRow(suite.productID, "Seed Pack", (*string)(nil), 5.0, stock, now, now)
}

func (suite *ProductRepoTestSuite) TestCreate() {
	product := &models.Product{
		ID:            suite.productID,
		Name:          "Seed Pack",
		Price:         5.0,
		StockQuantity: 10,
	}

	suite.mock.ExpectExec(`INSERT INTO products \(id, name, description, price, stock_quantity, created_at, updated_at\)`).
		WithArgs(product.ID, product.Name, product.Description, product.Price, product.StockQuantity).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, product)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`FROM products WHERE id = \$1`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "description", "price", "stock_quantity", "created_at", "updated_at"}))

	product, err := suite.repo.GetByID(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), product)
}

func (suite *ProductRepoTestSuite) TestGetByIDForUpdate_LocksRow() {
	suite.mock.ExpectQuery(`FROM products WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.productID).
		WillReturnRows(suite.productRow(10))

	product, err := suite.repo.GetByIDForUpdate(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 10, product.StockQuantity)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_Decrement() {
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(-3, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.AdjustStock(suite.context, suite.productID, -3)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_Restore() {
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(3, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.AdjustStock(suite.context, suite.productID, 3)
	assert.NoError(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestAdjustStock_MissingProduct() {
	suite.mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(-3, suite.productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.AdjustStock(suite.context, suite.productID, -3)
	assert.Error(suite.T(), err)
}

func (suite *ProductRepoTestSuite) TestList_SearchFilter() {
	suite.mock.ExpectQuery(`FROM products WHERE \(name ILIKE \$1 OR COALESCE\(description, ''\) ILIKE \$1\) AND stock_quantity > 0 ORDER BY price ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("%seed%", 20, 0).
		WillReturnRows(suite.productRow(10))

	inStock := true
	products, err := suite.repo.List(suite.context, &models.ProductSearchFilter{
		Query:     "seed",
		InStock:   &inStock,
		SortBy:    "price",
		SortOrder: "asc",
		Limit:     20,
	})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestList_DefaultSort() {
	suite.mock.ExpectQuery(`FROM products ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(suite.productRow(10))

	products, err := suite.repo.List(suite.context, nil)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
}

func (suite *ProductRepoTestSuite) TestCount_PriceRange() {
	minPrice, maxPrice := 1.0, 10.0

	suite.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM products WHERE price >= \$1 AND price <= \$2`).
		WithArgs(minPrice, maxPrice).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(4))

	count, err := suite.repo.Count(suite.context, &models.ProductSearchFilter{MinPrice: &minPrice, MaxPrice: &maxPrice})
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, count)
}

func (suite *ProductRepoTestSuite) TestListLowStock() {
	suite.mock.ExpectQuery(`WHERE stock_quantity <= \$1`).
		WithArgs(10, 100).
		WillReturnRows(suite.productRow(2))

	products, err := suite.repo.ListLowStock(suite.context, 10, 100)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), products, 1)
	assert.Equal(suite.T(), 2, products[0].StockQuantity)
}

func (suite *ProductRepoTestSuite) TestReplaceCategories() {
	categoryID := uuid.New()

	suite.mock.ExpectExec(`DELETE FROM product_categories WHERE product_id = \$1`).
		WithArgs(suite.productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	suite.mock.ExpectExec(`INSERT INTO product_categories \(product_id, category_id\)`).
		WithArgs(suite.productID, categoryID).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.ReplaceCategories(suite.context, suite.productID, []uuid.UUID{categoryID})
	assert.NoError(suite.T(), err)
}
