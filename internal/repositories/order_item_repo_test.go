package repositories

import (
	"context"
	"testing"

	"shopmart/internal/models"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type OrderItemRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      OrderItemRepository
	itemID    uuid.UUID
	orderID   uuid.UUID
	productID uuid.UUID
	context   context.Context
}

func (suite *OrderItemRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderItemRepo(mock)
	suite.itemID = uuid.New()
	suite.orderID = uuid.New()
	suite.productID = uuid.New()
	suite.context = context.Background()
}

func (suite *OrderItemRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderItemRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderItemRepoTestSuite))
}

func (suite *OrderItemRepoTestSuite) itemRow(quantity int, price float64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price"}).
		AddRow(suite.itemID, suite.orderID, suite.productID, quantity, price)
}

func (suite *OrderItemRepoTestSuite) TestCreate() {
	item := &models.OrderItem{
		ID:        suite.itemID,
		OrderID:   suite.orderID,
		ProductID: suite.productID,
		Quantity:  3,
		Price:     5.0,
	}

	suite.mock.ExpectExec(`INSERT INTO order_items \(id, order_id, product_id, quantity, price\)`).
		WithArgs(item.ID, item.OrderID, item.ProductID, item.Quantity, item.Price).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, item)
	assert.NoError(suite.T(), err)
}

func (suite *OrderItemRepoTestSuite) TestGetByOrderAndProduct_Found() {
	suite.mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 AND product_id = \$2`).
		WithArgs(suite.orderID, suite.productID).
		WillReturnRows(suite.itemRow(2, 7.5))

	item, err := suite.repo.GetByOrderAndProduct(suite.context, suite.orderID, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, item.Quantity)
	assert.Equal(suite.T(), 7.5, item.Price)
}

func (suite *OrderItemRepoTestSuite) TestGetByOrderAndProduct_NotFound() {
	suite.mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 AND product_id = \$2`).
		WithArgs(suite.orderID, suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "order_id", "product_id", "quantity", "price"}))

	item, err := suite.repo.GetByOrderAndProduct(suite.context, suite.orderID, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), item)
}

func (suite *OrderItemRepoTestSuite) TestGetByIDForUpdate_LocksRow() {
	suite.mock.ExpectQuery(`FROM order_items WHERE id = \$1 FOR UPDATE`).
		WithArgs(suite.itemID).
		WillReturnRows(suite.itemRow(1, 5.0))

	item, err := suite.repo.GetByIDForUpdate(suite.context, suite.itemID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.itemID, item.ID)
}

func (suite *OrderItemRepoTestSuite) TestUpdateQuantity() {
	suite.mock.ExpectExec(`UPDATE order_items SET quantity = \$1 WHERE id = \$2`).
		WithArgs(8, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateQuantity(suite.context, suite.itemID, 8)
	assert.NoError(suite.T(), err)
}

func (suite *OrderItemRepoTestSuite) TestUpdateQuantity_MissingItem() {
	suite.mock.ExpectExec(`UPDATE order_items SET quantity = \$1 WHERE id = \$2`).
		WithArgs(8, suite.itemID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateQuantity(suite.context, suite.itemID, 8)
	assert.Error(suite.T(), err)
}

func (suite *OrderItemRepoTestSuite) TestDeleteByOrderID() {
	suite.mock.ExpectExec(`DELETE FROM order_items WHERE order_id = \$1`).
		WithArgs(suite.orderID).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	err := suite.repo.DeleteByOrderID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
}

func (suite *OrderItemRepoTestSuite) TestListByOrderID() {
	suite.mock.ExpectQuery(`FROM order_items WHERE order_id = \$1 ORDER BY id`).
		WithArgs(suite.orderID).
		WillReturnRows(suite.itemRow(4, 2.5))

	items, err := suite.repo.ListByOrderID(suite.context, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 1)
	assert.Equal(suite.T(), 4, items[0].Quantity)
}

func (suite *OrderItemRepoTestSuite) TestList_ProductFilter() {
	suite.mock.ExpectQuery(`FROM order_items WHERE 1=1 AND product_id = \$1 ORDER BY id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(suite.productID, 10, 0).
		WillReturnRows(suite.itemRow(1, 5.0))

	items, err := suite.repo.List(suite.context, &models.OrderItemFilter{ProductID: &suite.productID}, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), items, 1)
}

func (suite *OrderItemRepoTestSuite) TestSalesStatsByProduct() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\), COALESCE\(SUM\(quantity \* price\), 0\), COUNT\(\*\)`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"sum", "sum", "count"}).AddRow(42, 210.0, 7))

	stats, err := suite.repo.SalesStatsByProduct(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 42, stats.TotalQuantitySold)
	assert.Equal(suite.T(), 210.0, stats.TotalRevenue)
	assert.Equal(suite.T(), 7, stats.TotalOrders)
}

func (suite *OrderItemRepoTestSuite) TestSalesStatsByProduct_NoSales() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity\), 0\), COALESCE\(SUM\(quantity \* price\), 0\), COUNT\(\*\)`).
		WithArgs(suite.productID).
		WillReturnRows(pgxmock.NewRows([]string{"sum", "sum", "count"}).AddRow(0, 0.0, 0))

	stats, err := suite.repo.SalesStatsByProduct(suite.context, suite.productID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, stats.TotalQuantitySold)
	assert.Equal(suite.T(), 0.0, stats.TotalRevenue)
}
