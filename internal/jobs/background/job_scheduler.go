package background

import (
	"context"
	"time"

	"shopmart/internal/models"
	"shopmart/internal/repositories"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

const (
	lowStockThreshold = 10
	lowStockBatchSize = 100
)

// JobScheduler manages periodic maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	products  repositories.ProductRepository
	orders    repositories.OrderRepository
}

// NewJobScheduler creates a scheduler with all jobs registered
func NewJobScheduler(products repositories.ProductRepository, orders repositories.OrderRepository) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		products:  products,
		orders:    orders,
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info("Starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	_, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.reportLowStock),
		gocron.WithName("low-stock-report"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	_, err = js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.reportPendingBacklog),
		gocron.WithName("pending-order-backlog"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	return err
}

// reportLowStock logs products whose stock has fallen below the threshold
func (js *JobScheduler) reportLowStock() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	products, err := js.products.ListLowStock(ctx, lowStockThreshold, lowStockBatchSize)
	if err != nil {
		log.Errorf("Low stock report failed: %v", err)
		return
	}
	for _, product := range products {
		log.Warnf("Low stock: product %s (%s) has %d units remaining",
			product.Name, product.ID, product.StockQuantity)
	}
	log.Infof("Low stock report complete, %d products below threshold", len(products))
}

// reportPendingBacklog logs the current count of pending orders
func (js *JobScheduler) reportPendingBacklog() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pending := models.OrderStatusPending
	count, err := js.orders.Count(ctx, &models.OrderFilter{Status: &pending})
	if err != nil {
		log.Errorf("Pending backlog report failed: %v", err)
		return
	}
	log.Infof("Pending order backlog: %d orders", count)
}
