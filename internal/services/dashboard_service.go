package services

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AnokSystem/anok-pedido-flow/internal/models"
)

const recentOrders = 5

// Dashboard summarizes a user's activity.
type Dashboard struct {
	Clients  int64                        `json:"clients"`
	Products int64                        `json:"products"`
	Orders   int64                        `json:"orders"`
	Quotes   int64                        `json:"quotes"`
	ByStatus map[models.OrderStatus]int64 `json:"by_status"`
	// Revenue sums the totals of non-cancelled orders; quotes are excluded.
	Revenue decimal.Decimal `json:"revenue"`
	Recent  []models.Order  `json:"recent"`
}

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

// Stats computes the dashboard of userID.
func (s *DashboardService) Stats(ctx context.Context, userID uint) (*Dashboard, error) {
	db := s.db.WithContext(ctx)
	d := &Dashboard{ByStatus: make(map[models.OrderStatus]int64, len(models.Statuses))}

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&d.Clients, db.Model(&models.Client{}).Where("user_id = ?", userID)},
		{&d.Products, db.Model(&models.Product{}).Where("user_id = ?", userID)},
		{&d.Orders, db.Model(&models.Order{}).Where("user_id = ? AND kind = ?", userID, models.KindOrder)},
		{&d.Quotes, db.Model(&models.Order{}).Where("user_id = ? AND kind = ?", userID, models.KindQuote)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	var rows []struct {
		Status models.OrderStatus
		N      int64
	}
	if err := db.Model(&models.Order{}).Select("status, COUNT(*) AS n").
		Where("user_id = ? AND kind = ?", userID, models.KindOrder).
		Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, st := range models.Statuses {
		d.ByStatus[st] = 0
	}
	for _, r := range rows {
		d.ByStatus[r.Status] = r.N
	}

	// Totals are summed from the loaded items rather than the stored copies.
	var billed []models.Order
	if err := db.Preload("Items").
		Where("user_id = ? AND kind = ? AND status <> ?", userID, models.KindOrder, models.StatusCancelled).
		Find(&billed).Error; err != nil {
		return nil, err
	}
	d.Revenue = decimal.Zero
	for _, o := range billed {
		d.Revenue = d.Revenue.Add(o.Total)
	}

	if err := db.Where("user_id = ?", userID).Preload("Client").Preload("Items", itemsByPosition).
		Order("created_at DESC").Limit(recentOrders).Find(&d.Recent).Error; err != nil {
		return nil, err
	}
	return d, nil
}
