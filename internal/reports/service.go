package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/salepoint/salepoint-backend/internal/catalog"
	"github.com/salepoint/salepoint-backend/pkg/db"
	pkgerrors "github.com/salepoint/salepoint-backend/pkg/errors"
	"github.com/salepoint/salepoint-backend/pkg/logger"
	"github.com/salepoint/salepoint-backend/pkg/redis"
	"github.com/salepoint/salepoint-backend/pkg/timeutil"
)

// NoDataSentinel is returned as the best-seller name when the ledger holds
// no rows at all.
const NoDataSentinel = "NO DATA"

// RemovedItemPrefix annotates a best seller that was soft-deleted since.
const RemovedItemPrefix = "(Removed item) "

// BestSeller is the all-time top item by summed quantity.
type BestSeller struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// PeriodRevenue is the summed frame total for one date prefix.
type PeriodRevenue struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailyRevenue is the calendar day with the largest summed frame total.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Found   bool            `json:"found"`
}

// Service exposes the aggregate reports.
type Service interface {
	BestSellingItem(ctx context.Context) (BestSeller, error)
	RevenueForPeriod(ctx context.Context, prefix string) (PeriodRevenue, error)
	RevenueByInvoiceIDs(ctx context.Context, ids []int64) (decimal.Decimal, error)
	HighestRevenueDate(ctx context.Context) (DailyRevenue, error)
}

type service struct {
	repo  *Repository
	items *catalog.Repository
	cache *redis.Client
	ttl   time.Duration
	log   *logger.Logger
}

// NewService builds a reporting service. cache may be nil; reports then hit
// the store on every call.
func NewService(repo *Repository, items *catalog.Repository, cache *redis.Client, ttl time.Duration, log *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo, items: items, cache: cache, ttl: ttl, log: log}, nil
}

// cached wraps a report computation with a best-effort redis lookaside.
// Cache failures degrade to a direct read, never to a report failure.
func cached[T any](ctx context.Context, s *service, key string, compute func() (T, error)) (T, error) {
	var zero T
	if s.cache == nil {
		return compute()
	}

	fullKey := redis.ReportKey(key)
	if raw, err := s.cache.Get(ctx, fullKey); err == nil {
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			return out, nil
		}
	} else if err != redis.Nil && s.log != nil {
		s.log.Warn(ctx, "report cache read failed")
	}

	out, err := compute()
	if err != nil {
		return zero, err
	}

	if payload, err := json.Marshal(out); err == nil {
		if err := s.cache.Set(ctx, fullKey, payload, s.ttl); err != nil && s.log != nil {
			s.log.Warn(ctx, "report cache write failed")
		}
	}
	return out, nil
}

// BestSellingItem groups all historical rows by item and picks the largest
// summed quantity, lowest item ID winning ties. The name is annotated when
// the item was soft-removed; an empty ledger yields the no-data sentinel.
func (s *service) BestSellingItem(ctx context.Context) (BestSeller, error) {
	return cached(ctx, s, "best_seller", func() (BestSeller, error) {
		itemID, quantity, found, err := s.repo.BestSellerRow(ctx)
		if err != nil {
			return BestSeller{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "aggregating best seller")
		}
		if !found {
			return BestSeller{Name: NoDataSentinel}, nil
		}

		result := BestSeller{ItemID: itemID, Quantity: quantity}
		item, err := s.items.Find(ctx, itemID)
		switch {
		case db.IsNotFound(err):
			result.Name = RemovedItemPrefix + "unknown"
		case err != nil:
			return BestSeller{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "resolving best seller item")
		case item.Removed:
			result.Name = RemovedItemPrefix + item.Name
		default:
			result.Name = item.Name
		}
		return result, nil
	})
}

// RevenueForPeriod sums frame totals for the given date or month prefix. An
// empty prefix means the current month.
func (s *service) RevenueForPeriod(ctx context.Context, prefix string) (PeriodRevenue, error) {
	if prefix == "" {
		prefix = timeutil.CurrentMonthPrefix()
	}
	if !timeutil.ValidDatePrefix(prefix) {
		return PeriodRevenue{}, pkgerrors.New(pkgerrors.CodeValidation, "period must be YYYY-MM-DD or YYYY-MM")
	}

	return cached(ctx, s, "revenue_"+prefix, func() (PeriodRevenue, error) {
		revenue, err := s.repo.RevenueForPrefix(ctx, prefix)
		if err != nil {
			return PeriodRevenue{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "summing period revenue")
		}
		return PeriodRevenue{Period: prefix, Revenue: revenue}, nil
	})
}

// RevenueByInvoiceIDs sums the totals of the named frames. Unknown IDs
// contribute nothing; an empty set sums to zero.
func (s *service) RevenueByInvoiceIDs(ctx context.Context, ids []int64) (decimal.Decimal, error) {
	revenue, err := s.repo.RevenueByInvoiceIDs(ctx, ids)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "summing invoice revenue")
	}
	return revenue, nil
}

// HighestRevenueDate finds the calendar day whose committed frames sum the
// highest. Found is false on an empty ledger.
func (s *service) HighestRevenueDate(ctx context.Context) (DailyRevenue, error) {
	return cached(ctx, s, "highest_revenue_date", func() (DailyRevenue, error) {
		day, revenue, found, err := s.repo.HighestRevenueDay(ctx)
		if err != nil {
			return DailyRevenue{}, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "aggregating daily revenue")
		}
		if !found {
			return DailyRevenue{}, nil
		}
		return DailyRevenue{Date: day, Revenue: revenue, Found: true}, nil
	})
}
