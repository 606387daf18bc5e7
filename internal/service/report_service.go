package service

import (
	"context"
	"sort"

	"go-inventory-orders/internal/repository"

	"github.com/shopspring/decimal"
)

// lowStockThreshold flags products running out on the summary card.
var lowStockThreshold = decimal.NewFromInt(10)

// ProductDemand is the accepted quantity of one product across the whole log.
type ProductDemand struct {
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// MonthlyRevenue is one month's revenue slice for growth charts.
type MonthlyRevenue struct {
	Month   string          `json:"month"` // 2006-01
	Revenue decimal.Decimal `json:"revenue"`
}

// SummaryStats are the overview card numbers.
type SummaryStats struct {
	AcceptedOrders  int             `json:"accepted_orders"`
	UniqueCustomers int             `json:"unique_customers"`
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	StockValuation  decimal.Decimal `json:"stock_valuation"`
}

// ReportService aggregates the transaction log and catalog for reporting.
// Everything here is read-only: revenue figures come from the price
// snapshots frozen at acceptance, never from current catalog prices.
type ReportService interface {
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	MonthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error)
	DemandByProduct(ctx context.Context) ([]ProductDemand, error)
	Summary(ctx context.Context) (*SummaryStats, error)
}

type reportService struct {
	products     repository.ProductRepository
	transactions repository.TransactionRepository
}

func NewReportService(products repository.ProductRepository, transactions repository.TransactionRepository) ReportService {
	return &reportService{products: products, transactions: transactions}
}

func (s *reportService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	entries, err := s.transactions.FindAll(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for i := range entries {
		total = total.Add(entries[i].Total())
	}
	return total, nil
}

func (s *reportService) MonthlyRevenue(ctx context.Context) ([]MonthlyRevenue, error) {
	entries, err := s.transactions.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byMonth := make(map[string]decimal.Decimal)
	for i := range entries {
		month := entries[i].AcceptedAt.Format("2006-01")
		byMonth[month] = byMonth[month].Add(entries[i].Total())
	}

	out := make([]MonthlyRevenue, 0, len(byMonth))
	for month, revenue := range byMonth {
		out = append(out, MonthlyRevenue{Month: month, Revenue: revenue})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out, nil
}

func (s *reportService) DemandByProduct(ctx context.Context) ([]ProductDemand, error) {
	entries, err := s.transactions.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	byProduct := make(map[string]decimal.Decimal)
	for _, entry := range entries {
		for _, item := range entry.Items {
			byProduct[item.ProductName] = byProduct[item.ProductName].Add(item.Quantity)
		}
	}

	out := make([]ProductDemand, 0, len(byProduct))
	for name, qty := range byProduct {
		out = append(out, ProductDemand{ProductName: name, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

func (s *reportService) Summary(ctx context.Context) (*SummaryStats, error) {
	entries, err := s.transactions.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	customers := make(map[string]bool, len(entries))
	for i := range entries {
		customers[entries[i].Customer] = true
	}

	stats := &SummaryStats{
		AcceptedOrders:  len(entries),
		UniqueCustomers: len(customers),
		TotalProducts:   len(products),
		StockValuation:  decimal.Zero,
	}
	for i := range products {
		if products[i].Stock.LessThan(lowStockThreshold) {
			stats.LowStockCount++
		}
		stats.StockValuation = stats.StockValuation.Add(products[i].Stock.Mul(products[i].Price))
	}
	return stats, nil
}
