package seed

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"gkmedicos/api/domain"
	"gkmedicos/api/internal/store"
)

// catalogRow is one line of the opening-stock CSV.
type catalogRow struct {
	Name              string  `csv:"name"`
	Category          string  `csv:"category"`
	BatchNumber       string  `csv:"batchNumber"`
	ExpiryDate        string  `csv:"expiryDate"`
	Quantity          int64   `csv:"quantity"`
	PurchasePrice     float64 `csv:"purchasePrice"`
	SellingPrice      float64 `csv:"sellingPrice"`
	LowStockThreshold int64   `csv:"lowStockThreshold"`
	SupplierName      string  `csv:"supplierName"`
	SupplierPhone     string  `csv:"supplierPhone"`
	SupplierAddress   string  `csv:"supplierAddress"`
}

// LoadCatalog ingests the CSV into the medicines table, creating suppliers
// by name as needed. Rows whose name and batch are already stocked are
// skipped, so loading the same file twice is harmless. It returns how many
// medicines were added.
func LoadCatalog(ctx context.Context, st *store.Store, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	var rows []*catalogRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return 0, err
	}

	suppliers := make(map[string]int64)
	added := 0
	for i, row := range rows {
		name := strings.TrimSpace(row.Name)
		if name == "" || strings.TrimSpace(row.SupplierName) == "" {
			zap.S().Warnf("catalog row %d skipped: name and supplierName are required", i+2)
			continue
		}
		expiry, err := dateparse.ParseIn(strings.TrimSpace(row.ExpiryDate), time.UTC)
		if err != nil {
			zap.S().Warnf("catalog row %d skipped: bad expiryDate %q", i+2, row.ExpiryDate)
			continue
		}
		exists, err := st.HasBatch(ctx, name, row.BatchNumber)
		if err != nil {
			return added, err
		}
		if exists {
			continue
		}
		supplierID, err := supplierFor(ctx, st, suppliers, row)
		if err != nil {
			return added, err
		}
		threshold := row.LowStockThreshold
		if threshold <= 0 {
			threshold = domain.DefaultLowStockThreshold
		}
		_, err = st.CreateMedicine(ctx, domain.Medicine{
			Name:              name,
			Category:          strings.TrimSpace(row.Category),
			BatchNumber:       strings.TrimSpace(row.BatchNumber),
			ExpiryDate:        expiry.Format(domain.DateLayout),
			Quantity:          row.Quantity,
			PurchasePrice:     row.PurchasePrice,
			SellingPrice:      row.SellingPrice,
			SupplierID:        supplierID,
			LowStockThreshold: threshold,
		})
		if err != nil {
			zap.S().Warnf("unable to insert medicine %s: %v", name, err)
			continue
		}
		added++
	}
	zap.S().Infof("seeded medicine catalog with %d rows", added)
	return added, nil
}

func supplierFor(ctx context.Context, st *store.Store, cache map[string]int64, row *catalogRow) (int64, error) {
	key := strings.ToLower(strings.TrimSpace(row.SupplierName))
	if id, ok := cache[key]; ok {
		return id, nil
	}
	sup, err := st.SupplierByName(ctx, row.SupplierName)
	if errors.Is(err, store.ErrNotFound) {
		sup, err = st.CreateSupplier(ctx, domain.Supplier{
			Name:    strings.TrimSpace(row.SupplierName),
			Phone:   strings.TrimSpace(row.SupplierPhone),
			Address: strings.TrimSpace(row.SupplierAddress),
		})
	}
	if err != nil {
		return 0, err
	}
	cache[key] = sup.ID
	return sup.ID, nil
}
