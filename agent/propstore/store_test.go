package propstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

const sampleCSV = `Listing Number,Address,City,State,List Price,Property Subtype,Image,Latitude,Longitude
1001,123 Maple Street,Austin,TX,"$450,000",Single Family Home,https://example.com/1001.jpg,30.2672,-97.7431
1002,456 Oak Avenue,Dallas,TX,"$325,500",Condo,,32.7767,-96.7970
1003,789 Pine Lane,Austin,TX,not-a-price,Townhouse,https://example.com/1003.jpg,30.25,-97.75
`

func writeDataset(t *testing.T, name string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(sampleCSV), 0o644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}
	return path
}

func asInt(t *testing.T, v any) int64 {
	t.Helper()
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		t.Fatalf("unexpected numeric type %T (%v)", v, v)
		return 0
	}
}

func TestNewLoadsCSV(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows, err := store.Query(context.Background(), DefaultQuery)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("loaded %d rows, want 3", len(rows))
	}
}

func TestNewResolvesDirectory(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "listings.csv")
	store, err := New(filepath.Dir(path))
	if err != nil {
		t.Fatalf("New(dir) error = %v", err)
	}
	rows, err := store.Query(context.Background(), DefaultQuery)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("directory resolution loaded no rows")
	}
}

func TestNewResolvesSiblingFilename(t *testing.T) {
	t.Parallel()

	path := writeDataset(t, "listing.csv")
	requested := filepath.Join(filepath.Dir(path), "listings.csv")
	store, err := New(requested)
	if err != nil {
		t.Fatalf("New(sibling) error = %v", err)
	}
	rows, err := store.Query(context.Background(), DefaultQuery)
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) == 0 {
		t.Fatalf("sibling resolution loaded no rows")
	}
}

func TestNewMissingDataset(t *testing.T) {
	t.Parallel()

	if _, err := New(filepath.Join(t.TempDir(), "listings.csv")); !errors.Is(err, contractx.ErrDatasetLoad) {
		t.Fatalf("New() error = %v, want ErrDatasetLoad", err)
	}
}

func TestPriceCoercion(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows, err := store.Query(context.Background(), "SELECT price FROM properties WHERE id = '1001'")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if got := asInt(t, rows[0]["price"]); got != 450000 {
		t.Fatalf("price = %d, want 450000", got)
	}

	rows, err = store.Query(context.Background(), "SELECT price FROM properties WHERE id = '1003'")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}
	if rows[0]["price"] != nil {
		t.Fatalf("unparseable price = %v, want NULL", rows[0]["price"])
	}
}

func TestQueryExecutionError(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := store.Query(context.Background(), "SELECT * FROM no_such_table"); !errors.Is(err, contractx.ErrQueryExecution) {
		t.Fatalf("Query() error = %v, want ErrQueryExecution", err)
	}
}

func TestSearchRanksByKeywordHits(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows, err := store.Search(context.Background(), "austin townhouse", 10)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Search() returned %d rows, want 2", len(rows))
	}
	// 1003 matches both keywords and must rank first.
	if got := fmt.Sprintf("%v", rows[0]["id"]); got != "1003" {
		t.Fatalf("top result id = %s, want 1003", got)
	}
}

func TestSearchHonorsLimit(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows, err := store.Search(context.Background(), "street avenue lane", 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Search() returned %d rows, want 1", len(rows))
	}
}

func TestConcurrentReadsSeeLoadedDataset(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	const readers = 32
	errCh := make(chan error, readers*2)
	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			rows, err := store.Query(context.Background(), DefaultQuery)
			if err != nil {
				errCh <- fmt.Errorf("Query() error = %v", err)
				return
			}
			if len(rows) != 3 {
				errCh <- fmt.Errorf("Query() returned %d rows, want 3", len(rows))
				return
			}

			hits, err := store.Search(context.Background(), "austin", 10)
			if err != nil {
				errCh <- fmt.Errorf("Search() error = %v", err)
				return
			}
			if len(hits) != 2 {
				errCh <- fmt.Errorf("Search() returned %d rows, want 2", len(hits))
			}
		}()
	}
	wg.Wait()
	close(errCh)

	for err := range errCh {
		t.Fatalf("concurrent read failed: %v", err)
	}
}

func TestSearchEmptyKeywords(t *testing.T) {
	t.Parallel()

	store, err := New(writeDataset(t, "listings.csv"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rows, err := store.Search(context.Background(), "   ", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("Search() with no keywords returned %d rows, want 0", len(rows))
	}
}
