package propstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	contractx "github.com/tanpawarit/Reside-Multi-Agent-Real-Estate-Assistant/agent/contract"
)

// DefaultQuery is the bounded fallback the executor reruns when a generated
// query comes back empty without erroring.
const DefaultQuery = "SELECT * FROM properties LIMIT 10"

const createTableSQL = `
CREATE TABLE IF NOT EXISTS properties (
	id TEXT,
	address TEXT,
	location TEXT,
	price INTEGER,
	description TEXT,
	image TEXT,
	lat REAL,
	lng REAL
)`

// Store loads a tabular property dataset into an in-memory sqlite database
// once at construction. It is read-only afterwards, so concurrent queries
// need no locking.
type Store struct {
	db *gorm.DB
}

// memSeq distinguishes the in-memory databases of separately constructed
// stores.
var memSeq atomic.Uint64

// New resolves dataFile tolerantly (directory lookup, singular/plural
// sibling), loads it, and returns a queryable store.
func New(dataFile string) (*Store, error) {
	path, err := resolveDataPath(dataFile)
	if err != nil {
		return nil, err
	}

	// A bare ":memory:" DSN gives every pooled connection its own empty
	// database. The named shared-cache DSN keeps the whole pool on the one
	// loaded dataset, so concurrent reads all see the same rows.
	dsn := fmt.Sprintf("file:propstore%d?mode=memory&cache=shared", memSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %v", contractx.ErrDatasetLoad, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: access connection pool: %v", contractx.ErrDatasetLoad, err)
	}
	// The database lives only as long as a connection holds it open; a
	// permanently idle connection pins it for the store's lifetime.
	sqlDB.SetMaxIdleConns(2)
	sqlDB.SetConnMaxLifetime(0)
	if err := db.Exec(createTableSQL).Error; err != nil {
		return nil, fmt.Errorf("%w: create properties table: %v", contractx.ErrDatasetLoad, err)
	}

	s := &Store{db: db}
	if err := s.load(path); err != nil {
		return nil, err
	}
	return s, nil
}

// Query runs a raw read query against the in-memory table and returns the
// rows as generic records.
func (s *Store) Query(ctx context.Context, query string) ([]contractx.Row, error) {
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrQueryExecution, err)
	}
	out := make([]contractx.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, contractx.Row(r))
	}
	return out, nil
}

// Search matches every keyword against address, location, and description
// with a parameterized LIKE query, scores rows by how many keywords hit, and
// returns the best matches first, capped at limit.
func (s *Store) Search(ctx context.Context, keywords string, limit int) ([]contractx.Row, error) {
	words := strings.Fields(strings.ToLower(keywords))
	if len(words) == 0 {
		return nil, nil
	}

	clauses := make([]string, 0, len(words)*3)
	args := make([]any, 0, len(words)*3)
	for _, w := range words {
		like := "%" + w + "%"
		for _, col := range []string{"address", "location", "description"} {
			clauses = append(clauses, "LOWER("+col+") LIKE ?")
			args = append(args, like)
		}
	}

	query := "SELECT id, address, location, price, description, image, lat, lng FROM properties WHERE " +
		strings.Join(clauses, " OR ")

	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrQueryExecution, err)
	}

	type scored struct {
		score int
		row   contractx.Row
	}
	matches := make([]scored, 0, len(rows))
	for _, r := range rows {
		text := strings.ToLower(fmt.Sprintf("%v %v %v", r["address"], r["location"], r["description"]))
		score := 0
		for _, w := range words {
			if strings.Contains(text, w) {
				score++
			}
		}
		if score > 0 {
			matches = append(matches, scored{score: score, row: contractx.Row(r)})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]contractx.Row, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.row)
	}
	return out, nil
}

func resolveDataPath(dataFile string) (string, error) {
	path := strings.TrimSpace(dataFile)
	if path == "" {
		return "", fmt.Errorf("%w: data file path is empty", contractx.ErrDatasetLoad)
	}

	if info, err := os.Stat(path); err == nil {
		if !info.IsDir() {
			return path, nil
		}
		for _, name := range []string{"listings.csv", "listing.csv"} {
			candidate := filepath.Join(path, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}
		return "", fmt.Errorf("%w: no listings file in directory %s", contractx.ErrDatasetLoad, path)
	}

	// Missing file: try the singular/plural sibling name.
	alt := "listings.csv"
	if filepath.Base(path) == "listings.csv" {
		alt = "listing.csv"
	}
	sibling := filepath.Join(filepath.Dir(path), alt)
	if _, err := os.Stat(sibling); err == nil {
		return sibling, nil
	}
	return "", fmt.Errorf("%w: %s not found", contractx.ErrDatasetLoad, path)
}

func (s *Store) load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", contractx.ErrDatasetLoad, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return s.loadCSV(f)
	}
	return s.loadJSON(f)
}

const insertSQL = "INSERT INTO properties (id, address, location, price, description, image, lat, lng) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

func (s *Store) loadCSV(r io.Reader) error {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("%w: read csv header: %v", contractx.ErrDatasetLoad, err)
	}
	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(col)] = i
	}
	field := func(record []string, name string) any {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return nil
		}
		v := strings.TrimSpace(record[i])
		if v == "" {
			return nil
		}
		return v
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: read csv record: %v", contractx.ErrDatasetLoad, err)
		}

		location := strings.Trim(fmt.Sprintf("%s, %s", str(field(record, "City")), str(field(record, "State"))), ", ")
		var loc any
		if location != "" {
			loc = location
		}
		if err := s.db.Exec(insertSQL,
			field(record, "Listing Number"),
			field(record, "Address"),
			loc,
			parsePrice(field(record, "List Price")),
			field(record, "Property Subtype"),
			field(record, "Image"),
			parseFloat(field(record, "Latitude")),
			parseFloat(field(record, "Longitude")),
		).Error; err != nil {
			return fmt.Errorf("%w: insert row: %v", contractx.ErrDatasetLoad, err)
		}
	}
	return nil
}

func (s *Store) loadJSON(r io.Reader) error {
	var items []map[string]any
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return fmt.Errorf("%w: decode json dataset: %v", contractx.ErrDatasetLoad, err)
	}
	for _, item := range items {
		lat := item["lat"]
		if lat == nil {
			lat = item["latitude"]
		}
		lng := item["lng"]
		if lng == nil {
			lng = item["longitude"]
		}
		if err := s.db.Exec(insertSQL,
			item["id"],
			item["address"],
			item["location"],
			parsePrice(item["price"]),
			item["description"],
			item["image"],
			parseFloat(lat),
			parseFloat(lng),
		).Error; err != nil {
			return fmt.Errorf("%w: insert row: %v", contractx.ErrDatasetLoad, err)
		}
	}
	return nil
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

// parsePrice coerces "$1,234,567" style strings to integers; anything
// unparseable becomes NULL rather than failing the load.
func parsePrice(v any) any {
	switch p := v.(type) {
	case nil:
		return nil
	case int:
		return p
	case float64:
		return int(p)
	case string:
		cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(p))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return int(f)
	default:
		return nil
	}
}

func parseFloat(v any) any {
	switch f := v.(type) {
	case nil:
		return nil
	case float64:
		return f
	case int:
		return float64(f)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil
		}
		return parsed
	default:
		return nil
	}
}
