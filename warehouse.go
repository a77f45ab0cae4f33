// warehouse.go
package main

import (
	"bytes"
	"crypto/md5"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pivolan/survey_analyzer/domain/models"
)

const warehouseBatchSize = 5000

// Warehouse exports analysis results into ClickHouse over its MySQL protocol
// port. Export is optional; an empty DSN in config disables it.
type Warehouse struct {
	db *gorm.DB
}

func OpenWarehouse(dsn string) (*Warehouse, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("cannot connect to warehouse: %w", err)
	}
	return &Warehouse{db: db}, nil
}

func getMD5String(input string) string {
	hasher := md5.New()
	hasher.Write([]byte(input))
	return hex.EncodeToString(hasher.Sum(nil))
}

var identifierJunk = regexp.MustCompile("[^a-zA-Z0-9]+")

func sanitizeIdentifier(input string) string {
	s := identifierJunk.ReplaceAllString(input, "_")
	s = strings.ReplaceAll(s, "__", "_")
	return strings.Trim(s, "_")
}

// warehouseTableName builds a stable table name from the leading dimension
// columns plus a hash of the full column set.
func warehouseTableName(prefix string, dims []string) string {
	parts := []string{prefix}
	n := len(dims)
	if n > 2 {
		n = 2
	}
	for _, d := range dims[:n] {
		parts = append(parts, strings.ToLower(sanitizeIdentifier(d)))
	}
	return strings.Join(parts, "_") + "_" + getMD5String(strings.Join(dims, ","))[:6]
}

// aggregatedTableSQL generates the CREATE TABLE statement for a mean table.
// Dimension means are Nullable because a product can lack ratings for a
// dimension entirely.
func aggregatedTableSQL(tableName string, dims []string) string {
	fields := []string{
		"product_id String",
		"brand String",
		"tier String",
		"popularity Nullable(Float64)",
	}
	for _, d := range dims {
		fields = append(fields, fmt.Sprintf("%s Nullable(Float64)", sanitizeIdentifier(d)))
	}
	return "CREATE TABLE " + tableName + " (" + strings.Join(fields, ",\n") +
		") ENGINE = ReplacingMergeTree PRIMARY KEY (product_id) SETTINGS index_granularity = 8192"
}

// ratingsTableSQL generates the CREATE TABLE statement for the respondent
// audit trail.
func ratingsTableSQL(tableName string) string {
	return "CREATE TABLE " + tableName + ` (respondent_id String,
product_id String,
dimension String,
score Float64) ENGINE = MergeTree ORDER BY (product_id, dimension) SETTINGS index_granularity = 8192`
}

// ExportAggregated recreates the mean table in the warehouse and returns its
// name.
func (w *Warehouse) ExportAggregated(rows []models.AggregatedProductRow) (string, error) {
	dims := RowDimensions(rows)
	tableName := warehouseTableName("survey_means", dims)
	if tx := w.db.Exec("DROP TABLE IF EXISTS " + tableName); tx.Error != nil {
		return "", tx.Error
	}
	if tx := w.db.Exec(aggregatedTableSQL(tableName, dims)); tx.Error != nil {
		return "", tx.Error
	}

	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		record := []string{
			quoteCSV(row.ProductID),
			quoteCSV(row.Brand),
			quoteCSV(row.Tier),
			"\\N",
		}
		if row.Popularity != nil {
			record[3] = strconv.FormatFloat(*row.Popularity, 'g', -1, 64)
		}
		for _, d := range dims {
			if v, ok := row.Dimension(d); ok {
				record = append(record, strconv.FormatFloat(v, 'g', -1, 64))
			} else {
				record = append(record, "\\N")
			}
		}
		records = append(records, record)
	}
	return tableName, w.insertBatches(tableName, records)
}

// ExportRatings ships the respondent-level rows next to the mean table.
func (w *Warehouse) ExportRatings(ratings []models.RespondentRating) (string, error) {
	dims := RatingDimensions(ratings)
	tableName := warehouseTableName("survey_ratings", dims)
	if tx := w.db.Exec("DROP TABLE IF EXISTS " + tableName); tx.Error != nil {
		return "", tx.Error
	}
	if tx := w.db.Exec(ratingsTableSQL(tableName)); tx.Error != nil {
		return "", tx.Error
	}

	records := make([][]string, 0, len(ratings))
	for _, r := range ratings {
		records = append(records, []string{
			quoteCSV(r.RespondentID),
			quoteCSV(r.ProductID),
			quoteCSV(r.Dimension),
			strconv.FormatFloat(r.Score, 'g', -1, 64),
		})
	}
	return tableName, w.insertBatches(tableName, records)
}

func (w *Warehouse) insertBatches(tableName string, records [][]string) error {
	b := bytes.NewBufferString("")
	csvWriter := csv.NewWriter(b)
	flush := func() error {
		csvWriter.Flush()
		if b.Len() == 0 {
			return nil
		}
		sql := fmt.Sprintf("INSERT INTO "+tableName+" FORMAT CSV \n%s", b.String())
		b.Reset()
		if tx := w.db.Exec(sql); tx.Error != nil {
			return tx.Error
		}
		return nil
	}
	for i, record := range records {
		csvWriter.Write(record)
		if (i+1)%warehouseBatchSize == 0 {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

func quoteCSV(value string) string {
	return "'" + sanitizeIdentifier(value) + "'"
}
