package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"rental-market/models"
)

var csvHeader = []string{
	"rank", "id", "title", "type", "price", "city", "country",
	"bedrooms", "bathrooms", "max_guests", "owner", "premium",
	"rating", "review_count", "amenities", "primary_image", "created_at",
}

// CSVWriter exports ranked listings to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// Export writes one row per listing, in the order given.
func (c *CSVWriter) Export(listings []models.NormalizedListing) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range listings {
		rating := ""
		if l.Rating != nil {
			rating = strconv.FormatFloat(*l.Rating, 'f', 2, 64)
		}
		primary := ""
		if len(l.Images) > 0 {
			primary = l.Images[0]
		}
		row := []string{
			strconv.Itoa(i + 1),
			l.ID.String(),
			l.Title,
			string(l.Type),
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			l.Location.City,
			l.Location.Country,
			strconv.Itoa(l.Bedrooms),
			strconv.Itoa(l.Bathrooms),
			strconv.Itoa(l.MaxGuests),
			l.Owner.Name,
			strconv.FormatBool(l.Owner.IsSubscribed),
			rating,
			strconv.Itoa(l.ReviewCount),
			strings.Join(l.Amenities, "|"),
			primary,
			l.CreatedAt.Format(time.RFC3339),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
