// Package ingest loads company corpus files (JSON or CSV) and feeds them to
// the search backend in bulk chunks.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"companymatch/internal/match/models"
	"companymatch/internal/match/ports"
)

// chunkSize bounds how many documents one bulk request carries.
const chunkSize = 500

// Loader drives corpus ingestion into the backend index.
type Loader struct {
	backend ports.SearchBackend
	logger  *slog.Logger
}

// NewLoader constructs a Loader.
func NewLoader(backend ports.SearchBackend, logger *slog.Logger) *Loader {
	return &Loader{backend: backend, logger: logger}
}

// Run ensures the index exists and ingests every given file, chunked.
// File type is decided by extension (.json or .csv).
func (l *Loader) Run(ctx context.Context, paths []string) (*models.IndexSummary, error) {
	if err := l.backend.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("ensure index: %w", err)
	}

	total := &models.IndexSummary{}
	for _, path := range paths {
		records, err := LoadFile(path)
		if err != nil {
			return total, fmt.Errorf("load %s: %w", path, err)
		}

		for offset := 0; offset < len(records); offset += chunkSize {
			end := min(offset+chunkSize, len(records))
			summary, err := l.backend.BulkIndex(ctx, records[offset:end])
			if err != nil {
				return total, fmt.Errorf("bulk index %s: %w", path, err)
			}
			total.Indexed += summary.Indexed
			total.Errors += summary.Errors
		}

		if l.logger != nil {
			l.logger.InfoContext(ctx, "ingested corpus file", "path", path, "records", len(records))
		}
	}
	return total, nil
}

// LoadFile parses one corpus file by extension.
func LoadFile(path string) ([]models.CompanyRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// rawCompany tolerates the two social media encodings seen in corpus files:
// a JSON array or a single comma-separated string.
type rawCompany struct {
	Domain         string          `json:"domain"`
	CommercialName string          `json:"companyCommercialName"`
	LegalName      string          `json:"companyLegalName"`
	Phone          string          `json:"phone"`
	SocialMedia    json.RawMessage `json:"socialMedia"`
	Address        string          `json:"address"`
}

// LoadJSON parses an array of company records.
func LoadJSON(path string) ([]models.CompanyRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var companies []rawCompany
	if err := json.Unmarshal(raw, &companies); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}

	records := make([]models.CompanyRecord, 0, len(companies))
	for _, c := range companies {
		records = append(records, models.CompanyRecord{
			Domain:         strings.TrimSpace(c.Domain),
			CommercialName: strings.TrimSpace(c.CommercialName),
			LegalName:      strings.TrimSpace(c.LegalName),
			Phone:          strings.TrimSpace(c.Phone),
			SocialMedia:    parseSocial(c.SocialMedia),
			Address:        strings.TrimSpace(c.Address),
		})
	}
	return records, nil
}

// LoadCSV parses a header-mapped CSV file. The socialMedia column may hold
// multiple URLs separated by commas inside one quoted cell.
func LoadCSV(path string) ([]models.CompanyRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	cell := func(row []string, names ...string) string {
		for _, name := range names {
			if i, ok := columns[name]; ok && i < len(row) {
				return strings.TrimSpace(row[i])
			}
		}
		return ""
	}

	var records []models.CompanyRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		records = append(records, models.CompanyRecord{
			Domain:         cell(row, "domain", "website"),
			CommercialName: cell(row, "companycommercialname", "commercial_name", "name"),
			LegalName:      cell(row, "companylegalname", "legal_name"),
			Phone:          cell(row, "phone"),
			SocialMedia:    splitSocial(cell(row, "socialmedia", "social_media")),
			Address:        cell(row, "address"),
		})
	}
	return records, nil
}

func parseSocial(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return trimAll(list)
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return splitSocial(single)
	}
	return nil
}

func splitSocial(v string) []string {
	if v == "" {
		return nil
	}
	return trimAll(strings.Split(v, ","))
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
