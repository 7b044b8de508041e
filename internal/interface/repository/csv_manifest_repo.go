package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"checkpoint-service/internal/domain/entity"
	"checkpoint-service/internal/domain/repository"
	"checkpoint-service/pkg/utils"
)

var csvHeader = []string{
	"flight_number", "flight_date", "flight_time", "origin", "destination",
	"name", "birthdate", "seat",
	"valid_dob", "valid_person", "valid_luggage", "valid_name", "valid_boardingpass",
}

// CSVManifestRepository implements the ManifestRepository interface on the
// original flat-file manifest format: one CSV for the full manifest, one
// single-row snapshot per validated passenger.
type CSVManifestRepository struct {
	manifestPath string
	validatedDir string
	mu           sync.RWMutex
	records      []entity.ManifestRecord
}

// NewCSVManifestRepository creates a new CSV manifest repository
func NewCSVManifestRepository(manifestPath, validatedDir string) *CSVManifestRepository {
	return &CSVManifestRepository{
		manifestPath: manifestPath,
		validatedDir: validatedDir,
	}
}

// Load parses the manifest CSV into the working view. Unknown columns are
// ignored so manifests with extra passenger attributes still load.
func (r *CSVManifestRepository) Load(ctx context.Context) ([]entity.ManifestRecord, error) {
	f, err := os.Open(r.manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest %s: %w", r.manifestPath, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", r.manifestPath, err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("manifest %s is empty", r.manifestPath)
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[name] = i
	}

	records := make([]entity.ManifestRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		record, err := parseManifestRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("manifest row %d: %w", line+1, err)
		}
		records = append(records, record)
	}

	r.mu.Lock()
	r.records = records
	r.mu.Unlock()

	snapshot := make([]entity.ManifestRecord, len(records))
	copy(snapshot, records)
	return snapshot, nil
}

func parseManifestRow(columns map[string]int, row []string) (entity.ManifestRecord, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}
	flag := func(name string) bool {
		value, _ := strconv.ParseBool(field(name))
		return value
	}

	birthdate, err := parseDate(field("birthdate"))
	if err != nil {
		return entity.ManifestRecord{}, fmt.Errorf("birthdate: %w", err)
	}
	flightDate, err := parseDate(field("flight_date"))
	if err != nil {
		return entity.ManifestRecord{}, fmt.Errorf("flight_date: %w", err)
	}

	return entity.ManifestRecord{
		Name:              field("name"),
		Birthdate:         birthdate,
		Seat:              field("seat"),
		FlightNumber:      field("flight_number"),
		FlightDate:        flightDate,
		FlightTime:        field("flight_time"),
		Origin:            field("origin"),
		Destination:       field("destination"),
		ValidDOB:          flag("valid_dob"),
		ValidName:         flag("valid_name"),
		ValidBoardingPass: flag("valid_boardingpass"),
		ValidPerson:       flag("valid_person"),
		ValidLuggage:      flag("valid_luggage"),
	}, nil
}

// parseDate accepts both ISO and US date renderings found in manifest files
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(utils.DOB_LAYOUT, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(utils.US_DATE_LAYOUT, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", value)
	}
	return t, nil
}

// FindByName returns indices of rows matching name exactly
func (r *CSVManifestRepository) FindByName(name string) []int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var indices []int
	for i := range r.records {
		if r.records[i].Name == name {
			indices = append(indices, i)
		}
	}
	return indices
}

// Record returns a copy of the row at idx
func (r *CSVManifestRepository) Record(idx int) (entity.ManifestRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if idx < 0 || idx >= len(r.records) {
		return entity.ManifestRecord{}, fmt.Errorf("manifest row %d out of range", idx)
	}
	return r.records[idx], nil
}

// SetFlags sets validity flags on the row at idx
func (r *CSVManifestRepository) SetFlags(ctx context.Context, idx int, flags ...entity.Flag) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.records) {
		return fmt.Errorf("manifest row %d out of range", idx)
	}
	for _, f := range flags {
		r.records[idx].SetFlag(f)
	}
	return nil
}

// PersistRow writes a single-row snapshot named after the row index. The
// write goes through a temp file and rename so a concurrent reader never
// sees a partial snapshot.
func (r *CSVManifestRepository) PersistRow(ctx context.Context, idx int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if idx < 0 || idx >= len(r.records) {
		return fmt.Errorf("manifest row %d out of range", idx)
	}
	record := r.records[idx]

	if err := os.MkdirAll(r.validatedDir, 0o755); err != nil {
		return fmt.Errorf("failed to create validated dir: %w", err)
	}

	tmp, err := os.CreateTemp(r.validatedDir, "manifest-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(csvHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	if err := w.Write(manifestRowValues(record)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot temp file: %w", err)
	}

	target := filepath.Join(r.validatedDir, fmt.Sprintf("flight_manifest_%d.csv", idx))
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

func manifestRowValues(record entity.ManifestRecord) []string {
	return []string{
		record.FlightNumber,
		record.FlightDate.Format(utils.DOB_LAYOUT),
		record.FlightTime,
		record.Origin,
		record.Destination,
		record.Name,
		record.Birthdate.Format(utils.US_DATE_LAYOUT),
		record.Seat,
		strconv.FormatBool(record.ValidDOB),
		strconv.FormatBool(record.ValidPerson),
		strconv.FormatBool(record.ValidLuggage),
		strconv.FormatBool(record.ValidName),
		strconv.FormatBool(record.ValidBoardingPass),
	}
}

var _ repository.ManifestRepository = (*CSVManifestRepository)(nil)
