package files

import (
	"bytes"
	"courier-route-service/internal/domain"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Required CSV columns of a deliveries file.
var deliveryColumns = []string{"customer", "latitude", "longitude", "priority", "weight_kg"}

var (
	ErrMissingColumns = errors.New("required column(s) missing")
	ErrInvalidNumber  = errors.New("not a number")
)

// A delivery row that failed validation. Row counts the header as row 1.
type RejectedRow struct {
	Row       int
	Cause     string
	Customer  string
	Latitude  string
	Longitude string
	Priority  string
	WeightKg  string
}

type depotFile struct {
	Name      string    `json:"name"`
	Latitude  flexFloat `json:"latitude"`
	Longitude flexFloat `json:"longitude"`
}

// flexFloat accepts a JSON number or a numeric string.
type flexFloat struct {
	value float64
	set   bool
}

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := parseDecimal(s)
		if err != nil {
			return err
		}
		f.value, f.set = v, true
		return nil
	}
	if string(b) == "null" {
		return nil
	}
	if err := json.Unmarshal(b, &f.value); err != nil {
		return err
	}
	f.set = true
	return nil
}

// LoadDepot reads a depot descriptor from a JSON file.
func LoadDepot(path string) (domain.Depot, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Depot{}, fmt.Errorf("load depot: open %q: %w", path, err)
	}
	defer f.Close()

	depot, err := DecodeDepot(f)
	if err != nil {
		return domain.Depot{}, fmt.Errorf("load depot %q: %w", path, err)
	}
	return depot, nil
}

// DecodeDepot parses {"latitude": .., "longitude": .., "name"?: ..} and checks
// the coordinate ranges.
func DecodeDepot(r io.Reader) (domain.Depot, error) {
	var raw depotFile
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return domain.Depot{}, fmt.Errorf("invalid depot data: %w", err)
	}
	if !raw.Latitude.set || !raw.Longitude.set {
		return domain.Depot{}, errors.New("invalid depot data: latitude and longitude are required")
	}

	depot := domain.Depot{
		Name:        strings.TrimSpace(raw.Name),
		Coordinates: domain.Coordinates{Lat: raw.Latitude.value, Lon: raw.Longitude.value},
	}
	if depot.Name == "" {
		depot.Name = domain.DefaultDepotName
	}

	if err := depot.Coordinates.Validate(); err != nil {
		return domain.Depot{}, fmt.Errorf("invalid depot data: %w", err)
	}
	return depot, nil
}

// LoadDeliveries reads and validates a deliveries CSV file. Invalid rows are
// returned as rejected instead of failing the load.
func LoadDeliveries(path string) ([]domain.Delivery, []RejectedRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("load deliveries: open %q: %w", path, err)
	}
	defer f.Close()

	deliveries, rejected, err := ReadDeliveries(f)
	if err != nil {
		return nil, nil, fmt.Errorf("load deliveries %q: %w", path, err)
	}
	return deliveries, rejected, nil
}

func ReadDeliveries(r io.Reader) ([]domain.Delivery, []RejectedRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(deliveryColumns, ", "))
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(strings.TrimSpace(h), "\ufeff")
		index[h] = i
	}

	missing := make([]string, 0)
	for _, c := range deliveryColumns {
		if _, ok := index[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	field := func(record []string, name string) string {
		i := index[name]
		if i >= len(record) {
			return ""
		}
		return record[i]
	}

	deliveries := make([]domain.Delivery, 0, 64)
	rejected := make([]RejectedRow, 0)

	for row := 2; ; row++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", row, err)
		}

		raw := RejectedRow{
			Row:       row,
			Customer:  field(record, "customer"),
			Latitude:  field(record, "latitude"),
			Longitude: field(record, "longitude"),
			Priority:  field(record, "priority"),
			WeightKg:  field(record, "weight_kg"),
		}

		d, err := ParseDelivery(raw.Customer, raw.Latitude, raw.Longitude, raw.Priority, raw.WeightKg)
		if err != nil {
			raw.Cause = err.Error()
			rejected = append(rejected, raw)
			continue
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, rejected, nil
}

// ParseDelivery validates one raw delivery record. Decimal commas are accepted
// in numeric fields.
func ParseDelivery(customer, lat, lon, priority, weight string) (domain.Delivery, error) {
	name := strings.TrimSpace(customer)
	if err := domain.ValidateCustomer(name); err != nil {
		return domain.Delivery{}, err
	}

	latV, err := parseDecimal(lat)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("latitude: %w", err)
	}
	lonV, err := parseDecimal(lon)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("longitude: %w", err)
	}
	coords := domain.Coordinates{Lat: latV, Lon: lonV}
	if err := coords.Validate(); err != nil {
		return domain.Delivery{}, err
	}

	p, err := domain.ParsePriority(priority)
	if err != nil {
		return domain.Delivery{}, err
	}

	w, err := parseDecimal(weight)
	if err != nil {
		return domain.Delivery{}, fmt.Errorf("weight_kg: %w", err)
	}
	if err := domain.ValidateWeight(w); err != nil {
		return domain.Delivery{}, err
	}

	return domain.Delivery{Customer: name, Coordinates: coords, Priority: p, WeightKg: w}, nil
}

func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, s)
	}
	return v, nil
}
