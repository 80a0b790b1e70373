package model

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ErrEmptyID is returned when an entity has a blank identifier.
var ErrEmptyID = errors.New("id cannot be empty")

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateNonEmptyID is the identity rule shared by every entity.
func ValidateNonEmptyID(kind, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: %w", kind, ErrEmptyID)
	}
	return nil
}

// Customer is someone who places orders.
type Customer struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email" validate:"omitempty,contains=@"`
	LifetimeValue float64 `json:"lifetime_value"`
}

func (c Customer) Validate() error {
	if err := ValidateNonEmptyID("customer", c.ID); err != nil {
		return err
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("customer %s: %w", c.ID, err)
	}
	return nil
}

// Product is an item sold by the company.
type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	BasePrice float64 `json:"base_price" validate:"gte=0"`
}

func (p Product) Validate() error {
	if err := ValidateNonEmptyID("product", p.ID); err != nil {
		return err
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("product %s: %w", p.ID, err)
	}
	return nil
}

// Order is a single customer order.
type Order struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	Items      []string  `json:"items"`
	CustomerID string    `json:"customer_id"`
	Amount     float64   `json:"amount" validate:"gte=0"`
	Status     string    `json:"status"`
}

func (o Order) Validate() error {
	if err := ValidateNonEmptyID("order", o.ID); err != nil {
		return err
	}
	if err := ValidateNonEmptyID("order customer", o.CustomerID); err != nil {
		return err
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("order %s: %w", o.ID, err)
	}
	return nil
}

// CustomersFromRecords derives one Customer per distinct customer ID with its
// lifetime value set to the summed order amount. The result is sorted by ID.
func CustomersFromRecords(records []CleanRecord) ([]Customer, error) {
	totals := make(map[string]decimal.Decimal)
	for _, r := range records {
		totals[r.CustomerID] = totals[r.CustomerID].Add(decimal.NewFromFloat(r.OrderAmount))
	}

	customers := make([]Customer, 0, len(totals))
	for id, total := range totals {
		customers = append(customers, Customer{ID: id, LifetimeValue: total.InexactFloat64()})
	}
	slices.SortFunc(customers, func(a, b Customer) int { return strings.Compare(a.ID, b.ID) })

	var errs []error
	for _, c := range customers {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return customers, errors.Join(errs...)
}
