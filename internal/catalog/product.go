package catalog

import (
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// the remote catalog exchanges prices as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrNotFound        = errors.New("product not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoRemote        = errors.New("no remote catalog configured")
	ErrEmptyDataset    = errors.New("fallback dataset is empty")
)

type Product struct {
	ID          string          `json:"_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images"`
	Active      bool            `json:"active"`
	Categories  []string        `json:"categories"`
	Featured    bool            `json:"featured"`
	Sizes       []string        `json:"sizes"`
	Seller      string          `json:"seller,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

func (p Product) HasCategory(c string) bool {
	for _, pc := range p.Categories {
		if pc == c {
			return true
		}
	}
	return false
}

func (p Product) clone() Product {
	p.Images = cloneStrings(p.Images)
	p.Categories = cloneStrings(p.Categories)
	p.Sizes = cloneStrings(p.Sizes)
	return p
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append(make([]string, 0, len(s)), s...)
}

type Stats struct {
	Active   int `json:"active"`
	Total    int `json:"total"`
	Inactive int `json:"inactive"`
}

// ProductInput is the admin create payload. A nil Active means true.
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Images      []string        `json:"images,omitempty"`
	Active      *bool           `json:"active,omitempty"`
	Categories  []string        `json:"categories,omitempty"`
	Featured    bool            `json:"featured"`
	Sizes       []string        `json:"sizes,omitempty"`
}

func (in ProductInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Wrap(ErrInvalidArgument, "name is required")
	}
	if in.Price.IsNegative() {
		return errors.Wrap(ErrInvalidArgument, "price must be non-negative")
	}
	return nil
}

// ProductPatch is the admin partial update. Nil fields are left untouched.
type ProductPatch struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Images      []string         `json:"images,omitempty"`
	Active      *bool            `json:"active,omitempty"`
	Categories  []string         `json:"categories,omitempty"`
	Featured    *bool            `json:"featured,omitempty"`
	Sizes       []string         `json:"sizes,omitempty"`
}

func (pt ProductPatch) Validate() error {
	if pt.Name != nil && strings.TrimSpace(*pt.Name) == "" {
		return errors.Wrap(ErrInvalidArgument, "name must not be empty")
	}
	if pt.Price != nil && pt.Price.IsNegative() {
		return errors.Wrap(ErrInvalidArgument, "price must be non-negative")
	}
	return nil
}

// Apply merges the patch into p field by field.
func (pt ProductPatch) Apply(p Product) Product {
	p = p.clone()
	if pt.Name != nil {
		p.Name = *pt.Name
	}
	if pt.Description != nil {
		p.Description = *pt.Description
	}
	if pt.Price != nil {
		p.Price = *pt.Price
	}
	if pt.Images != nil {
		p.Images = cloneStrings(pt.Images)
	}
	if pt.Active != nil {
		p.Active = *pt.Active
	}
	if pt.Categories != nil {
		p.Categories = cloneStrings(pt.Categories)
	}
	if pt.Featured != nil {
		p.Featured = *pt.Featured
	}
	if pt.Sizes != nil {
		p.Sizes = cloneStrings(pt.Sizes)
	}
	return p
}
