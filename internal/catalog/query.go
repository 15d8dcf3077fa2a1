package catalog

import (
	"math"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPage  = 1
	DefaultLimit = 8
)

type Order string

const (
	OrderASC  Order = "ASC"
	OrderDESC Order = "DESC"
)

type Filters struct {
	Q        string
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Order    Order
	Page     int
	Limit    int
}

// Normalize fills defaults. Out-of-range values are replaced, never rejected.
func (f Filters) Normalize() Filters {
	if f.Order != OrderDESC {
		f.Order = OrderASC
	}
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// Values renders f as the remote query string.
func (f Filters) Values() url.Values {
	f = f.Normalize()
	v := url.Values{}
	v.Set("limit", strconv.Itoa(f.Limit))
	v.Set("page", strconv.Itoa(f.Page))
	v.Set("order", string(f.Order))
	if f.Q != "" {
		v.Set("q", f.Q)
	}
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", f.MaxPrice.String())
	}
	return v
}

// Page is the paginated result envelope.
type Page struct {
	Docs          []Product `json:"docs"`
	TotalDocs     int       `json:"totalDocs"`
	Limit         int       `json:"limit"`
	TotalPages    int       `json:"totalPages"`
	Page          int       `json:"page"`
	PagingCounter int       `json:"pagingCounter"`
	HasPrevPage   bool      `json:"hasPrevPage"`
	HasNextPage   bool      `json:"hasNextPage"`
	PrevPage      *int      `json:"prevPage"`
	NextPage      *int      `json:"nextPage"`
}

// NewPage builds the envelope for docs, the slice at page of a result set of
// totalDocs items. page and limit must be >= 1.
func NewPage(docs []Product, totalDocs, page, limit int) Page {
	totalPages := totalDocs / limit
	if totalDocs%limit != 0 {
		totalPages++
	}
	if totalPages < 1 {
		totalPages = 1
	}
	if docs == nil {
		docs = []Product{}
	}
	p := Page{
		Docs:          docs,
		TotalDocs:     totalDocs,
		Limit:         limit,
		TotalPages:    totalPages,
		Page:          page,
		PagingCounter: pagingCounter(page, limit),
		HasPrevPage:   page > 1,
		HasNextPage:   page < totalPages,
	}
	if p.HasPrevPage {
		prev := page - 1
		p.PrevPage = &prev
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPage = &next
	}
	return p
}

// pagingCounter is the 1-based position of the first doc of page, saturating
// at math.MaxInt.
func pagingCounter(page, limit int) int {
	if page-1 > (math.MaxInt-1)/limit {
		return math.MaxInt
	}
	return (page-1)*limit + 1
}

// Query filters, sorts and paginates products locally. It is the algorithm the
// fallback dataset answers searches with.
func Query(products []Product, f Filters) Page {
	f = f.Normalize()
	q := strings.ToLower(f.Q)

	docs := make([]Product, 0, len(products))
	for _, p := range products {
		if !p.Active {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if f.Category != "" && !p.HasCategory(f.Category) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		docs = append(docs, p.clone())
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if f.Order == OrderDESC {
			return docs[i].Price.GreaterThan(docs[j].Price)
		}
		return docs[i].Price.LessThan(docs[j].Price)
	})

	total := len(docs)
	start, end := total, total
	if f.Page-1 <= total/f.Limit {
		start = (f.Page - 1) * f.Limit
	}
	if f.Limit < end-start {
		end = start + f.Limit
	}
	return NewPage(docs[start:end], total, f.Page, f.Limit)
}
