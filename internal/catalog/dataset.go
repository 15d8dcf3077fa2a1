package catalog

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Dataset is the in-memory product set served when the remote catalog is
// unavailable. Admin mutations that cannot reach the remote are applied here.
type Dataset struct {
	mu       sync.RWMutex
	products []Product
	perm     func(n int) []int
}

func NewDataset(products []Product) *Dataset {
	cp := make([]Product, len(products))
	for i, p := range products {
		cp[i] = p.clone()
	}
	return &Dataset{products: cp, perm: rand.Perm}
}

func (d *Dataset) Search(f Filters) Page {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return Query(d.products, f)
}

// Get returns the product with id. Unknown ids resolve to the first product;
// found reports whether id itself matched. ok is false only for an empty set.
func (d *Dataset) Get(id string) (p Product, found, ok bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if len(d.products) == 0 {
		return Product{}, false, false
	}
	for _, p := range d.products {
		if p.ID == id {
			return p.clone(), true, true
		}
	}
	return d.products[0].clone(), false, true
}

func (d *Dataset) Featured(limit int) []Product {
	if limit < 1 {
		limit = DefaultLimit
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Product, 0, limit)
	for _, p := range d.products {
		if len(out) == limit {
			break
		}
		if p.Featured {
			out = append(out, p.clone())
		}
	}
	return out
}

// Random samples up to count distinct active products without replacement.
func (d *Dataset) Random(count int) []Product {
	d.mu.RLock()
	defer d.mu.RUnlock()
	active := make([]Product, 0, len(d.products))
	for _, p := range d.products {
		if p.Active {
			active = append(active, p)
		}
	}
	if count > len(active) {
		count = len(active)
	}
	if count < 0 {
		count = 0
	}
	out := make([]Product, 0, count)
	for _, i := range d.perm(len(active))[:count] {
		out = append(out, active[i].clone())
	}
	return out
}

func (d *Dataset) Stats() Stats {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var s Stats
	for _, p := range d.products {
		if p.Active {
			s.Active++
		}
	}
	s.Total = len(d.products)
	s.Inactive = s.Total - s.Active
	return s
}

// Categories lists the categories of active products in first-seen order.
func (d *Dataset) Categories() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{}
	for _, p := range d.products {
		if !p.Active {
			continue
		}
		for _, c := range p.Categories {
			if !seen[c] {
				seen[c] = true
				out = append(out, c)
			}
		}
	}
	return out
}

func (d *Dataset) Create(in ProductInput) Product {
	now := time.Now().UTC()
	p := Product{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Images:      cloneStrings(in.Images),
		Active:      in.Active == nil || *in.Active,
		Categories:  cloneStrings(in.Categories),
		Featured:    in.Featured,
		Sizes:       cloneStrings(in.Sizes),
		Seller:      "defaultSeller",
		CreatedAt:   &now,
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Categories == nil {
		p.Categories = []string{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	d.mu.Lock()
	d.products = append(d.products, p)
	d.mu.Unlock()
	return p.clone()
}

func (d *Dataset) Update(id string, patch ProductPatch) (Product, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.products {
		if p.ID == id {
			d.products[i] = patch.Apply(p)
			return d.products[i].clone(), true
		}
	}
	return Product{}, false
}

func (d *Dataset) Delete(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, p := range d.products {
		if p.ID == id {
			d.products = append(d.products[:i], d.products[i+1:]...)
			return true
		}
	}
	return false
}
