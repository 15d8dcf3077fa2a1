package catalog

import "github.com/shopspring/decimal"

// Seed returns a fresh copy of the built-in fallback products.
func Seed() []Product {
	return []Product{
		{
			ID:          "p1",
			Name:        "Set de vasos de cristal",
			Description: "Juego de 6 vasos de cristal transparente de alta calidad.",
			Price:       decimal.RequireFromString("24.5"),
			Images: []string{
				"https://images.pexels.com/photos/1395308/pexels-photo-1395308.jpeg",
				"https://images.pexels.com/photos/2789328/pexels-photo-2789328.jpeg",
			},
			Active:     true,
			Categories: []string{"hogar", "cocina"},
			Featured:   true,
			Sizes:      []string{"200ml", "300ml"},
			Seller:     "defaultSeller",
		},
		{
			ID:          "p2",
			Name:        "Lámpara de mesa vintage",
			Description: "Lámpara de mesa con diseño vintage y base de madera.",
			Price:       decimal.RequireFromString("49.99"),
			Images:      []string{"https://images.pexels.com/photos/1125137/pexels-photo-1125137.jpeg"},
			Active:      true,
			Categories:  []string{"hogar", "decoración"},
			Sizes:       []string{},
			Seller:      "defaultSeller",
		},
		{
			ID:          "p3",
			Name:        "Cojín decorativo",
			Description: "Cojín decorativo con funda removible y lavable.",
			Price:       decimal.RequireFromString("15.75"),
			Images:      []string{"https://images.pexels.com/photos/6492397/pexels-photo-6492397.jpeg"},
			Active:      true,
			Categories:  []string{"hogar", "textil"},
			Featured:    true,
			Sizes:       []string{"40x40cm", "50x50cm"},
			Seller:      "defaultSeller",
		},
		{
			ID:          "p4",
			Name:        "Vaso térmico acero",
			Description: "Vaso térmico de acero inoxidable 500ml.",
			Price:       decimal.RequireFromString("19.99"),
			Images:      []string{"https://images.pexels.com/photos/4041392/pexels-photo-4041392.jpeg"},
			Active:      true,
			Categories:  []string{"outdoor"},
			Sizes:       []string{"500ml"},
		},
		{
			ID:          "p5",
			Name:        "Remera básica unisex",
			Description: "Remera de algodón peinado.",
			Price:       decimal.RequireFromString("12.99"),
			Images:      []string{"https://images.pexels.com/photos/10026491/pexels-photo-10026491.jpeg"},
			Active:      true,
			Categories:  []string{"moda", "remera"},
			Sizes:       []string{"S", "M", "L"},
		},
	}
}
