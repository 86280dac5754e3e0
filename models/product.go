package models

import "time"

type Product struct {
	ProductID   string    `json:"productId" bson:"productId"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Category    string    `json:"category" bson:"category"`
	Price       float64   `json:"price" bson:"price"` // one price across sizes
	Sizes       []string  `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Colors      []string  `json:"colors,omitempty" bson:"colors,omitempty"`
	Stock       int       `json:"stock" bson:"stock"`
	Images      []string  `json:"images,omitempty" bson:"images,omitempty"` // CDN image ids
	Active      bool      `json:"active" bson:"active"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}
