package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultImage is used when a sweet is created without an image URL.
const DefaultImage = "/placeholder.jpg"

type Category string

const (
	CategoryMilkSweets   Category = "Milk Sweets"
	CategorySugarSweets  Category = "Sugar Sweets"
	CategoryDryFruits    Category = "Dry Fruits"
	CategoryFestival     Category = "Festival Specials"
	CategoryFrozenTreats Category = "Frozen Treats"
	CategorySnacks       Category = "Savory Snacks"
)

// Categories lists every valid category, in menu order.
var Categories = []Category{
	CategoryMilkSweets,
	CategorySugarSweets,
	CategoryDryFruits,
	CategoryFestival,
	CategoryFrozenTreats,
	CategorySnacks,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Sweet struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name        string             `json:"name" bson:"name"`
	Category    Category           `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int                `json:"stock" bson:"stock"`
	Image       string             `json:"image" bson:"image"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	IsActive    bool               `json:"isActive" bson:"isActive"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SweetFilter narrows catalog searches. Zero values mean "no constraint".
type SweetFilter struct {
	Name     string
	Category string
	MinPrice *float64
	MaxPrice *float64
}

// SweetPatch is a partial update. Nil fields are left untouched.
type SweetPatch struct {
	Name        *string
	Category    *Category
	Price       *float64
	Stock       *int
	Image       *string
	Description *string
	IsActive    *bool
}

// Empty reports whether the patch would change nothing.
func (p SweetPatch) Empty() bool {
	return p.Name == nil && p.Category == nil && p.Price == nil &&
		p.Stock == nil && p.Image == nil && p.Description == nil && p.IsActive == nil
}
