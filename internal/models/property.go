package models

import "time"

// Property is the listing summary returned by searches.
type Property struct {
	ID            string       `json:"id" bson:"_id"`
	Title         string       `json:"title" bson:"title"`
	Description   string       `json:"description,omitempty" bson:"description"`
	PropertyType  PropertyType `json:"propertyType" bson:"propertyType"`
	Price         float64      `json:"price" bson:"price"`
	Currency      string       `json:"currency" bson:"currency"`
	Bedrooms      int          `json:"bedrooms" bson:"bedrooms"`
	Bathrooms     int          `json:"bathrooms" bson:"bathrooms"`
	Amenities     []string     `json:"amenities,omitempty" bson:"amenities"`
	Furnished     bool         `json:"furnished" bson:"furnished"`
	PetFriendly   bool         `json:"petFriendly" bson:"petFriendly"`
	Parking       bool         `json:"parking" bson:"parking"`
	Neighborhood  string       `json:"neighborhood,omitempty" bson:"neighborhood"`
	Address       string       `json:"address,omitempty" bson:"address"`
	Coordinates   *Coordinates `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Featured      bool         `json:"featured" bson:"featured"`
	AvailableFrom *time.Time   `json:"availableFrom,omitempty" bson:"availableFrom,omitempty"`
	CreatedAt     time.Time    `json:"createdAt" bson:"createdAt"`
}
