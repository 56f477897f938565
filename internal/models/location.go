package models

import "fmt"

type LocationSource string

const (
	LocationSourceGPS    LocationSource = "gps"
	LocationSourceIP     LocationSource = "ip"
	LocationSourceManual LocationSource = "manual"
)

// Location is an immutable coordinate supplied by the caller.
type Location struct {
	Lat      float64        `json:"lat" bson:"lat" validate:"gte=-90,lte=90"`
	Lng      float64        `json:"lng" bson:"lng" validate:"gte=-180,lte=180"`
	Accuracy *float64       `json:"accuracy,omitempty" bson:"accuracy,omitempty" validate:"omitempty,gte=0"`
	Source   LocationSource `json:"source,omitempty" bson:"source,omitempty" validate:"omitempty,oneof=gps ip manual"`
}

func (l Location) String() string {
	return fmt.Sprintf("(%.5f, %.5f)", l.Lat, l.Lng)
}

// Coordinates is the plain lat/lng pair carried in suggestion metadata.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}
