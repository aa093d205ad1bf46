package models

// Vehicle is a read-only projection of the vehicle directory.
type Vehicle struct {
	ID           string `bson:"id" json:"id"`
	OwnerID      string `bson:"owner_id" json:"owner_id"`
	Make         string `bson:"make" json:"make"`
	Model        string `bson:"model" json:"model"`
	Year         int    `bson:"year" json:"year"`
	LicensePlate string `bson:"license_plate" json:"license_plate"`
}
