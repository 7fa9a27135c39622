package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// GeoPoint is a GeoJSON Point, coordinates ordered [longitude, latitude] as
// required by the 2dsphere index.
type GeoPoint struct {
	Type        string    `bson:"type" json:"type"`
	Coordinates []float64 `bson:"coordinates" json:"coordinates"`
}

type DiseasePoint struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Location       GeoPoint           `bson:"location" json:"location"`
	DiseaseName    string             `bson:"diseaseName" json:"diseaseName"`
	CropType       string             `bson:"cropType" json:"cropType"`
	Intensity      float64            `bson:"intensity" json:"intensity"` // 0..1
	CaseCount      int                `bson:"caseCount" json:"caseCount"`
	PlaceName      string             `bson:"placeName" json:"placeName"`
	IsPlantDisease bool               `bson:"isPlantDisease" json:"isPlantDisease"`
	Notes          string             `bson:"notes" json:"notes"`
	ReportDate     int64              `bson:"reportDate" json:"reportDate"`
	ReportedBy     string             `bson:"reportedBy" json:"reportedBy"`
	UpdatedAt      int64              `bson:"updatedAt" json:"updatedAt"`
}
