package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Vaccination struct {
	VaccinationID string `bson:"vaccinationId" json:"vaccinationId"`
	Name          string `bson:"name" json:"name"`
	DueDate       int64  `bson:"dueDate" json:"dueDate"`
	Notes         string `bson:"notes" json:"notes"`
	IsRecurring   bool   `bson:"isRecurring" json:"isRecurring"`
	ReminderSent  bool   `bson:"reminderSent" json:"reminderSent"`
}

type Pet struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	PetID        string             `bson:"petId" json:"petId"`
	OwnerID      string             `bson:"ownerId" json:"ownerId"`
	Name         string             `bson:"name" json:"name"`
	Type         string             `bson:"type" json:"type"`
	Breed        string             `bson:"breed" json:"breed"`
	BirthDate    int64              `bson:"birthDate" json:"birthDate"`
	VetName      string             `bson:"vetName,omitempty" json:"vetName,omitempty"`
	VetPhone     string             `bson:"vetPhone,omitempty" json:"vetPhone,omitempty"`
	Vaccinations []Vaccination      `bson:"vaccinations" json:"vaccinations"`
	CreatedAt    int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt    int64              `bson:"updatedAt" json:"updatedAt"`
}
