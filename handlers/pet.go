package handlers

import (
	"context"
	"log"
	"net/http"
	"sort"
	"strconv"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreatePetRequest struct {
	Name      string `json:"name" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Breed     string `json:"breed"`
	BirthDate int64  `json:"birthDate"`
	VetName   string `json:"vetName"`
	VetPhone  string `json:"vetPhone"`
}

// findOwnedPet fetches a pet and enforces that the caller owns it.
func findOwnedPet(ctx context.Context, c *gin.Context, petID string) (*models.Pet, bool) {
	var pet models.Pet
	err := database.Pets.FindOne(ctx, bson.M{"petId": petID}).Decode(&pet)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Pet not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return nil, false
	}
	if pet.OwnerID != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to access this pet"})
		return nil, false
	}
	return &pet, true
}

func GetPets(c *gin.Context) {
	userID := c.GetString("userId")

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Pets.Find(ctx, bson.M{"ownerId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching pets"})
		return
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err := cursor.All(ctx, &pets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding pets"})
		return
	}
	if pets == nil {
		pets = []models.Pet{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": pets})
}

func GetPet(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": pet})
}

func CreatePet(c *gin.Context) {
	var req CreatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	now := time.Now().UnixMilli()
	pet := models.Pet{
		PetID:        uuid.NewString(),
		OwnerID:      c.GetString("userId"),
		Name:         req.Name,
		Type:         req.Type,
		Breed:        req.Breed,
		BirthDate:    req.BirthDate,
		VetName:      req.VetName,
		VetPhone:     req.VetPhone,
		Vaccinations: []models.Vaccination{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := database.Pets.InsertOne(ctx, pet); err != nil {
		log.Printf("CreatePet insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating pet"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": pet})
}

type UpdatePetRequest struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Breed     string `json:"breed"`
	BirthDate int64  `json:"birthDate"`
	VetName   string `json:"vetName"`
	VetPhone  string `json:"vetPhone"`
}

func UpdatePet(c *gin.Context) {
	var req UpdatePetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}

	set := bson.M{"updatedAt": time.Now().UnixMilli()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Type != "" {
		set["type"] = req.Type
	}
	if req.Breed != "" {
		set["breed"] = req.Breed
	}
	if req.BirthDate != 0 {
		set["birthDate"] = req.BirthDate
	}
	if req.VetName != "" {
		set["vetName"] = req.VetName
	}
	if req.VetPhone != "" {
		set["vetPhone"] = req.VetPhone
	}

	var updated models.Pet
	err := database.Pets.FindOneAndUpdate(ctx,
		bson.M{"petId": pet.PetID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("UpdatePet error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating pet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func DeletePet(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}

	if _, err := database.Pets.DeleteOne(ctx, bson.M{"petId": pet.PetID}); err != nil {
		log.Printf("DeletePet error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting pet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Pet deleted successfully"})
}

// UpcomingVaccination pairs a due vaccination with the pet it belongs to.
type UpcomingVaccination struct {
	PetID       string             `json:"petId"`
	PetName     string             `json:"petName"`
	PetType     string             `json:"petType"`
	Vaccination models.Vaccination `json:"vaccination"`
}

// upcomingVaccinations collects vaccinations due between now and the horizon,
// inclusive, sorted by due date ascending.
func upcomingVaccinations(pets []models.Pet, now, horizon int64) []UpcomingVaccination {
	upcoming := []UpcomingVaccination{}
	for _, pet := range pets {
		for _, v := range pet.Vaccinations {
			if v.DueDate >= now && v.DueDate <= horizon {
				upcoming = append(upcoming, UpcomingVaccination{
					PetID:       pet.PetID,
					PetName:     pet.Name,
					PetType:     pet.Type,
					Vaccination: v,
				})
			}
		}
	}
	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Vaccination.DueDate < upcoming[j].Vaccination.DueDate
	})
	return upcoming
}

// GetUpcomingVaccinations returns the caller's vaccinations due within the
// next ?days (default 30), soonest first.
func GetUpcomingVaccinations(c *gin.Context) {
	userID := c.GetString("userId")

	days := int64(30)
	if raw := c.Query("days"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid days value"})
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	cursor, err := database.Pets.Find(ctx, bson.M{"ownerId": userID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching pets"})
		return
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err := cursor.All(ctx, &pets); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding pets"})
		return
	}

	now := time.Now().UnixMilli()
	horizon := now + days*24*time.Hour.Milliseconds()
	c.JSON(http.StatusOK, gin.H{"success": true, "data": upcomingVaccinations(pets, now, horizon)})
}

type VaccinationRequest struct {
	Name        string `json:"name" binding:"required"`
	DueDate     int64  `json:"dueDate" binding:"required"`
	Notes       string `json:"notes"`
	IsRecurring bool   `json:"isRecurring"`
}

func AddVaccination(c *gin.Context) {
	var req VaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}

	vaccination := models.Vaccination{
		VaccinationID: uuid.NewString(),
		Name:          req.Name,
		DueDate:       req.DueDate,
		Notes:         req.Notes,
		IsRecurring:   req.IsRecurring,
	}

	var updated models.Pet
	err := database.Pets.FindOneAndUpdate(ctx,
		bson.M{"petId": pet.PetID},
		bson.M{
			"$push": bson.M{"vaccinations": vaccination},
			"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("AddVaccination error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error adding vaccination"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": updated})
}

func UpdateVaccination(c *gin.Context) {
	var req VaccinationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}

	vaccinationID := c.Param("vaccinationId")
	var updated models.Pet
	err := database.Pets.FindOneAndUpdate(ctx,
		bson.M{"petId": pet.PetID, "vaccinations.vaccinationId": vaccinationID},
		bson.M{"$set": bson.M{
			"vaccinations.$.name":        req.Name,
			"vaccinations.$.dueDate":     req.DueDate,
			"vaccinations.$.notes":       req.Notes,
			"vaccinations.$.isRecurring": req.IsRecurring,
			"updatedAt":                  time.Now().UnixMilli(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Vaccination not found"})
		return
	}
	if err != nil {
		log.Printf("UpdateVaccination error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating vaccination"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func DeleteVaccination(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	pet, ok := findOwnedPet(ctx, c, c.Param("petId"))
	if !ok {
		return
	}

	vaccinationID := c.Param("vaccinationId")
	var updated models.Pet
	err := database.Pets.FindOneAndUpdate(ctx,
		bson.M{"petId": pet.PetID},
		bson.M{
			"$pull": bson.M{"vaccinations": bson.M{"vaccinationId": vaccinationID}},
			"$set":  bson.M{"updatedAt": time.Now().UnixMilli()},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("DeleteVaccination error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting vaccination"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}
