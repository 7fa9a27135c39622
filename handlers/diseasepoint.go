package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"farmcare/database"
	"farmcare/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreateDiseasePointRequest struct {
	Latitude       float64 `json:"latitude" binding:"required"`
	Longitude      float64 `json:"longitude" binding:"required"`
	Intensity      float64 `json:"intensity" binding:"min=0,max=1"`
	DiseaseName    string  `json:"diseaseName" binding:"required"`
	CropType       string  `json:"cropType"`
	CaseCount      int     `json:"caseCount"`
	PlaceName      string  `json:"placeName"`
	IsPlantDisease bool    `json:"isPlantDisease"`
	Notes          string  `json:"notes"`
}

// GetAllDiseasePoints returns disease reports, optionally filtered by
// disease kind, name, crop type, report date range and proximity to a
// given coordinate.
func GetAllDiseasePoints(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	filter := bson.M{}

	if v := c.Query("isPlantDisease"); v != "" {
		isPlant, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid isPlantDisease value"})
			return
		}
		filter["isPlantDisease"] = isPlant
	}

	if name := c.Query("diseaseName"); name != "" {
		filter["diseaseName"] = bson.M{"$regex": name, "$options": "i"}
	}
	if cropType := c.Query("cropType"); cropType != "" {
		filter["cropType"] = cropType
	}

	dateRange := bson.M{}
	if v := c.Query("startDate"); v != "" {
		start, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid startDate value"})
			return
		}
		dateRange["$gte"] = start
	}
	if v := c.Query("endDate"); v != "" {
		end, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid endDate value"})
			return
		}
		dateRange["$lte"] = end
	}
	if len(dateRange) > 0 {
		filter["reportDate"] = dateRange
	}

	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr != nil || lngErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid lat/lng values"})
			return
		}
		radius := 10000.0 // meters
		if v := c.Query("radius"); v != "" {
			r, err := strconv.ParseFloat(v, 64)
			if err != nil || r <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid radius value"})
				return
			}
			radius = r
		}
		filter["location"] = bson.M{
			"$near": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{lng, lat},
				},
				"$maxDistance": radius,
			},
		}
	}

	// $near already sorts by distance; otherwise newest first.
	var opts *options.FindOptions
	if _, hasGeo := filter["location"]; !hasGeo {
		opts = options.Find().SetSort(bson.D{{Key: "reportDate", Value: -1}})
	}

	cursor, err := database.DiseasePoints.Find(ctx, filter, opts)
	if err != nil {
		log.Printf("GetAllDiseasePoints error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error fetching disease points"})
		return
	}
	defer cursor.Close(ctx)

	var points []models.DiseasePoint
	if err := cursor.All(ctx, &points); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error decoding disease points"})
		return
	}
	if points == nil {
		points = []models.DiseasePoint{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": points})
}

func GetDiseasePointById(c *gin.Context) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid disease point ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	var point models.DiseasePoint
	err = database.DiseasePoints.FindOne(ctx, bson.M{"_id": objID}).Decode(&point)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Disease point not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": point})
}

func CreateDiseasePoint(c *gin.Context) {
	var req CreateDiseasePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Coordinates out of range"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	now := time.Now().UnixMilli()
	point := models.DiseasePoint{
		ID: primitive.NewObjectID(),
		Location: models.GeoPoint{
			Type:        "Point",
			Coordinates: []float64{req.Longitude, req.Latitude},
		},
		DiseaseName:    req.DiseaseName,
		CropType:       req.CropType,
		Intensity:      req.Intensity,
		CaseCount:      req.CaseCount,
		PlaceName:      req.PlaceName,
		IsPlantDisease: req.IsPlantDisease,
		Notes:          req.Notes,
		ReportDate:     now,
		ReportedBy:     c.GetString("userId"),
		UpdatedAt:      now,
	}

	if _, err := database.DiseasePoints.InsertOne(ctx, point); err != nil {
		log.Printf("CreateDiseasePoint insert error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error creating disease point"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": point})
}

type UpdateDiseasePointRequest struct {
	Intensity   *float64 `json:"intensity"`
	DiseaseName string   `json:"diseaseName"`
	CropType    string   `json:"cropType"`
	CaseCount   *int     `json:"caseCount"`
	PlaceName   string   `json:"placeName"`
	Notes       string   `json:"notes"`
}

// findReportedPoint fetches a disease point and enforces that the
// caller is the original reporter.
func findReportedPoint(ctx context.Context, c *gin.Context) (*models.DiseasePoint, bool) {
	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid disease point ID"})
		return nil, false
	}

	var point models.DiseasePoint
	err = database.DiseasePoints.FindOne(ctx, bson.M{"_id": objID}).Decode(&point)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Disease point not found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Database error"})
		return nil, false
	}
	if point.ReportedBy != c.GetString("userId") {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Not authorized to modify this disease point"})
		return nil, false
	}
	return &point, true
}

func UpdateDiseasePoint(c *gin.Context) {
	var req UpdateDiseasePointRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Intensity != nil && (*req.Intensity < 0 || *req.Intensity > 1) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Intensity must be between 0 and 1"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	point, ok := findReportedPoint(ctx, c)
	if !ok {
		return
	}

	set := bson.M{}
	if req.Intensity != nil {
		set["intensity"] = *req.Intensity
	}
	if req.DiseaseName != "" {
		set["diseaseName"] = req.DiseaseName
	}
	if req.CropType != "" {
		set["cropType"] = req.CropType
	}
	if req.CaseCount != nil {
		set["caseCount"] = *req.CaseCount
	}
	if req.PlaceName != "" {
		set["placeName"] = req.PlaceName
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}
	if len(set) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No fields to update"})
		return
	}
	set["updatedAt"] = time.Now().UnixMilli()

	var updated models.DiseasePoint
	err := database.DiseasePoints.FindOneAndUpdate(ctx,
		bson.M{"_id": point.ID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		log.Printf("UpdateDiseasePoint error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error updating disease point"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": updated})
}

func DeleteDiseasePoint(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), dbTimeout)
	defer cancel()

	point, ok := findReportedPoint(ctx, c)
	if !ok {
		return
	}

	if _, err := database.DiseasePoints.DeleteOne(ctx, bson.M{"_id": point.ID}); err != nil {
		log.Printf("DeleteDiseasePoint error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Error deleting disease point"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Disease point deleted successfully"})
}
