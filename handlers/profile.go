package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"devconnect/database"
	"devconnect/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProfileRequest struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" binding:"required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" binding:"required"`
	Youtube        string `json:"youtube"`
	Facebook       string `json:"facebook"`
	Twitter        string `json:"twitter"`
	Instagram      string `json:"instagram"`
	Linkedin       string `json:"linkedin"`
}

// splitSkills normalizes a comma-separated skills string into a trimmed list.
func splitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, len(parts))
	for i, p := range parts {
		skills[i] = strings.TrimSpace(p)
	}
	return skills
}

// buildProfileFields builds the sparse update document containing only the
// fields present in the request.
func buildProfileFields(userID primitive.ObjectID, req ProfileRequest) bson.M {
	fields := bson.M{
		"user":   userID,
		"status": req.Status,
		"skills": splitSkills(req.Skills),
	}
	if req.Company != "" {
		fields["company"] = req.Company
	}
	if req.Website != "" {
		fields["website"] = req.Website
	}
	if req.Location != "" {
		fields["location"] = req.Location
	}
	if req.Bio != "" {
		fields["bio"] = req.Bio
	}
	if req.GithubUsername != "" {
		fields["githubusername"] = req.GithubUsername
	}

	social := bson.M{}
	if req.Youtube != "" {
		social["youtube"] = req.Youtube
	}
	if req.Twitter != "" {
		social["twitter"] = req.Twitter
	}
	if req.Facebook != "" {
		social["facebook"] = req.Facebook
	}
	if req.Instagram != "" {
		social["instagram"] = req.Instagram
	}
	if req.Linkedin != "" {
		social["linkedin"] = req.Linkedin
	}
	fields["social"] = social

	return fields
}

// profileResponse expands the linked user's name and avatar into the profile.
func profileResponse(p models.Profile, u *models.User) gin.H {
	userData := gin.H{"id": p.UserID.Hex(), "name": "", "avatar": ""}
	if u != nil {
		userData["name"] = u.Name
		userData["avatar"] = u.Avatar
	}

	return gin.H{
		"id":             p.ID.Hex(),
		"user":           userData,
		"company":        p.Company,
		"website":        p.Website,
		"location":       p.Location,
		"status":         p.Status,
		"skills":         p.Skills,
		"bio":            p.Bio,
		"githubusername": p.GithubUsername,
		"social":         p.Social,
		"createdAt":      p.CreatedAt,
	}
}

func GetMyProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err := database.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "There is no profile for this user"})
		return
	}
	if err != nil {
		serverError(c, "GetMyProfile", err)
		return
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		serverError(c, "GetMyProfile", err)
		return
	}

	c.JSON(http.StatusOK, profileResponse(profile, &user))
}

func UpsertProfile(c *gin.Context) {
	var req ProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Single upsert: exactly one of update/create runs per call
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var profile models.Profile
	err := database.Profiles.FindOneAndUpdate(ctx,
		bson.M{"user": userID},
		bson.M{
			"$set":         buildProfileFields(userID, req),
			"$setOnInsert": bson.M{"createdAt": time.Now().Unix()},
		},
		opts,
	).Decode(&profile)
	if err != nil {
		serverError(c, "UpsertProfile", err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func GetProfiles(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.Profiles.Find(ctx, bson.M{})
	if err != nil {
		serverError(c, "GetProfiles", err)
		return
	}
	defer cursor.Close(ctx)

	var profiles []models.Profile
	if err := cursor.All(ctx, &profiles); err != nil {
		serverError(c, "GetProfiles", err)
		return
	}

	if len(profiles) == 0 {
		c.JSON(http.StatusOK, []gin.H{})
		return
	}

	// Batch-fetch the linked users for the name/avatar expansion
	var userIDs []primitive.ObjectID
	for _, p := range profiles {
		userIDs = append(userIDs, p.UserID)
	}

	userCursor, err := database.Users.Find(ctx, bson.M{"_id": bson.M{"$in": userIDs}})
	if err != nil {
		serverError(c, "GetProfiles", err)
		return
	}
	defer userCursor.Close(ctx)

	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		serverError(c, "GetProfiles", err)
		return
	}

	userMap := make(map[primitive.ObjectID]*models.User, len(users))
	for i := range users {
		userMap[users[i].ID] = &users[i]
	}

	response := make([]gin.H, len(profiles))
	for i, p := range profiles {
		response[i] = profileResponse(p, userMap[p.UserID])
	}

	c.JSON(http.StatusOK, response)
}

func GetProfileByUser(c *gin.Context) {
	userID, err := primitive.ObjectIDFromHex(c.Param("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Profile not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var profile models.Profile
	err = database.Profiles.FindOne(ctx, bson.M{"user": userID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Profile not found"})
		return
	}
	if err != nil {
		serverError(c, "GetProfileByUser", err)
		return
	}

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil && err != mongo.ErrNoDocuments {
		serverError(c, "GetProfileByUser", err)
		return
	}

	c.JSON(http.StatusOK, profileResponse(profile, &user))
}

// DeleteProfile removes the caller's posts, profile and user record.
// There is no rollback if a later step fails.
func DeleteProfile(c *gin.Context) {
	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := database.Posts.DeleteMany(ctx, bson.M{"user": userID}); err != nil {
		serverError(c, "DeleteProfile", err)
		return
	}

	if _, err := database.Profiles.DeleteOne(ctx, bson.M{"user": userID}); err != nil {
		serverError(c, "DeleteProfile", err)
		return
	}

	if _, err := database.Users.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		serverError(c, "DeleteProfile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "User removed"})
}
