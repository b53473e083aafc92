package handlers

import (
	"context"
	"net/http"
	"time"

	"devconnect/database"
	"devconnect/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CreatePostRequest struct {
	Text string `json:"text" binding:"required"`
}

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
}

func CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Snapshot the author's name and avatar into the post
	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		serverError(c, "CreatePost", err)
		return
	}

	post := models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      req.Text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		Likes:     []models.Like{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now().Unix(),
	}

	if _, err := database.Posts.InsertOne(ctx, post); err != nil {
		serverError(c, "CreatePost", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func GetPosts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := database.Posts.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		serverError(c, "GetPosts", err)
		return
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		serverError(c, "GetPosts", err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func GetPost(c *gin.Context) {
	// A malformed id gets the same answer as a missing post
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, "GetPost", err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Existence first, then ownership: a missing post has no owner to check
	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, "DeletePost", err)
		return
	}

	if post.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return
	}

	if _, err := database.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		serverError(c, "DeletePost", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Post removed"})
}

func LikePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// One atomic update: the filter refuses posts the caller already liked,
	// so concurrent likes cannot both append.
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "likes.user": bson.M{"$ne": userID}},
		bson.M{"$push": bson.M{"likes": bson.M{
			"$each":     []models.Like{{UserID: userID}},
			"$position": 0,
		}}},
		after,
	).Decode(&post)

	if err == mongo.ErrNoDocuments {
		// Either the post is gone or the caller already liked it
		count, countErr := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
		if countErr != nil {
			serverError(c, "LikePost", countErr)
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post already liked"})
		return
	}
	if err != nil {
		serverError(c, "LikePost", err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

func UnlikePost(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID, "likes.user": userID},
		bson.M{"$pull": bson.M{"likes": bson.M{"user": userID}}},
		after,
	).Decode(&post)

	if err == mongo.ErrNoDocuments {
		count, countErr := database.Posts.CountDocuments(ctx, bson.M{"_id": postID})
		if countErr != nil {
			serverError(c, "UnlikePost", countErr)
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Post has not yet been liked"})
		return
	}
	if err != nil {
		serverError(c, "UnlikePost", err)
		return
	}

	c.JSON(http.StatusOK, post.Likes)
}

func CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := database.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		serverError(c, "CreateComment", err)
		return
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Text:      req.Text,
		Name:      user.Name,
		Avatar:    user.Avatar,
		CreatedAt: time.Now().Unix(),
	}

	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$push": bson.M{"comments": bson.M{
			"$each":     []models.Comment{comment},
			"$position": 0,
		}}},
		after,
	).Decode(&post)

	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, "CreateComment", err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}

func DeleteComment(c *gin.Context) {
	postID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}

	commentID, err := primitive.ObjectIDFromHex(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Comment does not exist"})
		return
	}

	userID, ok := callerID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var post models.Post
	err = database.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if err == mongo.ErrNoDocuments {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Post not found"})
		return
	}
	if err != nil {
		serverError(c, "DeleteComment", err)
		return
	}

	var comment *models.Comment
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			comment = &post.Comments[i]
			break
		}
	}
	if comment == nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Comment does not exist"})
		return
	}

	if comment.UserID != userID {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authorized"})
		return
	}

	// Remove by the comment's own id, not by author
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err = database.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}},
		after,
	).Decode(&post)
	if err != nil {
		serverError(c, "DeleteComment", err)
		return
	}

	c.JSON(http.StatusOK, post.Comments)
}
