package handlers

import (
	"errors"
	"log"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	// Report validation failures under the json field name, not the Go one.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindJSON runs the declared binding rules against the request body. On
// failure it writes the structured 400 response and reports false; the
// handler body must not proceed.
func bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fieldErrors := make([]FieldError, len(verrs))
		for i, fe := range verrs {
			fieldErrors[i] = FieldError{Field: fe.Field(), Message: validationMessage(fe)}
		}
		c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrors})
		return false
	}

	c.JSON(http.StatusBadRequest, gin.H{"errors": []FieldError{
		{Field: "body", Message: "Invalid request body"},
	}})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return "Please include a valid email"
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	}
	return fe.Field() + " is invalid"
}

// callerID resolves the user id the auth middleware stored in the context.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return userID, true
}

func serverError(c *gin.Context, op string, err error) {
	log.Printf("[%s] %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
}
