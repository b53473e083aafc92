package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSplitSkills(t *testing.T) {
	require.Equal(t, []string{"a", "b", "c"}, splitSkills("a, b ,c"))
	require.Equal(t, []string{"Go"}, splitSkills("Go"))
	require.Equal(t, []string{"Go", "HTML", "CSS"}, splitSkills(" Go ,HTML,  CSS"))
}

func TestBuildProfileFieldsSparse(t *testing.T) {
	userID := primitive.NewObjectID()
	fields := buildProfileFields(userID, ProfileRequest{
		Status: "Developer",
		Skills: "Go, Mongo",
	})

	require.Equal(t, userID, fields["user"])
	require.Equal(t, "Developer", fields["status"])
	require.Equal(t, []string{"Go", "Mongo"}, fields["skills"])

	// Absent optional fields must not appear in the update document
	require.NotContains(t, fields, "company")
	require.NotContains(t, fields, "website")
	require.NotContains(t, fields, "location")
	require.NotContains(t, fields, "bio")
	require.NotContains(t, fields, "githubusername")

	require.Equal(t, bson.M{}, fields["social"])
}

func TestBuildProfileFieldsFull(t *testing.T) {
	userID := primitive.NewObjectID()
	fields := buildProfileFields(userID, ProfileRequest{
		Company:        "Acme",
		Website:        "https://acme.dev",
		Location:       "Lagos",
		Bio:            "builder",
		Status:         "Developer",
		GithubUsername: "acmedev",
		Skills:         "Go",
		Youtube:        "https://youtube.com/@acme",
		Twitter:        "https://twitter.com/acme",
	})

	require.Equal(t, "Acme", fields["company"])
	require.Equal(t, "https://acme.dev", fields["website"])
	require.Equal(t, "Lagos", fields["location"])
	require.Equal(t, "builder", fields["bio"])
	require.Equal(t, "acmedev", fields["githubusername"])

	social, ok := fields["social"].(bson.M)
	require.True(t, ok)
	require.Equal(t, "https://youtube.com/@acme", social["youtube"])
	require.Equal(t, "https://twitter.com/acme", social["twitter"])
	require.NotContains(t, social, "facebook")
	require.NotContains(t, social, "instagram")
	require.NotContains(t, social, "linkedin")
}

func TestUpsertProfileMissingRequiredFields(t *testing.T) {
	router := gin.New()
	router.POST("/profile", asUser("64f1c0ffee0000000000abcd"), UpsertProfile)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(`{"company":"Acme"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrors(t, rec)

	fields := make([]string, len(resp.Errors))
	for i, fe := range resp.Errors {
		fields[i] = fe.Field
	}
	require.Contains(t, fields, "status")
	require.Contains(t, fields, "skills")
}

func TestGetProfileByUserMalformedIDReturns400(t *testing.T) {
	router := gin.New()
	router.GET("/profile/user/:user_id", GetProfileByUser)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/profile/user/not-an-id", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Profile not found")
}
