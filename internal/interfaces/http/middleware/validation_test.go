package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adbook/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelRequest struct {
	MediaType string   `json:"media_type" binding:"required,media_type"`
	Role      string   `json:"role" binding:"omitempty,role"`
	Reason    string   `json:"reason" binding:"max=10"`
	Items     []string `json:"items" binding:"required,min=1"`
}

func bindingRouter() *gin.Engine {
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req channelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.NewSuccessResponse(req))
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetupValidator(t *testing.T) {
	require.NoError(t, SetupValidator())
	require.NoError(t, SetupValidator())

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NoError(t, v.Var("magazine", "media_type"))
	assert.Error(t, v.Var("billboard", "media_type"))
	assert.NoError(t, v.Var("pv_sir", "role"))
	assert.Error(t, v.Var("root", "role"))
}

func TestHandleValidationError_FieldDetails(t *testing.T) {
	require.NoError(t, SetupValidator())
	router := bindingRouter()

	rec := postJSON(router, `{"media_type":"billboard","role":"root","reason":"far too long a reason","items":[]}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	byField := map[string]string{}
	for _, d := range resp.Error.Details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Must be one of: website mobile email magazine whatsapp", byField["media_type"])
	assert.Equal(t, "Unknown role", byField["role"])
	assert.Equal(t, "Must be at most 10 characters", byField["reason"])
	assert.Equal(t, "Must contain at least 1 entries", byField["items"])
}

func TestHandleValidationError_MalformedJSON(t *testing.T) {
	require.NoError(t, SetupValidator())
	router := bindingRouter()

	rec := postJSON(router, `{"media_type":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeInvalidJSON, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}

func TestHandleValidationError_ValidRequest(t *testing.T) {
	require.NoError(t, SetupValidator())
	router := bindingRouter()

	rec := postJSON(router, `{"media_type":"website","role":"vp","items":["a"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}
