package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/negocio/backoffice/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createClientRequest struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"omitempty,email"`
	Limit int    `json:"limit" binding:"gte=0"`
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()
	r := gin.New()
	r.Use(RequestID())
	r.POST("/clients", func(c *gin.Context) {
		var req createClientRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		okHandler(c)
	})

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/clients", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	t.Run("field errors use json names", func(t *testing.T) {
		rec := send(`{"name":"A","email":"nope","limit":-1}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be at least 2 characters", fields["name"])
		assert.Equal(t, "Invalid email format", fields["email"])
		assert.Equal(t, "Must be greater than or equal to 0", fields["limit"])
	})

	t.Run("malformed json has no details", func(t *testing.T) {
		rec := send(`{"name":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, decodeError(t, rec).Details)
	})

	t.Run("valid", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, send(`{"name":"Acme"}`).Code)
	})
}
