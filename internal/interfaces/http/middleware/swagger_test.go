package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwtMiddleware), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "swagger"})
	})
	return router
}

func getSwagger(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSwaggerProtection_Disabled(t *testing.T) {
	rec := getSwagger(swaggerRouter(SwaggerConfig{Enabled: false}, nil), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, shared.CodeNotFound, decodeError(t, rec).Code)
}

func TestSwaggerProtection_Whitelist(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		remote  string
		want    int
	}{
		{"no restrictions", nil, "203.0.113.9:1000", http.StatusOK},
		{"exact ip allowed", []string{"127.0.0.1"}, "127.0.0.1:12345", http.StatusOK},
		{"exact ip denied", []string{"127.0.0.1"}, "192.168.1.1:12345", http.StatusForbidden},
		{"cidr allowed", []string{"10.0.0.0/8"}, "10.50.100.200:12345", http.StatusOK},
		{"cidr denied", []string{"10.0.0.0/8"}, "192.168.1.1:12345", http.StatusForbidden},
		{"invalid entries ignored", []string{"not-an-ip", "10.0.0.0/99"}, "10.0.0.1:1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := getSwagger(swaggerRouter(SwaggerConfig{Enabled: true, AllowedIPs: tt.allowed}, nil), tt.remote)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, shared.CodeForbidden, decodeError(t, rec).Code)
			}
		})
	}
}

func TestSwaggerProtection_RequireAuth(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	allow := func(c *gin.Context) {}

	cfg := SwaggerConfig{Enabled: true, RequireAuth: true}
	assert.Equal(t, http.StatusUnauthorized, getSwagger(swaggerRouter(cfg, deny), "").Code)
	assert.Equal(t, http.StatusOK, getSwagger(swaggerRouter(cfg, allow), "").Code)
}

func TestSwaggerProtection_WhitelistCheckedBeforeAuth(t *testing.T) {
	authCalled := false
	auth := func(c *gin.Context) { authCalled = true }

	cfg := SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"127.0.0.1"}}
	router := swaggerRouter(cfg, auth)

	assert.Equal(t, http.StatusForbidden, getSwagger(router, "192.168.1.1:12345").Code)
	assert.False(t, authCalled)

	assert.Equal(t, http.StatusOK, getSwagger(router, "127.0.0.1:12345").Code)
	assert.True(t, authCalled)
}

func TestIsIPAllowed(t *testing.T) {
	ips, nets := parseAllowList([]string{"192.168.1.1", "::1", "10.0.0.0/8", "2001:db8::/32"})

	tests := map[string]bool{
		"192.168.1.1": true,
		"192.168.1.2": false,
		"10.0.0.5":    true,
		"11.0.0.5":    false,
		"::1":         true,
		"2001:db8::7": true,
		"2001:db9::7": false,
	}
	for ip, want := range tests {
		assert.Equal(t, want, isIPAllowed(net.ParseIP(ip), ips, nets), ip)
	}
	assert.False(t, isIPAllowed(nil, ips, nets))
}
