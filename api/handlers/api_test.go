package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Nikhilsuthar09/vtrip-api/api/handlers"
)

func TestApp_HealthRoute(t *testing.T) {
	a := handlers.App{}
	router := a.New()

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, `{"alive": true}`, rr.Body.String())
}

func TestApp_UnknownRoute(t *testing.T) {
	a := handlers.App{}
	router := a.New()

	req, _ := http.NewRequest("GET", "/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
