package staticmap

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/subkultur/teilwas-bot/internal/app/config"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

func TestRenderMap(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"size":    r.URL.Query().Get("size"),
			"maptype": r.URL.Query().Get("maptype"),
			"markers": r.URL.Query().Get("markers"),
		}
		w.Write([]byte("image-bytes"))
	}))
	defer server.Close()

	renderer := NewRenderer(config.StaticMapConfig{BaseURL: server.URL, Width: 400, Height: 300})

	image, err := renderer.RenderMap(context.Background(), []entity.Location{
		{Latitude: 52.52, Longitude: 13.405},
		{Latitude: 48.1351, Longitude: 11.582},
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), image)

	assert.Equal(t, "400x300", gotQuery["size"])
	assert.Equal(t, "mapnik", gotQuery["maptype"])
	assert.Equal(t, "52.520000,13.405000,red1|48.135100,11.582000,red2", gotQuery["markers"])
}

func TestRenderMapServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	renderer := NewRenderer(config.StaticMapConfig{BaseURL: server.URL, Width: 400, Height: 300})
	_, err := renderer.RenderMap(context.Background(), []entity.Location{{Latitude: 1, Longitude: 2}})
	assert.Error(t, err)
}

func TestRenderMapRejectsEmptyPointSet(t *testing.T) {
	renderer := NewRenderer(config.StaticMapConfig{BaseURL: "http://localhost", Width: 400, Height: 300})
	_, err := renderer.RenderMap(context.Background(), nil)
	assert.Error(t, err)
}
