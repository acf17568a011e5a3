package staticmap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/subkultur/teilwas-bot/internal/app/config"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/render"
)

const requestTimeout = 15 * time.Second

// Renderer fetches a static map image from an OSM staticmap HTTP endpoint,
// with one numbered marker per point in the order given.
type Renderer struct {
	baseURL    string
	width      int
	height     int
	httpClient *http.Client
}

func NewRenderer(cfg config.StaticMapConfig) render.MapRenderer {
	return &Renderer{
		baseURL:    cfg.BaseURL,
		width:      cfg.Width,
		height:     cfg.Height,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

func (r *Renderer) RenderMap(ctx context.Context, points []entity.Location) ([]byte, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("cannot render a map without points")
	}

	markers := make([]string, 0, len(points))
	for i, p := range points {
		markers = append(markers, fmt.Sprintf("%f,%f,red%d", p.Latitude, p.Longitude, i+1))
	}

	query := url.Values{}
	query.Set("size", fmt.Sprintf("%dx%d", r.width, r.height))
	query.Set("maptype", "mapnik")
	query.Set("markers", strings.Join(markers, "|"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build staticmap request: %w", err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("staticmap request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("staticmap returned status %d", resp.StatusCode)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read staticmap response: %w", err)
	}
	return image, nil
}
