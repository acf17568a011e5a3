package render

import (
	"context"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

// MapRenderer produces an image of the given points, each drawn as a
// numbered marker in the order given.
type MapRenderer interface {
	RenderMap(ctx context.Context, points []entity.Location) ([]byte, error)
}
