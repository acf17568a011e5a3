package s3

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
)

type trackedReader struct {
	*bytes.Reader
	readErr error
	closed  bool
}

func (r *trackedReader) Read(p []byte) (int, error) {
	if r.readErr != nil {
		return 0, r.readErr
	}
	return r.Reader.Read(p)
}

func (r *trackedReader) Close() error {
	r.closed = true
	return nil
}

func TestReadObject(t *testing.T) {
	t.Run("Hit", func(t *testing.T) {
		obj := &trackedReader{Reader: bytes.NewReader([]byte("png"))}
		image, ok := readObject(obj)
		assert.True(t, ok)
		assert.Equal(t, []byte("png"), image)
		assert.True(t, obj.closed)
	})

	t.Run("ReadFailureClosesToo", func(t *testing.T) {
		obj := &trackedReader{Reader: bytes.NewReader(nil), readErr: fmt.Errorf("no such key")}
		_, ok := readObject(obj)
		assert.False(t, ok)
		assert.True(t, obj.closed)
	})

	t.Run("EmptyObjectIsAMiss", func(t *testing.T) {
		obj := &trackedReader{Reader: bytes.NewReader(nil)}
		_, ok := readObject(obj)
		assert.False(t, ok)
		assert.True(t, obj.closed)
	})
}

func TestObjectKeyIsStablePerPointSet(t *testing.T) {
	a := []entity.Location{{Latitude: 52.52, Longitude: 13.405}}
	b := []entity.Location{{Latitude: 52.52, Longitude: 13.405}}
	c := []entity.Location{{Latitude: 48.1351, Longitude: 11.582}}

	assert.Equal(t, objectKey(a), objectKey(b))
	assert.NotEqual(t, objectKey(a), objectKey(c))
}
