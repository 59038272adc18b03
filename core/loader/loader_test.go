package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (s *stubFeature) Name() string    { return s.name }
func (s *stubFeature) IsEnabled() bool { return s.enabled }
func (s *stubFeature) Load(app fiber.Router) error {
	s.loaded = true
	return s.err
}

func TestManager_LoadAll(t *testing.T) {
	on := &stubFeature{name: "picking", enabled: true}
	off := &stubFeature{name: "integrity", enabled: false}

	mgr := NewManager(nil)
	mgr.Register(on)
	mgr.Register(off)

	assert.NoError(t, mgr.LoadAll(fiber.New()))
	assert.True(t, on.loaded)
	assert.False(t, off.loaded)
	assert.Len(t, mgr.Features(), 2)
}

func TestManager_LoadAllErrors(t *testing.T) {
	t.Run("Load failure", func(t *testing.T) {
		mgr := NewManager(nil)
		mgr.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})
		assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "broken")
	})

	t.Run("Duplicate name", func(t *testing.T) {
		mgr := NewManager(nil)
		mgr.Register(&stubFeature{name: "picking", enabled: true})
		mgr.Register(&stubFeature{name: "picking", enabled: true})
		assert.ErrorContains(t, mgr.LoadAll(fiber.New()), "registered twice")
	})
}
