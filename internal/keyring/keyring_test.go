package keyring

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"
)

func TestSystem_RoundTrip(t *testing.T) {
	gokeyring.MockInit()
	store := NewSystem()

	_, err := store.Get(ServiceName, "alice")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ServiceName, "alice", "s3cret"))
	got, err := store.Get(ServiceName, "alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got)

	require.NoError(t, store.Delete(ServiceName, "alice"))
	assert.ErrorIs(t, store.Delete(ServiceName, "alice"), ErrNotFound)
}

func TestSystem_TranslatesErrors(t *testing.T) {
	t.Run("unsupported platform", func(t *testing.T) {
		gokeyring.MockInitWithError(gokeyring.ErrUnsupportedPlatform)
		assert.ErrorIs(t, NewSystem().Set(ServiceName, "alice", "x"), ErrUnavailable)
	})

	t.Run("unreachable secret service is unavailable", func(t *testing.T) {
		noService := errors.New("The name org.freedesktop.secrets was not provided by any .service files")
		gokeyring.MockInitWithError(noService)
		store := NewSystem()

		_, err := store.Get(ServiceName, "alice")
		assert.ErrorIs(t, err, ErrUnavailable)
		err = store.Set(ServiceName, "alice", "x")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.Contains(t, err.Error(), "org.freedesktop.secrets")
		err = store.Delete(ServiceName, "alice")
		assert.ErrorIs(t, err, ErrUnavailable)
		assert.NotErrorIs(t, err, ErrNotFound)
	})

	t.Run("oversized secret passes through", func(t *testing.T) {
		gokeyring.MockInitWithError(gokeyring.ErrSetDataTooBig)
		err := NewSystem().Set(ServiceName, "alice", "x")
		assert.ErrorIs(t, err, gokeyring.ErrSetDataTooBig)
		assert.NotErrorIs(t, err, ErrUnavailable)
	})
}

func TestNoop(t *testing.T) {
	var store Store = Noop{}

	_, err := store.Get(ServiceName, "alice")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, store.Set(ServiceName, "alice", "x"), ErrUnavailable)
	assert.ErrorIs(t, store.Delete(ServiceName, "alice"), ErrUnavailable)
}
