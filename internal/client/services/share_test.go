package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/recoveryvault/internal/client/client"
	"github.com/dmitrijs2005/recoveryvault/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShare(t *testing.T) {
	api := &fakeAPI{}
	st := &fakeStorage{}
	installStorage(t, st)
	s := NewSharer(api, logging.Nop{})

	url, err := s.Share(context.Background(), "<html>report</html>")
	require.NoError(t, err)
	assert.Equal(t, "https://store/vault/report/1", url)
	assert.Equal(t, "<html>report</html>", st.puts["https://put/report/1"])
}

func TestShare_Errors(t *testing.T) {
	installStorage(t, &fakeStorage{})

	_, err := NewSharer(&fakeAPI{}, logging.Nop{}).Share(context.Background(), "missing.html")
	assert.Error(t, err)

	_, err = NewSharer(&fakeAPI{presignErr: client.ErrUnavailable}, logging.Nop{}).Share(context.Background(), "r.html")
	assert.ErrorIs(t, err, client.ErrUnavailable)
}
