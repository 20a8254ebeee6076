package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/wiki-page-summary/pkg/projection"
)

func TestSink_WritesEveryChannel(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir, projection.Channels())
	require.NoError(t, err)

	require.NoError(t, s.Write(projection.ChannelPage, []byte("1,0,'A,3\n")))
	require.NoError(t, s.Write(projection.ChannelPage, []byte("2,2,'B,-1\n")))
	require.NoError(t, s.Write(projection.ChannelRedirectTargetsBySource, []byte("2,1\n")))
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	for _, ch := range projection.Channels() {
		_, err := os.Stat(filepath.Join(dir, ch.FileName()))
		assert.NoError(t, err, ch.FileName())
	}

	data, err := os.ReadFile(filepath.Join(dir, "page.csv"))
	require.NoError(t, err)
	assert.Equal(t, "1,0,'A,3\n2,2,'B,-1\n", string(data))

	stats := s.Stats()
	require.Len(t, stats, 11)
	assert.Equal(t, "page.csv", stats[0].File)
	assert.Equal(t, int64(2), stats[0].Rows)
	assert.Equal(t, int64(len(data)), stats[0].SizeBytes)
}

func TestSink_WriteAfterClose(t *testing.T) {
	s, err := Open(t.TempDir(), []projection.Channel{projection.ChannelPage})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	assert.Error(t, s.Write(projection.ChannelPage, []byte("x\n")))
}

func TestSink_UnknownChannel(t *testing.T) {
	s, err := Open(t.TempDir(), []projection.Channel{projection.ChannelPage})
	require.NoError(t, err)
	defer s.Close()
	assert.Error(t, s.Write(projection.ChannelPageLabel, []byte("x\n")))
}

func TestOpen_FailsWithoutDirectory(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing"), projection.Channels())
	assert.Error(t, err)
}

func TestOpen_ClosesOpenedFilesOnFailure(t *testing.T) {
	dir := t.TempDir()
	// A directory squatting on a later file name makes that open fail.
	require.NoError(t, os.Mkdir(filepath.Join(dir, projection.ChannelPageLinkIn.FileName()), 0750))

	_, err := Open(dir, projection.Channels())
	require.Error(t, err)
	assert.ErrorContains(t, err, "pageLinkIn.csv")

	// earlier files were created and released
	_, err = os.Stat(filepath.Join(dir, "page.csv"))
	assert.NoError(t, err)
	assert.NoError(t, os.Remove(filepath.Join(dir, "page.csv")))
}
