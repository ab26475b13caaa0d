package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduceHost(t *testing.T) {
	h, err := ProduceHost("localhost")
	require.NoError(t, err)
	assert.Equal(t, "localhost:9222", h.String())

	h, err = ProduceHost(" http://10.0.0.1:9333/ ")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.1", h.Ip)
	assert.Equal(t, 9333, h.Port)
	assert.Equal(t, "http://10.0.0.1:9333/json/new", h.HttpUrl("/json/new"))

	_, err = ProduceHost("host:abc")
	assert.Error(t, err)
	_, err = ProduceHost("")
	assert.Error(t, err)
}

func TestSaveToFileCreatesFolders(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "requests.json")
	absolute, err := SaveToFile(path, []byte("[]"))
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(absolute))

	data, err := os.ReadFile(absolute)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMergeNeverClears(t *testing.T) {
	url := "http://x/a"
	method := "GET"
	status := 200
	record := RequestRecord{CorrelationId: "1"}

	record.MergeRequest(&RequestFields{Url: &url, Method: &method})
	record.MergeResponse(&ResponseFields{Status: &status})
	record.MergeRequest(&RequestFields{})
	record.MergeResponse(nil)

	assert.Equal(t, "http://x/a", StringValue(record.Url))
	assert.Equal(t, "GET", StringValue(record.Method))
	require.NotNil(t, record.Status)
	assert.Equal(t, 200, *record.Status)
	assert.True(t, record.HasResponse())
}

func TestValidateConfig(t *testing.T) {
	saved := Config
	defer func() { Config = saved }()

	Config = Configuration{SaveFormat: FormatJson}
	assert.Error(t, ValidateConfig())

	Config.Url = "http://example.com"
	assert.NoError(t, ValidateConfig())

	Config.SaveFormat = "xml"
	assert.Error(t, ValidateConfig())
}
