package exporters

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/har"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	s3iface.S3API
	bucket string
	key    string
	body   []byte
	err    error
}

func (f *fakeS3) PutObject(input *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.StringValue(input.Bucket)
	f.key = aws.StringValue(input.Key)
	data, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.body = data
	return &s3.PutObjectOutput{}, nil
}

func sampleRecords() []core.RequestRecord {
	url := "http://x/a.json?b=2&a=1"
	method := "GET"
	status := 200
	statusText := "OK"
	mimeType := "application/json"
	timestamp := 1234.5
	return []core.RequestRecord{
		{
			CorrelationId:   "1000.1",
			Url:             &url,
			Method:          &method,
			Headers:         core.Headers{"Accept": "*/*"},
			Timestamp:       &timestamp,
			Status:          &status,
			StatusText:      &statusText,
			MimeType:        &mimeType,
			ResponseHeaders: core.Headers{"Content-Length": "17"},
		},
		{
			CorrelationId: "1000.2",
		},
	}
}

func TestSaveJsonCreatesFolders(t *testing.T) {
	p := &Processor{Format: core.FormatJson}
	path := filepath.Join(t.TempDir(), "out", "nested", "requests.json")

	location, err := p.Save(sampleRecords(), path)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(location))

	data, err := os.ReadFile(location)
	require.NoError(t, err)

	var saved []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Len(t, saved, 2)
	assert.Equal(t, "1000.1", saved[0]["correlationId"])
	assert.Equal(t, float64(200), saved[0]["status"])
	assert.Equal(t, map[string]interface{}{"correlationId": "1000.2"}, saved[1])
}

func TestMarshalEmpty(t *testing.T) {
	p := &Processor{Format: core.FormatJson}
	data, err := p.Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestMarshalHar(t *testing.T) {
	p := &Processor{Format: core.FormatHar}
	data, err := p.Marshal(sampleRecords())
	require.NoError(t, err)

	var harData har.Har
	require.NoError(t, json.Unmarshal(data, &harData))
	assert.Equal(t, "1.2", harData.Log.Version)
	assert.Equal(t, creatorName, harData.Log.Creator.Name)
	require.Len(t, harData.Log.Entries, 2)

	entry := harData.Log.Entries[0]
	assert.Equal(t, "1000.1", entry.Id)
	assert.Equal(t, "GET", entry.Request.Method)
	assert.Equal(t, []har.Pair{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}}, entry.Request.QueryString)
	assert.Equal(t, []har.Pair{{Name: "Accept", Value: "*/*"}}, entry.Request.Headers)
	assert.Equal(t, 200, entry.Response.Status)
	assert.Equal(t, "application/json", entry.Response.Content.MimeType)

	pending := harData.Log.Entries[1]
	assert.Equal(t, 0, pending.Response.Status)
	assert.Equal(t, -1, pending.Response.HeadersSize)
}

func TestSaveToS3(t *testing.T) {
	fake := &fakeS3{}
	p := &Processor{Format: core.FormatJson, S3Client: &S3Client{s3Service: fake}}

	location, err := p.Save(sampleRecords(), "s3://bucket/runs/requests.json")
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/runs/requests.json", location)
	assert.Equal(t, "bucket", fake.bucket)
	assert.Equal(t, "runs/requests.json", fake.key)
	assert.True(t, strings.HasPrefix(string(fake.body), "["))
}

func TestSaveToS3Folder(t *testing.T) {
	fake := &fakeS3{}
	p := &Processor{Format: core.FormatHar, S3Client: &S3Client{s3Service: fake}}

	location, err := p.Save(nil, "s3://bucket/runs/")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fake.key, "runs/"))
	assert.True(t, strings.HasSuffix(fake.key, ".har"))
	assert.Equal(t, "s3://bucket/"+fake.key, location)
}

func TestSaveToS3Failure(t *testing.T) {
	uploadErr := errors.New("access denied")
	p := &Processor{Format: core.FormatJson, S3Client: &S3Client{s3Service: &fakeS3{err: uploadErr}}}

	_, err := p.Save(sampleRecords(), "s3://bucket/key.json")
	var persistenceErr *PersistenceError
	require.ErrorAs(t, err, &persistenceErr)
	assert.Equal(t, "s3://bucket/key.json", persistenceErr.Path)
	assert.ErrorIs(t, err, uploadErr)
}

func TestSaveUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	p := &Processor{Format: core.FormatJson}
	_, err := p.Save(sampleRecords(), filepath.Join(blocker, "requests.json"))
	var persistenceErr *PersistenceError
	assert.ErrorAs(t, err, &persistenceErr)
}

func TestParseS3Path(t *testing.T) {
	bucket, key, err := ParseS3Path("s3://b/k.json", ".json")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.Equal(t, "k.json", key)

	bucket, key, err = ParseS3Path("s3://b", ".json")
	require.NoError(t, err)
	assert.Equal(t, "b", bucket)
	assert.True(t, strings.HasSuffix(key, ".json"))

	_, _, err = ParseS3Path("s3:///k", ".json")
	assert.Error(t, err)
}

func TestSitesStats(t *testing.T) {
	stats := SitesStats{}
	stats.Process(sampleRecords())

	lines := stats.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, "__Summary__,2,1,1,0,1,0,0,0", lines[1])
	assert.Equal(t, "unknown,1,0,1,0,0,0,0,0", lines[2])
	assert.Equal(t, "x,1,1,0,0,1,0,0,0", lines[3])

	location, err := stats.Save(filepath.Join(t.TempDir(), "stats", "sites.csv"))
	require.NoError(t, err)
	data, err := os.ReadFile(location)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "Site,Requests"))
}

type recordedMetric struct {
	name  string
	value float64
}

type fakePublisher struct {
	metrics []recordedMetric
}

func (f *fakePublisher) PutMetric(metricName string, unitName string, metricValue float64, namespace string) {
	f.metrics = append(f.metrics, recordedMetric{name: metricName, value: metricValue})
}

func TestRunStats(t *testing.T) {
	publisher := &fakePublisher{}
	stats := &RunStats{Namespace: "perfshark", Publisher: publisher}
	stats.Process(sampleRecords(), 3)

	assert.Equal(t, []recordedMetric{
		{name: "total_requests", value: 2},
		{name: "requests_without_response", value: 1},
		{name: "dropped_entries", value: 3},
	}, publisher.metrics)

	publisher.metrics = nil
	(&RunStats{Publisher: publisher}).Process(sampleRecords(), 0)
	assert.Empty(t, publisher.metrics)
}
