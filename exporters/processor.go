package exporters

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/har"
)

const (
	creatorName    = "perfshark"
	creatorVersion = "1.0"
)

// PersistenceError reports a snapshot that could not be saved.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save requests to %v failed: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type Processor struct {
	Format   string
	Started  time.Time
	S3Client *S3Client
}

func CreateProcessor() *Processor {
	return &Processor{
		Format:   core.Config.SaveFormat,
		Started:  time.Now(),
		S3Client: &S3Client{},
	}
}

// Save writes the records to a local path or an s3:// destination and returns where they were written.
func (p *Processor) Save(records []core.RequestRecord, path string) (string, error) {
	data, err := p.Marshal(records)
	if err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}

	var location string
	if IsS3Path(path) {
		if p.S3Client == nil {
			p.S3Client = &S3Client{}
		}
		location, err = p.S3Client.Process(data, path, p.extension())
	} else {
		location, err = SnapshotToFile(data, path)
	}
	if err != nil {
		return "", &PersistenceError{Path: path, Err: err}
	}

	core.Info("%v requests saved to %v", len(records), location)
	return location, nil
}

func (p *Processor) extension() string {
	if p.Format == core.FormatHar {
		return ".har"
	}
	return ".json"
}

func (p *Processor) Marshal(records []core.RequestRecord) ([]byte, error) {
	if p.Format == core.FormatHar {
		data, err := json.MarshalIndent(p.GetHarFile(records), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal har failed: %w", err)
		}
		return data, nil
	}

	if records == nil {
		records = []core.RequestRecord{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal requests failed: %w", err)
	}
	return data, nil
}

func (p *Processor) GetHarFile(records []core.RequestRecord) *har.Har {
	entries := make([]har.Entry, len(records))
	for i := 0; i < len(records); i++ {
		entries[i] = p.convert(&records[i])
	}
	return &har.Har{
		Log: har.Log{
			Version: "1.2",
			Creator: har.Creator{
				Name:    creatorName,
				Version: creatorVersion,
			},
			Entries: entries,
		},
	}
}

func (p *Processor) convert(record *core.RequestRecord) har.Entry {
	started := p.Started
	if started.IsZero() {
		started = time.Now()
	}

	harResponse := har.Response{
		Headers:     p.getHeaders(record.ResponseHeaders),
		Cookies:     make([]har.Cookie, 0),
		HeadersSize: p.getHeadersSize(record.ResponseHeaders),
		BodySize:    -1,
		StatusText:  core.StringValue(record.StatusText),
		Content: har.Content{
			MimeType: core.StringValue(record.MimeType),
		},
	}
	if record.Status != nil {
		harResponse.Status = *record.Status
	}
	if !record.HasResponse() {
		harResponse.HeadersSize = -1
	}

	requestUrl := core.StringValue(record.Url)
	harRequest := har.Request{
		Method:      core.StringValue(record.Method),
		Url:         requestUrl,
		HttpVersion: "",
		Headers:     p.getHeaders(record.Headers),
		QueryString: p.getQueryString(requestUrl),
		Cookies:     make([]har.Cookie, 0),
		HeadersSize: p.getHeadersSize(record.Headers),
		BodySize:    -1,
	}

	return har.Entry{
		Started:  started.UTC().Format("2006-01-02T15:04:05.000Z"),
		Time:     0,
		Request:  harRequest,
		Response: harResponse,
		Id:       record.CorrelationId,
	}
}

func (p *Processor) getHeaders(headers core.Headers) []har.Pair {
	names := make([]string, 0, len(headers))
	for name := range headers {
		names = append(names, name)
	}
	sort.Strings(names)

	harHeaders := make([]har.Pair, len(names))
	for i := 0; i < len(names); i++ {
		harHeaders[i] = har.Pair{
			Name:  names[i],
			Value: fmt.Sprint(headers[names[i]]),
		}
	}
	return harHeaders
}

func (p *Processor) getHeadersSize(headers core.Headers) int {
	if headers == nil {
		return -1
	}
	size := 0
	for name, value := range headers {
		size += len(fmt.Sprintf("%v: %v\r\n", name, value))
	}
	return size
}

func (p *Processor) getQueryString(rawUrl string) []har.Pair {
	queryString := make([]har.Pair, 0)
	parsed, err := url.Parse(rawUrl)
	if err != nil {
		core.V2("parse url %v failed: %v", rawUrl, err)
		return queryString
	}

	values, err := url.ParseQuery(parsed.RawQuery)
	if err != nil {
		core.V2("parse query string %v failed: %v", parsed.RawQuery, err)
		return queryString
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		for _, v := range values[k] {
			queryString = append(queryString, har.Pair{Name: k, Value: v})
		}
	}
	return queryString
}

func IsS3Path(path string) bool {
	return strings.HasPrefix(path, s3Scheme)
}
