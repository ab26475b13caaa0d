package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/alonana/perfshark/core"
	"github.com/alonana/perfshark/devtools/types"
	"github.com/gorilla/websocket"
)

const (
	loadEventMethod = "Page.loadEventFired"
	defaultTimeout  = 10 * time.Second
)

// DevTools is a Runtime backed by a chrome remote debugging endpoint.
// Each session is a new page target with network and page events enabled.
type DevTools struct {
	Host       *core.Host
	HttpClient *http.Client
	Dialer     *websocket.Dialer
}

type target struct {
	Id                   string `json:"id"`
	Type                 string `json:"type"`
	Url                  string `json:"url"`
	WebSocketDebuggerUrl string `json:"webSocketDebuggerUrl"`
}

type protocolCall struct {
	Id     int64       `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

type protocolError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type protocolMessage struct {
	Id     int64           `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *protocolError  `json:"error,omitempty"`
}

func NewDevTools(address string) (*DevTools, error) {
	host, err := core.ProduceHost(address)
	if err != nil {
		return nil, fmt.Errorf("parse devtools address failed: %w", err)
	}
	return &DevTools{
		Host:       host,
		HttpClient: &http.Client{Timeout: defaultTimeout},
		Dialer:     &websocket.Dialer{HandshakeTimeout: defaultTimeout},
	}, nil
}

func (d *DevTools) NewSession(ctx context.Context, cfg SessionConfig) (Session, error) {
	t, err := d.newTarget(ctx)
	if err != nil {
		return nil, WrapBackendError("acquire session", "create page target", fmt.Errorf("%w: %w", ErrUnavailable, err))
	}

	conn, resp, err := d.Dialer.DialContext(ctx, t.WebSocketDebuggerUrl, nil)
	if err != nil {
		if resp != nil {
			err = fmt.Errorf("%w (HTTP %d)", err, resp.StatusCode)
		}
		closeErr := d.closeTarget(t.Id)
		if closeErr != nil {
			core.Warn("close target %v failed: %v", t.Id, closeErr)
		}
		return nil, WrapBackendError("acquire session", "connect "+t.WebSocketDebuggerUrl, fmt.Errorf("%w: %w", ErrUnavailable, err))
	}

	id := cfg.SessionId
	if id == "" {
		id = t.Id
	}
	s := &devToolsSession{
		id:      id,
		target:  *t,
		runtime: d,
		conn:    conn,
		pending: make(map[int64]chan *protocolMessage),
		loaded:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.read()

	for _, method := range []string{"Network.enable", "Page.enable"} {
		_, err = s.call(ctx, method, nil)
		if err != nil {
			closeErr := s.Close()
			if closeErr != nil {
				core.Warn("release session %v failed: %v", id, closeErr)
			}
			return nil, WrapBackendError("acquire session", method, fmt.Errorf("%w: %w", ErrUnavailable, err))
		}
	}

	core.V1("browser session %v attached to target %v", id, t.Id)
	return s, nil
}

func (d *DevTools) newTarget(ctx context.Context) (*target, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, d.Host.HttpUrl("/json/new?about:blank"), nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	resp, err := d.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request new target failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("new target returned HTTP %d: %s", resp.StatusCode, body)
	}

	var t target
	err = json.NewDecoder(resp.Body).Decode(&t)
	if err != nil {
		return nil, fmt.Errorf("decode new target failed: %w", err)
	}
	if t.Id == "" || t.WebSocketDebuggerUrl == "" {
		return nil, fmt.Errorf("new target %+v has no debugger url", t)
	}
	return &t, nil
}

func (d *DevTools) closeTarget(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.Host.HttpUrl("/json/close/"+id), nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	resp, err := d.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request close target failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("close target returned HTTP %d", resp.StatusCode)
	}
	return nil
}

type devToolsSession struct {
	id      string
	target  target
	runtime *DevTools
	conn    *websocket.Conn

	writeMutex sync.Mutex
	mutex      sync.Mutex
	nextId     int64
	pending    map[int64]chan *protocolMessage
	entries    []core.LogEntry
	closed     bool
	readErr    error

	loaded    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

func (s *devToolsSession) ID() string {
	return s.id
}

func (s *devToolsSession) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	select {
	case <-s.loaded:
	default:
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := s.call(ctx, "Page.navigate", map[string]string{"url": url})
	if err != nil {
		return s.navigationError(url, err)
	}

	var navigation struct {
		ErrorText string `json:"errorText"`
	}
	err = json.Unmarshal(result, &navigation)
	if err != nil {
		return WrapBackendError("navigate", url, fmt.Errorf("decode navigation result failed: %w", err))
	}
	if navigation.ErrorText != "" {
		return NewBackendError("navigate", fmt.Sprintf("%v: %v", url, navigation.ErrorText))
	}

	select {
	case <-s.loaded:
		core.V1("session %v loaded %v", s.id, url)
		return nil
	case <-s.done:
		return WrapBackendError("navigate", url, ErrSessionClosed)
	case <-ctx.Done():
		return s.navigationError(url, ctx.Err())
	}
}

func (s *devToolsSession) navigationError(url string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return WrapBackendError("navigate", url, ErrNavigationTimeout)
	}
	return WrapBackendError("navigate", url, err)
}

// Log returns the entries buffered since the previous call and clears the buffer.
func (s *devToolsSession) Log(ctx context.Context, channel string) ([]core.LogEntry, error) {
	if channel != PerformanceLog {
		return nil, WrapBackendError("get log", channel, ErrUnsupportedLog)
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	if s.closed {
		return nil, WrapBackendError("get log", channel, ErrSessionClosed)
	}
	entries := s.entries
	s.entries = nil
	if entries == nil {
		entries = []core.LogEntry{}
	}
	return entries, nil
}

func (s *devToolsSession) Close() error {
	s.closeOnce.Do(func() {
		s.mutex.Lock()
		s.closed = true
		s.mutex.Unlock()

		s.writeMutex.Lock()
		err := s.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMutex.Unlock()
		if err != nil {
			core.V2("send close to session %v failed: %v", s.id, err)
		}

		err = s.conn.Close()
		if err != nil {
			core.V2("close connection of session %v failed: %v", s.id, err)
		}

		err = s.runtime.closeTarget(s.target.Id)
		if err != nil {
			s.closeErr = WrapBackendError("release session", s.id, err)
		}
		core.V1("browser session %v released", s.id)
	})
	return s.closeErr
}

func (s *devToolsSession) call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return nil, ErrSessionClosed
	}
	s.nextId++
	id := s.nextId
	reply := make(chan *protocolMessage, 1)
	s.pending[id] = reply
	s.mutex.Unlock()

	defer func() {
		s.mutex.Lock()
		delete(s.pending, id)
		s.mutex.Unlock()
	}()

	data, err := json.Marshal(protocolCall{Id: id, Method: method, Params: params})
	if err != nil {
		return nil, fmt.Errorf("marshal %v failed: %w", method, err)
	}

	s.writeMutex.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, data)
	s.writeMutex.Unlock()
	if err != nil {
		return nil, fmt.Errorf("send %v failed: %w", method, err)
	}

	select {
	case message := <-reply:
		if message.Error != nil {
			return nil, fmt.Errorf("%v failed: %v (%v)", method, message.Error.Message, message.Error.Code)
		}
		return message.Result, nil
	case <-s.done:
		return nil, fmt.Errorf("%v: %w: %v", method, ErrSessionClosed, s.readError())
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *devToolsSession) readError() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.readErr
}

func (s *devToolsSession) read() {
	defer close(s.done)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mutex.Lock()
			s.readErr = err
			s.mutex.Unlock()
			core.V2("session %v read stopped: %v", s.id, err)
			return
		}

		var message protocolMessage
		err = json.Unmarshal(data, &message)
		if err != nil {
			core.Warn("parse devtools message %v failed: %v", string(data), err)
			continue
		}

		if message.Id != 0 {
			s.deliver(&message)
		} else if message.Method != "" {
			s.record(&message)
		}
	}
}

func (s *devToolsSession) deliver(message *protocolMessage) {
	s.mutex.Lock()
	reply := s.pending[message.Id]
	s.mutex.Unlock()

	if reply == nil {
		core.V5("dropping reply %v without caller", message.Id)
		return
	}
	reply <- message
}

func (s *devToolsSession) record(message *protocolMessage) {
	method := message.Method
	performance := types.Performance{
		Message: &types.Message{
			Method: &method,
			Params: message.Params,
		},
		Webview: s.target.Id,
	}
	data, err := json.Marshal(performance)
	if err != nil {
		core.Warn("marshal %v event failed: %v", method, err)
		return
	}

	entry := core.LogEntry{
		Message:   string(data),
		Level:     "INFO",
		Timestamp: time.Now().UnixMilli(),
	}
	s.mutex.Lock()
	s.entries = append(s.entries, entry)
	s.mutex.Unlock()

	if method == loadEventMethod {
		select {
		case s.loaded <- struct{}{}:
		default:
		}
	}
}
