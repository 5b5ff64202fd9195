package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client wraps HTTP calls to the musicd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new musicd API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: serverURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error %d (%s): %s", e.Status, e.Code, e.Message)
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var e struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if err := json.Unmarshal(body, &e); err != nil || e.Error == "" {
		return &APIError{Status: resp.StatusCode, Message: string(bytes.TrimSpace(body))}
	}
	return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
}

func (c *Client) get(path string, result any) error {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(result)
}

func (c *Client) put(hc *http.Client, path string, body any, result any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, c.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// download streams a binary response into w and returns the server's
// suggested filename.
func (c *Client) download(path string, w io.Writer) (string, error) {
	resp, err := c.httpClient.Get(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", readAPIError(resp)
	}

	var name string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		name = params["filename"]
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	return name, nil
}

// API response types (mirror server types)

type StatusResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Items    int    `json:"items"`
	Albums   int    `json:"albums"`
	Importer bool   `json:"importer"`

	LastImport *struct {
		SessionID string         `json:"session_id"`
		At        string         `json:"at"`
		Choices   map[string]int `json:"choices"`
		Added     int            `json:"added"`
	} `json:"last_import,omitempty"`
}

// Item is the subset of item fields the CLI renders. The server sends every
// field; --json output passes them all through.
type Item struct {
	ID          int64  `json:"id"`
	AlbumID     *int64 `json:"album_id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`
	AlbumArtist string `json:"albumartist"`
	Album       string `json:"album"`
	Year        int    `json:"year"`
	Track       int    `json:"track"`
	Format      string `json:"format"`
	Path        string `json:"path"`
	Size        int64  `json:"size"`
}

type Album struct {
	ID          int64   `json:"id"`
	AlbumArtist string  `json:"albumartist"`
	Album       string  `json:"album"`
	Year        int     `json:"year"`
	Genre       string  `json:"genre"`
	ArtPath     *string `json:"artpath"`
	Items       []Item  `json:"items,omitempty"`
}

type ImportRequest struct {
	Path string `json:"path"`
	Args string `json:"args,omitempty"`
}

type TrackRecord struct {
	Artist string `json:"artist"`
	Album  string `json:"album"`
	Title  string `json:"title"`
	Path   string `json:"path"`
}

type ImportResponse struct {
	OK      bool                                           `json:"ok"`
	Summary map[string]int                                 `json:"summary"`
	Details map[string]map[string]map[string][]TrackRecord `json:"details"`
}

type EventResponse struct {
	ID         int64           `json:"id"`
	EventType  string          `json:"event_type"`
	EntityType string          `json:"entity_type"`
	EntityID   int64           `json:"entity_id"`
	OccurredAt string          `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type ListEventsResponse struct {
	Items  []EventResponse `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// API methods

func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.get("/status", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func queryPath(base, query string) string {
	if query == "" {
		return base
	}
	return base + "?" + url.Values{"query": {query}}.Encode()
}

// Items lists items matching query. Raw keeps every field the server sent.
func (c *Client) Items(query string) ([]json.RawMessage, error) {
	var resp []json.RawMessage
	if err := c.get(queryPath("/items", query), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Albums(query string) ([]json.RawMessage, error) {
	var resp []json.RawMessage
	if err := c.get(queryPath("/albums", query), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Album(id int64) (json.RawMessage, error) {
	var resp json.RawMessage
	if err := c.get("/album/"+strconv.FormatInt(id, 10), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Import runs an import on the server. It waits for the whole import, so no
// client timeout applies.
func (c *Client) Import(path, args string) (*ImportResponse, error) {
	hc := *c.httpClient
	hc.Timeout = 0

	var resp ImportResponse
	if err := c.put(&hc, "/import", ImportRequest{Path: path, Args: args}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ItemFile(id int64, w io.Writer) (string, error) {
	return c.download(fmt.Sprintf("/item/%d/file", id), w)
}

func artPath(kind string, id int64, size int) string {
	p := fmt.Sprintf("/%s/%d/art", kind, id)
	if size > 0 {
		p += "?size=" + strconv.Itoa(size)
	}
	return p
}

func (c *Client) ItemArt(id int64, size int, w io.Writer) (string, error) {
	return c.download(artPath("item", id, size), w)
}

func (c *Client) AlbumArt(id int64, size int, w io.Writer) (string, error) {
	return c.download(artPath("album", id, size), w)
}

// EventFilter narrows Events. Empty fields are not sent.
type EventFilter struct {
	Type       string
	EntityType string
}

func (c *Client) Events(f EventFilter, limit, offset int) (*ListEventsResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.EntityType != "" {
		q.Set("entity_type", f.EntityType)
	}

	var resp ListEventsResponse
	if err := c.get("/events?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
