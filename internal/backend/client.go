package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

const (
	chatPath   = "/chat"
	askPath    = "/ask-pdf"
	uploadPath = "/upload-pdf"
)

// Client talks to the chat backend and the document service. It implements
// session.Transport.
type Client struct {
	apiURL    string
	docsURL   string
	sessionID string
	client    *http.Client
}

func NewClient(apiURL, docsURL string, timeout time.Duration) *Client {
	if docsURL == "" {
		docsURL = apiURL
	}
	return &Client{
		apiURL:  strings.TrimRight(apiURL, "/"),
		docsURL: strings.TrimRight(docsURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// SetSessionID tags every request with an X-Session-ID header.
func (c *Client) SetSessionID(id string) {
	c.sessionID = id
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply *string `json:"reply"`
}

type askResponse struct {
	Answer *string `json:"answer"`
}

type uploadResponse struct {
	Filename *string `json:"filename"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// Chat sends a general chat message and returns the reply text verbatim.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(chatRequest{Message: message})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var resp chatResponse
	if err := c.post(ctx, c.apiURL+chatPath, "application/json", bytes.NewReader(body), &resp); err != nil {
		return "", err
	}
	if resp.Reply == nil {
		return "", fmt.Errorf("response missing reply")
	}
	return *resp.Reply, nil
}

// AskDocument asks a question scoped to a previously uploaded document.
func (c *Client) AskDocument(ctx context.Context, filename, question string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("filename", filename); err != nil {
		return "", fmt.Errorf("write filename field: %w", err)
	}
	if err := mw.WriteField("question", question); err != nil {
		return "", fmt.Errorf("write question field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	var resp askResponse
	if err := c.post(ctx, c.docsURL+askPath, mw.FormDataContentType(), &buf, &resp); err != nil {
		return "", err
	}
	if resp.Answer == nil {
		return "", fmt.Errorf("response missing answer")
	}
	return *resp.Answer, nil
}

// UploadDocument uploads a document as the "pdf" form file and returns the
// identifier the document service assigned to it.
func (c *Client) UploadDocument(ctx context.Context, name string, body io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("pdf", name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, body); err != nil {
		return "", fmt.Errorf("copy document: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	var resp uploadResponse
	if err := c.post(ctx, c.docsURL+uploadPath, mw.FormDataContentType(), &buf, &resp); err != nil {
		return "", err
	}
	if resp.Filename == nil || *resp.Filename == "" {
		return "", fmt.Errorf("response missing filename")
	}
	return *resp.Filename, nil
}

func (c *Client) post(ctx context.Context, url, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if c.sessionID != "" {
		req.Header.Set("X-Session-ID", c.sessionID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", url, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		if json.Unmarshal(respBody, &errResp) == nil {
			if msg := firstNonEmpty(errResp.Error, errResp.Detail); msg != "" {
				return fmt.Errorf("backend error %d: %s", resp.StatusCode, msg)
			}
		}
		return fmt.Errorf("backend error %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
