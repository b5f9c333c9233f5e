package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	unsplashSearchURL = "https://api.unsplash.com/search/photos"
	defaultTimeout    = 10 * time.Second
	imagesPerSearch   = 9
)

var (
	ErrInvalidAPIKey = errors.New("unsplash api key is missing")
	ErrEmptyQuery    = errors.New("query parameter is required")
	ErrAPIError      = errors.New("unsplash api error")
)

// ImageSearchService proxies image searches to Unsplash
type ImageSearchService struct {
	accessKey  string
	baseURL    string
	httpClient *http.Client
}

type unsplashSearchResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
	} `json:"results"`
}

// NewImageSearchService creates a new ImageSearchService instance
func NewImageSearchService(accessKey string) *ImageSearchService {
	return &ImageSearchService{
		accessKey: accessKey,
		baseURL:   unsplashSearchURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithBaseURL points the service at another endpoint, used by tests
func (s *ImageSearchService) WithBaseURL(baseURL string) *ImageSearchService {
	s.baseURL = baseURL
	return s
}

// Configured reports whether an access key is set
func (s *ImageSearchService) Configured() bool {
	return s.accessKey != ""
}

// Search returns the regular-size URLs of up to nine photos matching query
func (s *ImageSearchService) Search(ctx context.Context, query string) ([]string, error) {
	if s.accessKey == "" {
		return nil, ErrInvalidAPIKey
	}
	if query == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("client_id", s.accessKey)
	params.Set("per_page", strconv.Itoa(imagesPerSearch))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", ErrAPIError, resp.Status)
	}

	var searchResp unsplashSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	urls := make([]string, 0, len(searchResp.Results))
	for _, r := range searchResp.Results {
		if r.URLs.Regular != "" {
			urls = append(urls, r.URLs.Regular)
		}
	}
	return urls, nil
}
