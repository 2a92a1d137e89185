package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"cinebook/logging"
	"github.com/charmbracelet/log"
	"github.com/tidwall/gjson"
)

const cityErrorSnippetN = 120

// City is a coarse location suitable for the profile's location field.
type City struct {
	Name    string
	Region  string
	Country string
	Source  string
}

// String formats the city the way profiles store it, e.g. "Pune, Maharashtra, India".
func (c City) String() string {
	var parts []string
	for _, part := range []string{c.Name, c.Region, c.Country} {
		part = strings.TrimSpace(part)
		if part != "" && !containsFold(parts, part) {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}

type cityProvider struct {
	name     string
	endpoint string
	parse    func([]byte) (City, error)
}

var defaultCityProviders = []cityProvider{
	{name: "ipapi", endpoint: "https://ipapi.co/json/", parse: parseIPAPI},
	{name: "ipwhois", endpoint: "https://ipwho.is/", parse: parseIPWhoIs},
	{name: "ipinfo", endpoint: "https://ipinfo.io/json", parse: parseIPInfo},
}

// Locator guesses the user's city from their public IP, trying each
// provider in turn.
type Locator struct {
	httpClient *http.Client
	providers  []cityProvider
	logger     *log.Logger
}

func NewLocator(httpClient *http.Client) *Locator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Locator{
		httpClient: httpClient,
		providers:  defaultCityProviders,
		logger:     logging.Discard(),
	}
}

func (l *Locator) WithLogger(logger *log.Logger) *Locator {
	if logger != nil {
		l.logger = logger.WithPrefix("locate")
	}
	return l
}

// DetectCity returns the first city any provider reports. Context errors
// stop the search immediately.
func (l *Locator) DetectCity(ctx context.Context) (City, error) {
	if len(l.providers) == 0 {
		return City{}, errors.New("no location providers configured")
	}

	var providerErrors []string
	for _, provider := range l.providers {
		city, err := l.fromProvider(ctx, provider)
		if err == nil {
			return city, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return City{}, err
		}
		l.logger.Debug("location provider failed", "provider", provider.name, "err", err)
		providerErrors = append(providerErrors, fmt.Sprintf("%s: %s", provider.name, err.Error()))
	}
	return City{}, fmt.Errorf("all location providers failed (%s)", strings.Join(providerErrors, " | "))
}

func (l *Locator) fromProvider(ctx context.Context, provider cityProvider) (City, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, provider.endpoint, nil)
	if err != nil {
		return City{}, fmt.Errorf("create location request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", defaultUserAgent)

	res, err := l.httpClient.Do(req)
	if err != nil {
		return City{}, fmt.Errorf("location request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
		if msg := compactErrorSnippet(string(snippet)); msg != "" {
			return City{}, fmt.Errorf("%s: %s", res.Status, msg)
		}
		return City{}, errors.New(res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 64<<10))
	if err != nil {
		return City{}, fmt.Errorf("read location response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return City{}, errors.New("location response is not JSON")
	}
	city, err := provider.parse(body)
	if err != nil {
		return City{}, err
	}
	if strings.TrimSpace(city.Name) == "" {
		return City{}, errors.New("provider returned no city")
	}
	city.Source = provider.name
	return city, nil
}

func parseIPAPI(body []byte) (City, error) {
	if gjson.GetBytes(body, "error").Bool() {
		reason := gjson.GetBytes(body, "reason").String()
		if reason == "" {
			reason = "unknown error"
		}
		return City{}, errors.New(reason)
	}
	return City{
		Name:    gjson.GetBytes(body, "city").String(),
		Region:  gjson.GetBytes(body, "region").String(),
		Country: gjson.GetBytes(body, "country_name").String(),
	}, nil
}

func parseIPWhoIs(body []byte) (City, error) {
	if !gjson.GetBytes(body, "success").Bool() {
		message := strings.TrimSpace(gjson.GetBytes(body, "message").String())
		if message == "" {
			message = "provider returned unsuccessful response"
		}
		return City{}, errors.New(message)
	}
	return City{
		Name:    gjson.GetBytes(body, "city").String(),
		Region:  gjson.GetBytes(body, "region").String(),
		Country: gjson.GetBytes(body, "country").String(),
	}, nil
}

func parseIPInfo(body []byte) (City, error) {
	if gjson.GetBytes(body, "bogon").Bool() {
		return City{}, errors.New("bogon IP")
	}
	if message := gjson.GetBytes(body, "error.message").String(); message != "" {
		return City{}, errors.New(message)
	}
	return City{
		Name:    gjson.GetBytes(body, "city").String(),
		Region:  gjson.GetBytes(body, "region").String(),
		Country: gjson.GetBytes(body, "country").String(),
	}, nil
}

func compactErrorSnippet(raw string) string {
	text := strings.TrimSpace(raw)
	lower := strings.ToLower(text)
	if text == "" || strings.Contains(lower, "<html") || strings.Contains(lower, "<!doctype") {
		return ""
	}
	text = strings.Join(strings.Fields(text), " ")
	if len(text) > cityErrorSnippetN {
		text = text[:cityErrorSnippetN]
	}
	return text
}

func containsFold(values []string, target string) bool {
	for _, value := range values {
		if strings.EqualFold(value, target) {
			return true
		}
	}
	return false
}
