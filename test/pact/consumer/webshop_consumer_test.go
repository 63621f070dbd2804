//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/ipcsmmd/webshop/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

type beerPayload struct {
	ID         int64   `json:"id,omitempty"`
	Name       string  `json:"name"`
	Brand      string  `json:"brand"`
	Percentage float64 `json:"percentage"`
	Price      float64 `json:"price,omitempty"`
	Type       string  `json:"type,omitempty"`
}

type customerPayload struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status int
	title  string
	detail string
}

func (e apiError) Error() string {
	msg := e.title
	if msg == "" {
		msg = "api error"
	}
	if e.detail != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.detail)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.status)
}

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	example := pacttest.ExampleBeerPayload()
	beerBodyMatcher := matchers.Map{
		"id":         matchers.Like(pacttest.ExistingBeerID),
		"name":       matchers.Like(example["name"]),
		"brand":      matchers.Like(example["brand"]),
		"percentage": matchers.Like(example["percentage"]),
		"price":      matchers.Like(example["price"]),
		"type":       matchers.Term("dark", "dark|brown|light"),
	}
	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to add a beer").
		WithRequest("POST", "/api/beers", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(example)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(beerBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateCatalogBaseline).
		UponReceiving("a request to add a beer without price").
		WithRequest("POST", "/api/beers", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]any{"name": example["name"], "brand": example["brand"]})
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/validation-error"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.S("Cannot add a Beer without price!"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateBeerExists).
		UponReceiving("a request to fetch an existing beer").
		WithRequest("GET", fmt.Sprintf("/api/beers/%d", pacttest.ExistingBeerID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(beerBodyMatcher)
		})

	pact.AddInteraction().
		Given(pacttest.StateBeerMissing).
		UponReceiving("a request for a missing beer").
		WithRequest("GET", fmt.Sprintf("/api/beers/%d", pacttest.MissingBeerID)).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.S("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	customer := pacttest.ExampleCustomerPayload()
	pact.AddInteraction().
		Given(pacttest.StateCustomerExists).
		UponReceiving("a request to fetch an existing customer").
		WithRequest("GET", fmt.Sprintf("/api/customers/%d", pacttest.ExistingCustomerID)).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"id":        matchers.Like(pacttest.ExistingCustomerID),
				"firstName": matchers.Like(customer["firstName"]),
				"lastName":  matchers.Like(customer["lastName"]),
				"email":     matchers.Like(customer["email"]),
				"address":   matchers.Like(customer["address"]),
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		created, err := client.AddBeer(ctx, beerPayload{
			Name:       example["name"].(string),
			Brand:      example["brand"].(string),
			Percentage: example["percentage"].(float64),
			Price:      example["price"].(float64),
			Type:       example["type"].(string),
		})
		if err != nil {
			return fmt.Errorf("add beer: %w", err)
		}
		if created.ID == 0 {
			return errors.New("expected created beer ID to be set")
		}

		_, err = client.AddBeer(ctx, beerPayload{Name: example["name"].(string), Brand: example["brand"].(string)})
		var apiErr apiError
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusBadRequest {
			return fmt.Errorf("expected 400 for a beer without price, got %v", err)
		}

		var fetched beerPayload
		if err := client.get(ctx, fmt.Sprintf("/api/beers/%d", pacttest.ExistingBeerID), &fetched); err != nil {
			return fmt.Errorf("get beer: %w", err)
		}
		if fetched.ID != pacttest.ExistingBeerID {
			return fmt.Errorf("expected beer id %d, got %+v", pacttest.ExistingBeerID, fetched)
		}

		err = client.get(ctx, fmt.Sprintf("/api/beers/%d", pacttest.MissingBeerID), &fetched)
		if !errors.As(err, &apiErr) || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404 for beer %d, got %v", pacttest.MissingBeerID, err)
		}

		var found customerPayload
		if err := client.get(ctx, fmt.Sprintf("/api/customers/%d", pacttest.ExistingCustomerID), &found); err != nil {
			return fmt.Errorf("get customer: %w", err)
		}
		if found.ID != pacttest.ExistingCustomerID {
			return fmt.Errorf("expected customer id %d, got %+v", pacttest.ExistingCustomerID, found)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) AddBeer(ctx context.Context, beer beerPayload) (*beerPayload, error) {
	body, err := json.Marshal(beer)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/beers", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	var out beerPayload
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *storefrontClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *storefrontClient) do(req *http.Request, out any) error {
	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(res)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func decodeAPIError(res *http.Response) error {
	var problem problemDetail
	_ = json.NewDecoder(res.Body).Decode(&problem)
	status := problem.Status
	if status == 0 {
		status = res.StatusCode
	}
	return apiError{
		status: status,
		title:  problem.Title,
		detail: problem.Detail,
	}
}
