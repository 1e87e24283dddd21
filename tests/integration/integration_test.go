//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/withnacho/bikestore-catalog/internal/domain/catalog"
	"github.com/withnacho/bikestore-catalog/internal/handler"
	"github.com/withnacho/bikestore-catalog/internal/imaging"
	pgstore "github.com/withnacho/bikestore-catalog/internal/storage/postgres"
)

var (
	baseURL    string
	httpClient *http.Client
)

// Response types mirror the wire format so the tests stay independent of the
// encoder.

type metadataEntry struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type categoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type categoryEnvelope struct {
	Metadata   []metadataEntry    `json:"metadata"`
	Categories []categoryResponse `json:"categories"`
}

type productResponse struct {
	ID       int64            `json:"id"`
	Name     string           `json:"name"`
	Price    int64            `json:"price"`
	Quantity int              `json:"quantity"`
	Picture  []byte           `json:"picture"`
	Category categoryResponse `json:"category"`
}

type productEnvelope struct {
	Metadata []metadataEntry   `json:"metadata"`
	Products []productResponse `json:"products"`
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pg, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bikestore"),
		tcpostgres.WithUsername("bikestore"),
		tcpostgres.WithPassword("bikestore"),
		tcpostgres.BasicWaitStrategies(),
	)
	defer func() {
		if err := testcontainers.TerminateContainer(pg); err != nil {
			log.Printf("terminate postgres: %v", err)
		}
	}()
	if err != nil {
		log.Printf("start postgres: %v", err)
		return 1
	}

	databaseURL, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("connection string: %v", err)
		return 1
	}

	pool, err := pgstore.NewPool(ctx, databaseURL)
	if err != nil {
		log.Printf("connect: %v", err)
		return 1
	}
	defer pool.Close()

	if err := pgstore.RunMigrations(ctx, pool); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}

	categories := pgstore.NewCategoryRepository(pool)
	products := pgstore.NewProductRepository(pool)
	tx := pgstore.NewTxRunner(pool)
	codec := imaging.ZlibCodec{}

	mux := http.NewServeMux()
	handler.New(
		handler.Config{MaxUploadBytes: 10 << 20},
		catalog.NewCategoryService(categories, tx),
		catalog.NewProductService(categories, products, codec, tx),
	).Register(mux)

	server := httptest.NewServer(mux)
	defer server.Close()

	baseURL = server.URL
	httpClient = &http.Client{Timeout: 10 * time.Second}
	log.Printf("API available at %s", baseURL)

	return m.Run()
}

// HTTP helpers.

func doGet(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func doJSON(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, bytes.NewReader(data))
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func doDelete(t *testing.T, path string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), http.MethodDelete, baseURL+path, nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE %s: %v", path, err)
	}
	return resp
}

// doProductForm sends a multipart product request with a picture part plus
// the given form fields.
func doProductForm(t *testing.T, method, path string, picture []byte, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("picture", "picture.png")
	if err != nil {
		t.Fatalf("create picture part: %v", err)
	}
	if _, err := part.Write(picture); err != nil {
		t.Fatalf("write picture: %v", err)
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close form: %v", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, baseURL+path, &buf)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func drain(t *testing.T, resp *http.Response) []byte {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return data
}

// createCategory persists a category through the API and returns its ID.
func createCategory(t *testing.T, name, description string) int64 {
	t.Helper()

	resp := doJSON(t, http.MethodPost, "/api/v1/categories", map[string]string{
		"name":        name,
		"description": description,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create category %q: status %d", name, resp.StatusCode)
	}

	env := decodeJSON[categoryEnvelope](t, resp)
	if len(env.Categories) != 1 {
		t.Fatalf("create category %q: got %d records", name, len(env.Categories))
	}
	return env.Categories[0].ID
}

// createProduct persists a product through the API and returns its ID.
func createProduct(t *testing.T, name string, price int64, quantity int, picture []byte, categoryID int64) int64 {
	t.Helper()

	resp := doProductForm(t, http.MethodPost, "/api/v1/products", picture, map[string]string{
		"name":       name,
		"price":      fmt.Sprintf("%d", price),
		"quantity":   fmt.Sprintf("%d", quantity),
		"categoryId": fmt.Sprintf("%d", categoryID),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create product %q: status %d: %s", name, resp.StatusCode, drain(t, resp))
	}

	env := decodeJSON[productEnvelope](t, resp)
	if len(env.Products) != 1 {
		t.Fatalf("create product %q: got %d records", name, len(env.Products))
	}
	return env.Products[0].ID
}
