// Package ozon is a thin client for the Ozon Seller API, covering the
// FBS posting, label and product endpoints the bot works with.
package ozon

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api-seller.ozon.ru"

// APIError is a non-2xx answer from the Seller API.
type APIError struct {
	StatusCode int
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("ozon api: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("ozon api: status %d", e.StatusCode)
}

// Client talks to the Seller API on behalf of one seller account.
type Client struct {
	baseURL  string
	clientID string
	apiKey   string
	http     *http.Client
}

func NewClient(clientID, apiKey string) *Client {
	return &Client{
		baseURL:  DefaultBaseURL,
		clientID: clientID,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

// SetBaseURL overrides the API host, used in tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

func (c *Client) do(ctx context.Context, path string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out interface{}) error {
	resp, err := c.do(ctx, path, payload)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decode response: %w", path, err)
	}
	return nil
}

// postRaw returns the response body and content type as-is. The label
// endpoints answer with PDF or image bytes on success and JSON on failure.
func (c *Client) postRaw(ctx context.Context, path string, payload interface{}) ([]byte, string, error) {
	resp, err := c.do(ctx, path, payload)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", decodeAPIError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: read response: %w", path, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	json.Unmarshal(data, apiErr)
	return apiErr
}

// ListPostings returns FBS postings in the given status over the last
// 30 days, newest first, capped at limit.
func (c *Client) ListPostings(ctx context.Context, status string, limit int) ([]Posting, error) {
	now := time.Now().UTC()
	req := map[string]interface{}{
		"dir":    "DESC",
		"filter": map[string]interface{}{
			"since":  now.AddDate(0, 0, -30).Format(time.RFC3339),
			"to":     now.Format(time.RFC3339),
			"status": status,
		},
		"limit":  limit,
		"offset": 0,
		"with": map[string]bool{
			"analytics_data": true,
			"barcodes":       true,
			"financial_data": true,
			"translit":       true,
		},
	}
	var resp struct {
		Result struct {
			Postings []Posting `json:"postings"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, "/v3/posting/fbs/list", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result.Postings, nil
}

// GetPosting fetches one posting by number.
func (c *Client) GetPosting(ctx context.Context, postingNumber string) (*Posting, error) {
	req := map[string]interface{}{
		"posting_number": postingNumber,
		"with": map[string]bool{
			"analytics_data": true,
			"barcodes":       true,
			"financial_data": true,
			"translit":       true,
		},
	}
	var resp struct {
		Result Posting `json:"result"`
	}
	if err := c.postJSON(ctx, "/v3/posting/fbs/get", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Result, nil
}

// ShipPosting confirms assembly of a posting, one package holding all
// product lines.
func (c *Client) ShipPosting(ctx context.Context, postingNumber string, items []ShipItem) error {
	req := map[string]interface{}{
		"posting_number": postingNumber,
		"packages": []ShipPackage{
			{Products: items},
		},
	}
	return c.postJSON(ctx, "/v4/posting/fbs/ship", req, nil)
}

// PackageLabel downloads the shipping label PDF for the given postings.
func (c *Client) PackageLabel(ctx context.Context, postingNumbers []string) ([]byte, error) {
	req := map[string]interface{}{"posting_number": postingNumbers}
	data, contentType, err := c.postRaw(ctx, "/v2/posting/fbs/package-label", req)
	if err != nil {
		return nil, err
	}
	if !strings.Contains(contentType, "application/pdf") {
		apiErr := &APIError{StatusCode: http.StatusOK}
		json.Unmarshal(data, apiErr)
		if apiErr.Message == "" {
			apiErr.Message = "label not ready"
		}
		return nil, apiErr
	}
	return data, nil
}

// PostingBarcode downloads the vendor barcode image for a posting.
func (c *Client) PostingBarcode(ctx context.Context, postingNumber string) ([]byte, string, error) {
	req := map[string]interface{}{"posting_number": postingNumber}
	return c.postRaw(ctx, "/v2/posting/fbs/barcode", req)
}

// ListProducts pages through the seller catalogue and returns all
// non-archived items.
func (c *Client) ListProducts(ctx context.Context) ([]ProductListItem, error) {
	var items []ProductListItem
	lastID := ""
	for {
		req := map[string]interface{}{
			"filter":  map[string]string{"visibility": "ALL"},
			"last_id": lastID,
			"limit":   1000,
		}
		var resp struct {
			Result struct {
				Items  []ProductListItem `json:"items"`
				Total  int               `json:"total"`
				LastID string            `json:"last_id"`
			} `json:"result"`
		}
		if err := c.postJSON(ctx, "/v3/product/list", req, &resp); err != nil {
			return nil, err
		}
		for _, it := range resp.Result.Items {
			if !it.Archived {
				items = append(items, it)
			}
		}
		if len(resp.Result.Items) == 0 || resp.Result.LastID == "" || len(items) >= resp.Result.Total {
			break
		}
		lastID = resp.Result.LastID
	}
	return items, nil
}

// GetProductInfo fetches detailed records for the given product ids.
func (c *Client) GetProductInfo(ctx context.Context, productIDs []int64) ([]ProductInfo, error) {
	req := map[string]interface{}{"product_id": productIDs}
	var resp struct {
		Items []ProductInfo `json:"items"`
	}
	if err := c.postJSON(ctx, "/v3/product/info/list", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// ProductByOffer fetches the product record behind one offer id.
func (c *Client) ProductByOffer(ctx context.Context, offerID string) (*ProductInfo, error) {
	req := map[string]interface{}{"offer_id": []string{offerID}}
	var resp struct {
		Items []ProductInfo `json:"items"`
	}
	if err := c.postJSON(ctx, "/v3/product/info/list", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("offer %s not found", offerID)
	}
	return &resp.Items[0], nil
}

// ProductsBySKU fetches product records for the given SKUs.
func (c *Client) ProductsBySKU(ctx context.Context, skus []int64) ([]ProductInfo, error) {
	req := map[string]interface{}{"sku": skus}
	var resp struct {
		Items []ProductInfo `json:"items"`
	}
	if err := c.postJSON(ctx, "/v3/product/info/list", req, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// UpdateStock sets the FBS stock for one offer on one warehouse and
// reports whether the API accepted the update.
func (c *Client) UpdateStock(ctx context.Context, offerID string, warehouseID int64, stock int) (bool, error) {
	req := map[string]interface{}{
		"stocks": []map[string]interface{}{
			{
				"offer_id":     offerID,
				"stock":        stock,
				"warehouse_id": warehouseID,
			},
		},
	}
	var resp struct {
		Result []struct {
			OfferID string `json:"offer_id"`
			Updated bool   `json:"updated"`
			Errors  []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		} `json:"result"`
	}
	if err := c.postJSON(ctx, "/v2/products/stocks", req, &resp); err != nil {
		return false, err
	}
	for _, r := range resp.Result {
		if r.OfferID == offerID {
			if !r.Updated && len(r.Errors) > 0 {
				return false, fmt.Errorf("stock update rejected: %s", r.Errors[0].Message)
			}
			return r.Updated, nil
		}
	}
	return false, nil
}

// FBSStocks returns per-warehouse stock for the given SKUs.
func (c *Client) FBSStocks(ctx context.Context, skus []int64) ([]StockInfo, error) {
	req := map[string]interface{}{"sku": skus}
	var resp struct {
		Result []StockInfo `json:"result"`
	}
	if err := c.postJSON(ctx, "/v1/product/info/stocks-by-warehouse/fbs", req, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}
