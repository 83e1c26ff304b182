package ozon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("client-1", "key-1")
	c.SetBaseURL(srv.URL)
	return c, srv
}

func TestListPostings(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v3/posting/fbs/list" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Client-Id"); got != "client-1" {
			t.Errorf("Client-Id = %q", got)
		}
		if got := r.Header.Get("Api-Key"); got != "key-1" {
			t.Errorf("Api-Key = %q", got)
		}
		var req struct {
			Filter struct {
				Status string `json:"status"`
			} `json:"filter"`
			Limit int `json:"limit"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Filter.Status != StatusAwaitingPackaging {
			t.Errorf("status filter = %q", req.Filter.Status)
		}
		if req.Limit != 50 {
			t.Errorf("limit = %d", req.Limit)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": map[string]interface{}{
				"postings": []map[string]interface{}{
					{
						"posting_number": "12345-0001-1",
						"status":         "awaiting_packaging",
						"products": []map[string]interface{}{
							{"name": "Чехол для телефона", "sku": 111, "quantity": 2},
						},
					},
				},
			},
		})
	})

	postings, err := c.ListPostings(context.Background(), StatusAwaitingPackaging, 50)
	if err != nil {
		t.Fatalf("ListPostings: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("got %d postings, want 1", len(postings))
	}
	if postings[0].PostingNumber != "12345-0001-1" {
		t.Errorf("posting number = %q", postings[0].PostingNumber)
	}
	if postings[0].Products[0].Quantity != 2 {
		t.Errorf("quantity = %d", postings[0].Products[0].Quantity)
	}
}

func TestPackageLabelPDF(t *testing.T) {
	pdf := []byte("%PDF-1.4 fake")
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	})

	data, err := c.PackageLabel(context.Background(), []string{"12345-0001-1"})
	if err != nil {
		t.Fatalf("PackageLabel: %v", err)
	}
	if string(data) != string(pdf) {
		t.Errorf("label bytes differ from response body")
	}
}

func TestPackageLabelNotReady(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 7, "message": "POSTINGS_NOT_READY",
		})
	})

	_, err := c.PackageLabel(context.Background(), []string{"12345-0001-1"})
	if err == nil {
		t.Fatal("expected error when API answers JSON instead of PDF")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.Message != "POSTINGS_NOT_READY" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"code": 3, "message": "Invalid Api-Key",
		})
	})

	_, err := c.GetPosting(context.Background(), "12345-0001-1")
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Invalid Api-Key" {
		t.Errorf("message = %q", apiErr.Message)
	}
}

func TestShipPosting(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v4/posting/fbs/ship" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req struct {
			PostingNumber string        `json:"posting_number"`
			Packages      []ShipPackage `json:"packages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Packages) != 1 || len(req.Packages[0].Products) != 2 {
			t.Errorf("packages = %+v", req.Packages)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"result": []string{req.PostingNumber}})
	})

	items := []ShipItem{{SKU: 111, Quantity: 1}, {SKU: 222, Quantity: 3}}
	if err := c.ShipPosting(context.Background(), "12345-0001-1", items); err != nil {
		t.Fatalf("ShipPosting: %v", err)
	}
}

func TestListProductsPaging(t *testing.T) {
	calls := 0
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			LastID string `json:"last_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		page := map[string]interface{}{
			"items":   []map[string]interface{}{{"product_id": 1, "offer_id": "A"}, {"product_id": 2, "offer_id": "B", "archived": true}},
			"total":   3,
			"last_id": "next",
		}
		if req.LastID == "next" {
			page = map[string]interface{}{
				"items":   []map[string]interface{}{{"product_id": 3, "offer_id": "C"}},
				"total":   3,
				"last_id": "",
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"result": page})
	})

	items, err := c.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("ListProducts: %v", err)
	}
	if calls != 2 {
		t.Errorf("api calls = %d, want 2", calls)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2 (archived skipped)", len(items))
	}
	if items[0].OfferID != "A" || items[1].OfferID != "C" {
		t.Errorf("items = %+v", items)
	}
}

func TestUpdateStockRejected(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"result": []map[string]interface{}{
				{
					"offer_id": "A",
					"updated":  false,
					"errors":   []map[string]string{{"code": "TOO_MANY_REQUESTS", "message": "too many requests"}},
				},
			},
		})
	})

	ok, err := c.UpdateStock(context.Background(), "A", 77, 10)
	if err == nil {
		t.Fatal("expected error for rejected update")
	}
	if ok {
		t.Error("updated should be false")
	}
}
