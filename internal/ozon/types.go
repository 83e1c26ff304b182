package ozon

// Posting statuses used by the bot. The API knows more; these are the two
// an FBS seller acts on.
const (
	StatusAwaitingPackaging = "awaiting_packaging"
	StatusAwaitingDeliver   = "awaiting_deliver"
)

// StatusTitles maps raw FBS statuses to operator-facing Russian titles.
var StatusTitles = map[string]string{
	"awaiting_registration":  "Ожидает регистрации",
	"acceptance_in_progress": "Идёт приёмка",
	"awaiting_approve":       "Ожидает подтверждения",
	"awaiting_packaging":     "Ожидает упаковки",
	"awaiting_deliver":       "Ожидает отгрузки",
	"arbitration":            "Арбитраж",
	"delivering":             "Доставляется",
	"driver_pickup":          "У водителя",
	"cancelled":              "Отменено",
	"not_accepted":           "Не принят на СЦ",
}

// Posting is one FBS shipment.
type Posting struct {
	PostingNumber  string           `json:"posting_number"`
	OrderID        int64            `json:"order_id"`
	Status         string           `json:"status"`
	ShipmentDate   string           `json:"shipment_date"`
	InProcessAt    string           `json:"in_process_at"`
	TrackingNumber string           `json:"tracking_number"`
	Products       []PostingProduct `json:"products"`
	Barcodes       *PostingBarcodes `json:"barcodes,omitempty"`
	AnalyticsData  *AnalyticsData   `json:"analytics_data,omitempty"`
}

// PostingProduct is one product line inside a posting.
type PostingProduct struct {
	Name     string `json:"name"`
	SKU      int64  `json:"sku"`
	OfferID  string `json:"offer_id"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// PostingBarcodes carries the carrier barcodes assigned to a posting.
type PostingBarcodes struct {
	UpperBarcode string `json:"upper_barcode"`
	LowerBarcode string `json:"lower_barcode"`
}

// AnalyticsData is delivery metadata attached when requested.
type AnalyticsData struct {
	Region            string `json:"region"`
	City              string `json:"city"`
	DeliveryType      string `json:"delivery_type"`
	WarehouseName     string `json:"warehouse_name"`
	IsPremium         bool   `json:"is_premium"`
	PaymentTypeGroup  string `json:"payment_type_group_name"`
	DeliveryDateBegin string `json:"delivery_date_begin"`
}

// ProductListItem is a row from the product list endpoint.
type ProductListItem struct {
	ProductID int64  `json:"product_id"`
	OfferID   string `json:"offer_id"`
	Archived  bool   `json:"archived"`
}

// ProductInfo is the detailed product record.
type ProductInfo struct {
	ID           int64    `json:"id"`
	Name         string   `json:"name"`
	OfferID      string   `json:"offer_id"`
	Barcodes     []string `json:"barcodes"`
	SKU          int64    `json:"sku"`
	PrimaryImage string   `json:"primary_image"`
	Images       []string `json:"images"`
}

// StockInfo is FBS warehouse stock for one SKU.
type StockInfo struct {
	SKU           int64  `json:"sku"`
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Present       int    `json:"present"`
	Reserved      int    `json:"reserved"`
}

// ShipItem is one product line inside a ship package.
type ShipItem struct {
	Quantity int   `json:"quantity"`
	SKU      int64 `json:"sku"`
}

// ShipPackage groups items packed together.
type ShipPackage struct {
	Products []ShipItem `json:"products"`
}
