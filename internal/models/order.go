package models

import "time"

// OrderItem 订单商品行快照
type OrderItem struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	UnitPrice    Money  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	LineSubtotal Money  `json:"line_subtotal"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Order 订单快照（后端所有，客户端创建后不再修改）
type Order struct {
	ID                uint        `json:"id"`
	Items             []OrderItem `json:"items"`
	Total             Money       `json:"total"`
	RetrievalType     string      `json:"retrieval_type"`
	PickupKeyword     string      `json:"pickup_keyword,omitempty"`
	DeliveryAddress   string      `json:"delivery_address,omitempty"`
	DestinationCity   string      `json:"destination_city,omitempty"`
	PaymentMethodName string      `json:"payment_method_name,omitempty"`
	Status            string      `json:"status"`
	CreatedAt         time.Time   `json:"created_at"`
}

// ItemCount 商品件数总和
func (o Order) ItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
