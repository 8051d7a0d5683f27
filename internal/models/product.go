package models

// Product 商品（后端目录记录，客户端只读）
type Product struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Barcode          string `json:"barcode,omitempty"`
	Price            Money  `json:"price"`
	PromotionalPrice *Money `json:"promotional_price,omitempty"`
	PromotionActive  bool   `json:"promotion_active"`
	ImageURL         string `json:"image_url,omitempty"`
	Category         string `json:"category,omitempty"`
	Stock            int    `json:"stock"`
	Active           bool   `json:"active"`
}

// EffectivePrice 返回生效单价：促销生效且促销价已设置时取促销价，否则取原价
// 与后端的价格解析规则保持一致
func (p Product) EffectivePrice() Money {
	if p.PromotionActive && p.PromotionalPrice != nil && p.PromotionalPrice.IsPositive() {
		return *p.PromotionalPrice
	}
	return p.Price
}
