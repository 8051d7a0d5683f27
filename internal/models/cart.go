package models

// CartLine 购物车行（每个商品一行）
type CartLine struct {
	ProductID    uint   `json:"product_id"`
	Name         string `json:"name"`
	UnitPrice    Money  `json:"unit_price"`
	Quantity     int    `json:"quantity"`
	LineSubtotal Money  `json:"line_subtotal"`
	ImageURL     string `json:"image_url,omitempty"`
}

// Recompute 按单价 × 数量重算行小计
func (l *CartLine) Recompute() {
	l.LineSubtotal = l.UnitPrice.Times(l.Quantity)
}

// Cart 购物车视图
type Cart struct {
	Lines    []CartLine `json:"items"`
	Subtotal Money      `json:"subtotal"`
}

// NewCart 创建空购物车
func NewCart() Cart {
	return Cart{Lines: []CartLine{}, Subtotal: ZeroMoney()}
}

// IndexOf 按商品 ID 查找行下标，未找到返回 -1
func (c Cart) IndexOf(productID uint) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Recompute 重算所有行小计与总计
func (c *Cart) Recompute() {
	total := ZeroMoney()
	for i := range c.Lines {
		c.Lines[i].Recompute()
		total = total.Plus(c.Lines[i].LineSubtotal)
	}
	c.Subtotal = total
}

// TotalItemCount 商品件数总和
func (c Cart) TotalItemCount() int {
	count := 0
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty 是否为空
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone 深拷贝
func (c Cart) Clone() Cart {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines, Subtotal: c.Subtotal}
}
