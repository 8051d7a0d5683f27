package mockapi

import "github.com/petshop-next/internal/models"

// DemoTenantSlug 演示门店 slug
const DemoTenantSlug = "petshop-centro"

// SeedDemo 写入演示门店与商品目录，返回门店记录
func (s *Server) SeedDemo() models.Tenant {
	tenant := s.AddTenant(models.Tenant{
		Slug:  DemoTenantSlug,
		Name:  "Pet Shop Centro",
		City:  "Campinas",
		State: "SP",
	})
	promo := models.MustMoney("89.90")
	catalog := []models.Product{
		{ID: 1, Name: "Ração Premium Cães Adultos 10kg", Barcode: "7891000000011", Price: models.MustMoney("109.90"), PromotionalPrice: &promo, PromotionActive: true, Category: "racao", Stock: 20, Active: true},
		{ID: 2, Name: "Areia Higiênica Gatos 4kg", Barcode: "7891000000028", Price: models.MustMoney("24.50"), Category: "higiene", Stock: 40, Active: true},
		{ID: 3, Name: "Petisco Bifinho Carne 65g", Barcode: "7891000000035", Price: models.MustMoney("9.99"), Category: "petiscos", Stock: 100, Active: true},
		{ID: 4, Name: "Coleira Antipulgas", Barcode: "7891000000042", Price: models.MustMoney("79.00"), Category: "saude", Stock: 0, Active: false},
		{ID: 7, Name: "Shampoo Neutro 500ml", Barcode: "7891000000073", Price: models.MustMoney("19.90"), Category: "higiene", Stock: 30, Active: true},
	}
	for _, product := range catalog {
		s.AddProduct(tenant.ID, product)
	}
	return tenant
}
