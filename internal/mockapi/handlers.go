package mockapi

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/petshop-next/internal/constants"
	"github.com/petshop-next/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type cartItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type finalizeRequest struct {
	DestinationCity   string  `json:"destination_city"`
	RetrievalType     string  `json:"retrieval_type"`
	DeliveryAddress   *string `json:"delivery_address"`
	PaymentMethodName *string `json:"payment_method_name"`
	Origin            string  `json:"origin"`
	PickupKeyword     string  `json:"pickup_keyword"`
}

type pushTokenRequest struct {
	Token    string `json:"token"`
	Platform string `json:"platform"`
}

func parseUintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		abortMessage(c, http.StatusBadRequest, "identificador inválido")
		return 0, false
	}
	return uint(id), true
}

func (s *Server) handleTenantBySlug(c *gin.Context) {
	slug := strings.ToLower(strings.TrimSpace(c.Param("slug")))
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.slugIndex[slug]
	if !ok {
		abortMessage(c, http.StatusNotFound, "loja não encontrada")
		return
	}
	c.JSON(http.StatusOK, s.tenants[id])
}

func (s *Server) handleRegister(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "dados inválidos")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || len(req.Password) < 6 {
		abortMessage(c, http.StatusUnprocessableEntity, "e-mail e senha (mínimo 6 caracteres) são obrigatórios")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		abortMessage(c, http.StatusInternalServerError, "erro interno")
		return
	}

	s.mu.Lock()
	if _, exists := s.users[email]; exists {
		s.mu.Unlock()
		abortMessage(c, http.StatusConflict, "e-mail já cadastrado")
		return
	}
	s.nextUserID++
	record := &userRecord{
		user:         models.User{ID: s.nextUserID, Email: email, Name: strings.TrimSpace(req.Name)},
		passwordHash: hash,
	}
	s.users[email] = record
	user := record.user
	s.mu.Unlock()

	s.respondAuth(c, http.StatusCreated, user)
}

func (s *Server) handleLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "dados inválidos")
		return
	}
	s.mu.Lock()
	record, ok := s.users[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(record.passwordHash, []byte(req.Password)) != nil {
		abortMessage(c, http.StatusUnauthorized, "credenciais inválidas")
		return
	}
	s.respondAuth(c, http.StatusOK, record.user)
}

func (s *Server) respondAuth(c *gin.Context, status int, user models.User) {
	s.mu.Lock()
	ttl := s.opts.TokenTTL
	s.mu.Unlock()
	token, err := s.signToken(user, ttl)
	if err != nil {
		abortMessage(c, http.StatusInternalServerError, "erro interno")
		return
	}
	c.JSON(status, gin.H{"access_token": token, "user": user})
}

func (s *Server) handleMe(c *gin.Context) {
	userID := c.GetUint(ctxUserID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.users {
		if record.user.ID == userID {
			c.JSON(http.StatusOK, record.user)
			return
		}
	}
	abortMessage(c, http.StatusNotFound, "usuário não encontrado")
}

// UpdateUserAddress 设置用户资料地址（测试用）
func (s *Server) UpdateUserAddress(email string, address *models.Address) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if record, ok := s.users[strings.ToLower(email)]; ok {
		record.user.Address = address
	}
}

func (s *Server) handleListProducts(c *gin.Context) {
	tenantID := c.GetString(ctxTenantID)
	query := strings.ToLower(strings.TrimSpace(c.Query("q")))
	s.mu.Lock()
	products := make([]models.Product, 0, len(s.products[tenantID]))
	for _, product := range s.products[tenantID] {
		if !product.Active {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(product.Name), query) && product.Barcode != query {
			continue
		}
		products = append(products, *product)
	}
	s.mu.Unlock()
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	c.JSON(http.StatusOK, products)
}

func (s *Server) handleGetProduct(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	s.mu.Lock()
	product, found := s.products[c.GetString(ctxTenantID)][id]
	var out models.Product
	if found {
		out = *product
	}
	s.mu.Unlock()
	if !found {
		abortMessage(c, http.StatusNotFound, "produto não encontrado")
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleProductByBarcode(c *gin.Context) {
	code := strings.TrimSpace(c.Param("code"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, product := range s.products[c.GetString(ctxTenantID)] {
		if product.Barcode != "" && product.Barcode == code {
			c.JSON(http.StatusOK, product)
			return
		}
	}
	abortMessage(c, http.StatusNotFound, "código de barras não encontrado")
}

func (s *Server) handleStockAlert(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	tenantID := c.GetString(ctxTenantID)
	key := cartKey(tenantID, c.GetUint(ctxUserID))
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.products[tenantID][id]; !found {
		abortMessage(c, http.StatusNotFound, "produto não encontrado")
		return
	}
	for _, existing := range s.stockAlerts[key] {
		if existing == id {
			c.JSON(http.StatusOK, gin.H{"product_id": id})
			return
		}
	}
	s.stockAlerts[key] = append(s.stockAlerts[key], id)
	c.JSON(http.StatusCreated, gin.H{"product_id": id})
}

// cartViewLocked 以当前商品价格渲染购物车
func (s *Server) cartViewLocked(tenantID string, userID uint) models.Cart {
	cart := models.NewCart()
	for _, entry := range s.carts[cartKey(tenantID, userID)] {
		product, ok := s.products[tenantID][entry.productID]
		if !ok {
			continue
		}
		cart.Lines = append(cart.Lines, models.CartLine{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.EffectivePrice(),
			Quantity:  entry.quantity,
			ImageURL:  product.ImageURL,
		})
	}
	cart.Recompute()
	return cart
}

func (s *Server) handleGetCart(c *gin.Context) {
	s.mu.Lock()
	cart := s.cartViewLocked(c.GetString(ctxTenantID), c.GetUint(ctxUserID))
	s.mu.Unlock()
	c.JSON(http.StatusOK, cart)
}

func (s *Server) handleCartAdd(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		abortMessage(c, http.StatusBadRequest, "dados inválidos")
		return
	}
	if req.Quantity <= 0 {
		abortMessage(c, http.StatusUnprocessableEntity, "quantidade deve ser positiva")
		return
	}
	tenantID := c.GetString(ctxTenantID)
	key := cartKey(tenantID, c.GetUint(ctxUserID))

	s.mu.Lock()
	defer s.mu.Unlock()
	product, ok := s.products[tenantID][req.ProductID]
	if !ok {
		abortMessage(c, http.StatusNotFound, "produto não encontrado")
		return
	}
	if !product.Active {
		abortMessage(c, http.StatusUnprocessableEntity, "produto indisponível")
		return
	}
	entries := s.carts[key]
	for i := range entries {
		if entries[i].productID == req.ProductID {
			entries[i].quantity += req.Quantity
			c.JSON(http.StatusOK, gin.H{"product_id": req.ProductID, "quantity": entries[i].quantity})
			return
		}
	}
	s.carts[key] = append(entries, cartEntry{productID: req.ProductID, quantity: req.Quantity})
	c.JSON(http.StatusOK, gin.H{"product_id": req.ProductID, "quantity": req.Quantity})
}

func (s *Server) handleCartUpdate(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == 0 {
		abortMessage(c, http.StatusBadRequest, "dados inválidos")
		return
	}
	if req.Quantity <= 0 {
		abortMessage(c, http.StatusUnprocessableEntity, "quantidade deve ser positiva")
		return
	}
	key := cartKey(c.GetString(ctxTenantID), c.GetUint(ctxUserID))
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.carts[key]
	for i := range entries {
		if entries[i].productID == req.ProductID {
			entries[i].quantity = req.Quantity
			c.JSON(http.StatusOK, gin.H{"product_id": req.ProductID, "quantity": req.Quantity})
			return
		}
	}
	abortMessage(c, http.StatusNotFound, "item não está no carrinho")
}

func (s *Server) handleCartRemove(c *gin.Context) {
	id, ok := parseUintParam(c, "product_id")
	if !ok {
		return
	}
	key := cartKey(c.GetString(ctxTenantID), c.GetUint(ctxUserID))
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.carts[key]
	for i := range entries {
		if entries[i].productID == id {
			s.carts[key] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCartClear(c *gin.Context) {
	key := cartKey(c.GetString(ctxTenantID), c.GetUint(ctxUserID))
	s.mu.Lock()
	delete(s.carts, key)
	s.mu.Unlock()
	c.Status(http.StatusNoContent)
}

func validRetrievalType(value string) bool {
	switch value {
	case constants.RetrievalTypeStorePickup, constants.RetrievalTypeThirdPartyPickup, constants.RetrievalTypeDelivery:
		return true
	}
	return false
}

func (s *Server) handleFinalize(c *gin.Context) {
	var req finalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortMessage(c, http.StatusBadRequest, "dados inválidos")
		return
	}
	if !validRetrievalType(req.RetrievalType) {
		abortMessage(c, http.StatusUnprocessableEntity, "tipo de retirada inválido")
		return
	}
	if req.RetrievalType == constants.RetrievalTypeDelivery && (req.DeliveryAddress == nil || strings.TrimSpace(*req.DeliveryAddress) == "") {
		abortMessage(c, http.StatusUnprocessableEntity, "endereço de entrega obrigatório")
		return
	}
	tenantID := c.GetString(ctxTenantID)
	userID := c.GetUint(ctxUserID)

	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartViewLocked(tenantID, userID)
	if cart.IsEmpty() {
		abortMessage(c, http.StatusUnprocessableEntity, "carrinho vazio")
		return
	}
	s.nextOrderID++
	order := models.Order{
		ID:              s.nextOrderID,
		Items:           make([]models.OrderItem, 0, len(cart.Lines)),
		Total:           cart.Subtotal,
		RetrievalType:   req.RetrievalType,
		PickupKeyword:   strings.TrimSpace(req.PickupKeyword),
		DestinationCity: strings.TrimSpace(req.DestinationCity),
		Status:          constants.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	if req.DeliveryAddress != nil {
		order.DeliveryAddress = strings.TrimSpace(*req.DeliveryAddress)
	}
	if req.PaymentMethodName != nil {
		order.PaymentMethodName = strings.TrimSpace(*req.PaymentMethodName)
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:    line.ProductID,
			Name:         line.Name,
			UnitPrice:    line.UnitPrice,
			Quantity:     line.Quantity,
			LineSubtotal: line.LineSubtotal,
			ImageURL:     line.ImageURL,
		})
	}
	s.orders[tenantID] = append(s.orders[tenantID], &orderRecord{userID: userID, order: order})
	delete(s.carts, cartKey(tenantID, userID))
	c.JSON(http.StatusCreated, order)
}

func (s *Server) handleListOrders(c *gin.Context) {
	tenantID := c.GetString(ctxTenantID)
	userID := c.GetUint(ctxUserID)
	s.mu.Lock()
	orders := make([]models.Order, 0)
	for _, record := range s.orders[tenantID] {
		if record.userID == userID {
			orders = append(orders, record.order)
		}
	}
	s.mu.Unlock()
	sort.Slice(orders, func(i, j int) bool { return orders[i].ID > orders[j].ID })
	c.JSON(http.StatusOK, orders)
}

func (s *Server) handleGetOrder(c *gin.Context) {
	id, ok := parseUintParam(c, "id")
	if !ok {
		return
	}
	tenantID := c.GetString(ctxTenantID)
	userID := c.GetUint(ctxUserID)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, record := range s.orders[tenantID] {
		if record.order.ID == id && record.userID == userID {
			c.JSON(http.StatusOK, record.order)
			return
		}
	}
	abortMessage(c, http.StatusNotFound, "pedido não encontrado")
}

func (s *Server) handlePushToken(c *gin.Context) {
	var req pushTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		abortMessage(c, http.StatusBadRequest, "token inválido")
		return
	}
	s.mu.Lock()
	s.pushTokens[strings.TrimSpace(req.Token)] = strings.TrimSpace(req.Platform)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, gin.H{"token": req.Token})
}
