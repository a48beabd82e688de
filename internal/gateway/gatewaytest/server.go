// internal/gateway/gatewaytest/server.go

// Package gatewaytest provides an in-memory marketplace API server
// with the same routes and wire shapes as the real catalog gateway.
// It backs the package test suites and marketctl's demo mode.
package gatewaytest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/greenloop/market-client/internal/models"
)

var signingKey = []byte("gatewaytest-secret")

// DefaultCategories is the server-supplied category set.
var DefaultCategories = []string{
	"Electronics", "Clothing", "Books", "Furniture", "Sports", "Toys", "Other",
}

// Server is a fake catalog gateway. All state lives in memory and is
// keyed by the user id carried in the bearer token.
type Server struct {
	httpSrv *httptest.Server

	mtx        sync.Mutex
	products   []models.Product
	carts      map[string]*models.Cart
	orders     map[string][]models.Order
	categories []string

	hits       map[string]int
	failStatus int
	failMsg    string
}

func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		carts:      make(map[string]*models.Cart),
		orders:     make(map[string][]models.Order),
		categories: DefaultCategories,
		hits:       make(map[string]int),
	}

	engine := gin.New()
	engine.Use(cors.Default())
	engine.Use(s.record())
	engine.Use(s.auth())

	engine.GET("/products", s.searchProducts)
	engine.GET("/products/meta/categories", s.getCategories)
	engine.GET("/products/user/my-products", s.myProducts)
	engine.GET("/products/:id", s.getProduct)
	engine.POST("/products", s.createProduct)
	engine.DELETE("/products/:id", s.deleteProduct)

	engine.GET("/cart", s.getCart)
	engine.POST("/cart/add", s.addToCart)
	engine.PUT("/cart/update/:productId", s.updateCartItem)
	engine.DELETE("/cart/remove/:productId", s.removeCartItem)
	engine.DELETE("/cart/clear", s.clearCart)

	engine.POST("/orders/create", s.createOrder)
	engine.GET("/orders/my-orders", s.myOrders)

	s.httpSrv = httptest.NewServer(engine)
	return s
}

func (s *Server) URL() string { return s.httpSrv.URL }

func (s *Server) Close() { s.httpSrv.Close() }

// Token issues a signed bearer token for the given identity.
func (s *Server) Token(userID, username string) string {
	claims := struct {
		Username string `json:"username"`
		jwt.RegisteredClaims
	}{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			Issuer:    "gatewaytest",
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		panic(err)
	}
	return token
}

// SeedProduct inserts a product, filling in server-owned defaults.
func (s *Server) SeedProduct(p models.Product) models.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.products = append(s.products, p)
	return p
}

// FailNext makes the next request fail with the given status and
// structured message body.
func (s *Server) FailNext(status int, message string) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.failStatus = status
	s.failMsg = message
}

// Hits counts requests whose "METHOD /path" starts with the given
// prefix.
func (s *Server) Hits(prefix string) int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	total := 0
	for key, n := range s.hits {
		if strings.HasPrefix(key, prefix) {
			total += n
		}
	}
	return total
}

func (s *Server) record() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.mtx.Lock()
		s.hits[c.Request.Method+" "+c.Request.URL.Path]++
		failStatus, failMsg := s.failStatus, s.failMsg
		s.failStatus, s.failMsg = 0, ""
		s.mtx.Unlock()

		if failStatus != 0 {
			c.AbortWithStatusJSON(failStatus, gin.H{"message": failMsg})
			return
		}

		c.Next()
	}
}

func (s *Server) auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		var claims struct {
			Username string `json:"username"`
			jwt.RegisteredClaims
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if _, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
			return signingKey, nil
		}); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set("user_id", claims.Subject)
		c.Set("username", claims.Username)
		c.Next()
	}
}

func (s *Server) searchProducts(c *gin.Context) {
	search := strings.ToLower(c.Query("search"))
	category := c.Query("category")

	s.mtx.Lock()
	defer s.mtx.Unlock()

	products := []models.Product{}
	for _, p := range s.products {
		if !p.IsAvailable {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		products = append(products, p)
	}

	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (s *Server) getCategories(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c.JSON(http.StatusOK, s.categories)
}

func (s *Server) getProduct(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i, p := range s.products {
		if p.ID == c.Param("id") {
			s.products[i].Views++
			c.JSON(http.StatusOK, s.products[i])
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
}

func (s *Server) createProduct(c *gin.Context) {
	var draft models.ProductDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	if draft.Title == "" || draft.Description == "" || draft.Price <= 0 ||
		draft.Category == "" || len(draft.Images) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing required product fields"})
		return
	}

	product := models.Product{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		Description: draft.Description,
		Price:       draft.Price,
		Category:    draft.Category,
		Condition:   draft.Condition,
		Images:      draft.Images,
		Tags:        draft.Tags,
		IsAvailable: true,
		CreatedAt:   time.Now().UTC(),
		Seller: models.Seller{
			ID:       c.GetString("user_id"),
			Username: c.GetString("username"),
		},
	}

	s.mtx.Lock()
	s.products = append(s.products, product)
	s.mtx.Unlock()

	c.JSON(http.StatusCreated, product)
}

func (s *Server) myProducts(c *gin.Context) {
	userID := c.GetString("user_id")

	s.mtx.Lock()
	defer s.mtx.Unlock()

	products := []models.Product{}
	for _, p := range s.products {
		if p.Seller.ID == userID {
			products = append(products, p)
		}
	}

	c.JSON(http.StatusOK, products)
}

func (s *Server) deleteProduct(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetString("user_id")

	s.mtx.Lock()
	defer s.mtx.Unlock()

	for i, p := range s.products {
		if p.ID != id {
			continue
		}
		if p.Seller.ID != userID {
			c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized to delete this product"})
			return
		}

		s.products = append(s.products[:i], s.products[i+1:]...)
		for _, cart := range s.carts {
			s.removeLine(cart, id)
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
}

func (s *Server) cartFor(userID string) *models.Cart {
	cart, ok := s.carts[userID]
	if !ok {
		cart = &models.Cart{ID: uuid.NewString(), Items: []models.CartItem{}}
		s.carts[userID] = cart
	}
	return cart
}

func (s *Server) removeLine(cart *models.Cart, productID string) {
	for i, item := range cart.Items {
		if item.Product.ID == productID {
			cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
			return
		}
	}
}

func (s *Server) getCart(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	c.JSON(http.StatusOK, s.cartFor(c.GetString("user_id")))
}

func (s *Server) addToCart(c *gin.Context) {
	var req struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
		return
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	var product *models.Product
	for i := range s.products {
		if s.products[i].ID == req.ProductID {
			product = &s.products[i]
			break
		}
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if !product.IsAvailable {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Product is not available"})
		return
	}

	cart := s.cartFor(c.GetString("user_id"))
	found := false
	for i := range cart.Items {
		if cart.Items[i].Product.ID == req.ProductID {
			cart.Items[i].Quantity += req.Quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.CartItem{Product: *product, Quantity: req.Quantity})
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart", "cart": cart})
}

func (s *Server) updateCartItem(c *gin.Context) {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if req.Quantity < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Quantity must be at least 1"})
		return
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	cart := s.cartFor(c.GetString("user_id"))
	for i := range cart.Items {
		if cart.Items[i].Product.ID == c.Param("productId") {
			cart.Items[i].Quantity = req.Quantity
			c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "cart": cart})
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"message": "Item not found in cart"})
}

func (s *Server) removeCartItem(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cart := s.cartFor(c.GetString("user_id"))
	s.removeLine(cart, c.Param("productId"))
	c.JSON(http.StatusOK, gin.H{"message": "Item removed", "cart": cart})
}

func (s *Server) clearCart(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	cart := s.cartFor(c.GetString("user_id"))
	cart.Items = []models.CartItem{}
	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared", "cart": cart})
}

func (s *Server) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}

	userID := c.GetString("user_id")

	s.mtx.Lock()
	defer s.mtx.Unlock()

	cart := s.cartFor(userID)
	if len(cart.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
		return
	}

	order := models.Order{
		ID:              uuid.NewString(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		Status:          models.OrderStatusPending,
		CreatedAt:       time.Now().UTC(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			Product:  item.Product,
			Quantity: item.Quantity,
			Price:    item.Product.Price,
		})
		order.TotalAmount += item.Product.Price * float64(item.Quantity)

		// Availability flips exactly once an order is confirmed.
		for i := range s.products {
			if s.products[i].ID == item.Product.ID {
				s.products[i].IsAvailable = false
			}
		}
	}

	cart.Items = []models.CartItem{}
	s.orders[userID] = append([]models.Order{order}, s.orders[userID]...)

	c.JSON(http.StatusCreated, gin.H{"message": "Order created", "order": order})
}

func (s *Server) myOrders(c *gin.Context) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	orders := s.orders[c.GetString("user_id")]
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}
